package admin

import (
	"context"
	"time"

	"skybook/internal/domain"
)

type FlightRepository interface {
	Create(ctx context.Context, f *domain.Flight) error
	GetByID(ctx context.Context, id string) (*domain.Flight, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Flight, error)
}

type BookingRepository interface {
	ListAll(ctx context.Context) ([]domain.Booking, error)
	ListByCreatedRange(ctx context.Context, from, to time.Time) ([]domain.Booking, error)
}

// CacheInvalidator drops cached flight search results after a mutation. A nil
// invalidator means no cache is configured.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}
