package booking

import (
	"context"

	"skybook/internal/domain"
	"skybook/internal/events"
)

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
	Cancel(ctx context.Context, b *domain.Booking) error
}

type FlightRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Flight, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, ev events.BookingEvent) error
}
