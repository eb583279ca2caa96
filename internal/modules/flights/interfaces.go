package flights

import (
	"context"
	"time"

	"skybook/internal/domain"
)

type FlightRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Flight, error)
	List(ctx context.Context) ([]domain.Flight, error)
	Search(ctx context.Context, source, destination string, date time.Time) ([]domain.Flight, error)
}

// SearchCache sits in front of repository searches. A nil cache disables
// caching without branching at the call sites.
type SearchCache interface {
	GetSearch(ctx context.Context, source, destination string, date time.Time) ([]domain.Flight, error)
	SetSearch(ctx context.Context, source, destination string, date time.Time, flights []domain.Flight) error
}
