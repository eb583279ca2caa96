package flights

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"skybook/internal/domain"
)

type Service struct {
	flights FlightRepository
	cache   SearchCache
}

// NewService wires the flight read path. Pass a nil cache to serve every
// search from the database.
func NewService(flights FlightRepository, cache SearchCache) *Service {
	return &Service{flights: flights, cache: cache}
}

func (s *Service) Search(ctx context.Context, q SearchQuery) ([]domain.Flight, error) {
	if s.cache != nil {
		cached, err := s.cache.GetSearch(ctx, q.Source, q.Destination, q.Date)
		if err != nil {
			logrus.WithError(err).Warn("flight cache read failed, falling back to database")
		} else if cached != nil {
			return cached, nil
		}
	}

	flights, err := s.flights.Search(ctx, q.Source, q.Destination, q.Date)
	if err != nil {
		return nil, err
	}
	if flights == nil {
		flights = []domain.Flight{}
	}

	if s.cache != nil {
		if err := s.cache.SetSearch(ctx, q.Source, q.Destination, q.Date, flights); err != nil {
			logrus.WithError(err).Warn("flight cache write failed")
		}
	}
	return flights, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	f, err := s.flights.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFlightNotFound
		}
		return nil, err
	}
	return f, nil
}
