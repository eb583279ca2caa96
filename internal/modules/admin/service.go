package admin

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"skybook/internal/domain"
)

type Service struct {
	flights  FlightRepository
	bookings BookingRepository
	cache    CacheInvalidator
}

func NewService(flights FlightRepository, bookings BookingRepository, cache CacheInvalidator) *Service {
	return &Service{flights: flights, bookings: bookings, cache: cache}
}

// CreateFlight registers a new flight. Every seat starts available.
func (s *Service) CreateFlight(ctx context.Context, req CreateFlightRequest) (*domain.Flight, error) {
	f := &domain.Flight{
		ID:             uuid.NewString(),
		FlightNumber:   req.FlightNumber,
		Source:         req.Source,
		Destination:    req.Destination,
		DepartureTime:  req.DepartureTime,
		ArrivalTime:    req.ArrivalTime,
		TotalSeats:     req.TotalSeats,
		AvailableSeats: req.TotalSeats,
		Price:          req.Price,
	}
	if err := s.flights.Create(ctx, f); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx)
	return f, nil
}

// UpdateFlight applies a partial update. Seat counts are deliberately not
// updatable here; they only move through bookings and cancellations.
func (s *Service) UpdateFlight(ctx context.Context, id string, req UpdateFlightRequest) (*domain.Flight, error) {
	fields := map[string]any{}
	if req.FlightNumber != nil {
		fields["flight_number"] = *req.FlightNumber
	}
	if req.Source != nil {
		fields["source"] = *req.Source
	}
	if req.Destination != nil {
		fields["destination"] = *req.Destination
	}
	if req.DepartureTime != nil {
		fields["departure_time"] = *req.DepartureTime
	}
	if req.ArrivalTime != nil {
		fields["arrival_time"] = *req.ArrivalTime
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}

	if err := s.flights.Update(ctx, id, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFlightNotFound
		}
		return nil, err
	}
	s.invalidateCache(ctx)

	f, err := s.flights.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFlightNotFound
		}
		return nil, err
	}
	return f, nil
}

func (s *Service) DeleteFlight(ctx context.Context, id string) error {
	if err := s.flights.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFlightNotFound
		}
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *Service) ListFlights(ctx context.Context) ([]domain.Flight, error) {
	flights, err := s.flights.List(ctx)
	if err != nil {
		return nil, err
	}
	if flights == nil {
		flights = []domain.Flight{}
	}
	return flights, nil
}

func (s *Service) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	bookings, err := s.bookings.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	return bookings, nil
}

// BuildReport aggregates booking counts and revenue, optionally limited to a
// created-at window. Revenue counts confirmed bookings only.
func (s *Service) BuildReport(ctx context.Context, from, to time.Time) (*Report, error) {
	bookings, err := s.bookings.ListByCreatedRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	report := &Report{TopRoutes: []RouteCount{}}
	routeCounts := map[string]int{}

	for _, b := range bookings {
		report.TotalBookings++
		switch b.Status {
		case domain.BookingConfirmed:
			report.ConfirmedBookings++
			report.TotalRevenue += b.PricePaid
		case domain.BookingCancelled:
			report.CancelledBookings++
		}
		if b.Flight != nil {
			routeCounts[fmt.Sprintf("%s-%s", b.Flight.Source, b.Flight.Destination)]++
		}
	}

	for route, count := range routeCounts {
		report.TopRoutes = append(report.TopRoutes, RouteCount{Route: route, Bookings: count})
	}
	sort.Slice(report.TopRoutes, func(i, j int) bool {
		if report.TopRoutes[i].Bookings != report.TopRoutes[j].Bookings {
			return report.TopRoutes[i].Bookings > report.TopRoutes[j].Bookings
		}
		return report.TopRoutes[i].Route < report.TopRoutes[j].Route
	})
	if len(report.TopRoutes) > 5 {
		report.TopRoutes = report.TopRoutes[:5]
	}

	return report, nil
}

func (s *Service) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		logrus.WithError(err).Warn("failed to invalidate flight cache")
	}
}
