package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"skybook/internal/domain"
	"skybook/internal/events"
	"skybook/internal/repository"
)

type Service struct {
	bookings BookingRepository
	flights  FlightRepository
	events   EventPublisher
}

func NewService(bookings BookingRepository, flights FlightRepository, events EventPublisher) *Service {
	return &Service{bookings: bookings, flights: flights, events: events}
}

// RefundRate is the fraction of the paid price returned on cancellation.
const RefundRate = 0.8

// Create reserves a seat on the flight and records a pending booking. The
// seat label is positional: passengers fill rows front to back, so seat N is
// handed out when N-1 seats are already taken.
func (s *Service) Create(ctx context.Context, userID string, req CreateBookingRequest) (*domain.Booking, error) {
	if strings.TrimSpace(req.PassengerName) == "" || strings.TrimSpace(req.PassengerContact) == "" {
		return nil, ErrInvalidPassenger
	}

	flight, err := s.flights.GetByID(ctx, req.FlightID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFlightNotFound
		}
		return nil, err
	}
	if flight.AvailableSeats <= 0 {
		return nil, ErrNoSeatsAvailable
	}

	seat := fmt.Sprintf("%dA", flight.TotalSeats-flight.AvailableSeats+1)

	b := &domain.Booking{
		ID:               uuid.NewString(),
		UserID:           userID,
		FlightID:         flight.ID,
		PassengerName:    strings.TrimSpace(req.PassengerName),
		PassengerContact: strings.TrimSpace(req.PassengerContact),
		SeatNumber:       seat,
		Status:           domain.BookingPending,
		PricePaid:        flight.Price,
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		if errors.Is(err, repository.ErrNoSeatsAvailable) {
			return nil, ErrNoSeatsAvailable
		}
		return nil, err
	}

	flight.AvailableSeats--
	b.Flight = flight

	s.publish(ctx, events.BookingEvent{
		Type:       events.TypeBookingCreated,
		BookingID:  b.ID,
		FlightID:   b.FlightID,
		UserID:     b.UserID,
		SeatNumber: b.SeatNumber,
		Status:     string(b.Status),
		OccurredAt: time.Now().UTC(),
	})

	return b, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	bookings, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	return bookings, nil
}

// Get returns the booking if the caller owns it or is an admin.
func (s *Service) Get(ctx context.Context, userID string, role domain.UserRole, bookingID string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if b.UserID != userID && role != domain.RoleAdmin {
		return nil, ErrNotOwner
	}
	return b, nil
}

// Cancel marks the booking cancelled, returns the seat to the flight and
// computes the refund. Cancellation is terminal; a later payment confirmation
// cannot undo it.
func (s *Service) Cancel(ctx context.Context, userID string, role domain.UserRole, bookingID string) (*CancelResult, error) {
	b, err := s.Get(ctx, userID, role, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status == domain.BookingCancelled {
		return nil, ErrAlreadyCancelled
	}

	if err := s.bookings.Cancel(ctx, b); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Lost the race with a concurrent cancellation.
			return nil, ErrAlreadyCancelled
		}
		return nil, err
	}

	s.publish(ctx, events.BookingEvent{
		Type:       events.TypeBookingCancelled,
		BookingID:  b.ID,
		FlightID:   b.FlightID,
		UserID:     b.UserID,
		SeatNumber: b.SeatNumber,
		Status:     string(domain.BookingCancelled),
		OccurredAt: time.Now().UTC(),
	})

	return &CancelResult{
		BookingID:    b.ID,
		Status:       string(domain.BookingCancelled),
		RefundAmount: b.PricePaid * RefundRate,
	}, nil
}

// GetForReceipt loads the booking for PDF rendering; only confirmed bookings
// have receipts.
func (s *Service) GetForReceipt(ctx context.Context, userID string, role domain.UserRole, bookingID string) (*domain.Booking, error) {
	b, err := s.Get(ctx, userID, role, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != domain.BookingConfirmed {
		return nil, ErrReceiptUnavailable
	}
	return b, nil
}

func (s *Service) publish(ctx context.Context, ev events.BookingEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		logrus.WithError(err).WithField("booking_id", ev.BookingID).
			Warn("failed to publish booking event")
	}
}
