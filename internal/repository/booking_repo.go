package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"skybook/internal/domain"
)

// ErrNoSeatsAvailable is returned when the seat decrement finds no free seat.
var ErrNoSeatsAvailable = errors.New("no seats available")

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts the booking and decrements the flight's available seats in
// one transaction. The guarded UPDATE is the seat-count authority: if another
// booking takes the last seat first, the decrement touches zero rows and the
// whole transaction fails with ErrNoSeatsAvailable.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Flight{}).
			Where("id = ? AND available_seats > 0", b.FlightID).
			Update("available_seats", gorm.Expr("available_seats - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNoSeatsAvailable
		}
		return tx.Create(b).Error
	})
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).Preload("Flight").First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	var bookings []domain.Booking
	err := r.db.WithContext(ctx).
		Preload("Flight").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *BookingRepository) ListAll(ctx context.Context) ([]domain.Booking, error) {
	var bookings []domain.Booking
	err := r.db.WithContext(ctx).
		Preload("Flight").
		Preload("User").
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *BookingRepository) ListByCreatedRange(ctx context.Context, from, to time.Time) ([]domain.Booking, error) {
	q := r.db.WithContext(ctx).Preload("Flight")
	if !from.IsZero() && !to.IsZero() {
		q = q.Where("created_at >= ? AND created_at <= ?", from, to)
	}
	var bookings []domain.Booking
	err := q.Find(&bookings).Error
	return bookings, err
}

// Cancel marks the booking cancelled and returns the seat to the flight.
// Status checks happen in the service; this only applies the two writes
// atomically.
func (r *BookingRepository) Cancel(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Booking{}).
			Where("id = ? AND status <> ?", b.ID, domain.BookingCancelled).
			Update("status", domain.BookingCancelled)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&domain.Flight{}).
			Where("id = ?", b.FlightID).
			Update("available_seats", gorm.Expr("available_seats + 1")).Error
	})
}

// ConfirmIfPending promotes a pending booking to confirmed. The status guard
// keeps the transition monotonic: a cancelled booking is never resurrected and
// a second confirmation is a no-op.
func (r *BookingRepository) ConfirmIfPending(ctx context.Context, bookingID string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("id = ? AND status = ?", bookingID, domain.BookingPending).
		Update("status", domain.BookingConfirmed)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
