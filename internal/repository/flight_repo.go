package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"skybook/internal/domain"
)

type FlightRepository struct {
	db *gorm.DB
}

func NewFlightRepository(db *gorm.DB) *FlightRepository {
	return &FlightRepository{db: db}
}

func (r *FlightRepository) Create(ctx context.Context, f *domain.Flight) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *FlightRepository) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	var f domain.Flight
	if err := r.db.WithContext(ctx).First(&f, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

// Update applies the non-nil fields only; the column map comes from the
// admin partial-update DTO.
func (r *FlightRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&domain.Flight{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *FlightRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&domain.Flight{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *FlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	var flights []domain.Flight
	err := r.db.WithContext(ctx).Order("departure_time").Find(&flights).Error
	return flights, err
}

// Search filters by case-insensitive substring on source/destination and, when
// date is non-zero, by departures within the [date, date+24h) window.
func (r *FlightRepository) Search(ctx context.Context, source, destination string, date time.Time) ([]domain.Flight, error) {
	q := r.db.WithContext(ctx).Model(&domain.Flight{})
	if source != "" {
		q = q.Where("LOWER(source) LIKE ?", "%"+lower(source)+"%")
	}
	if destination != "" {
		q = q.Where("LOWER(destination) LIKE ?", "%"+lower(destination)+"%")
	}
	if !date.IsZero() {
		q = q.Where("departure_time >= ? AND departure_time < ?", date, date.Add(24*time.Hour))
	}

	var flights []domain.Flight
	err := q.Order("departure_time").Find(&flights).Error
	return flights, err
}
