package repository

import (
	"context"

	"gorm.io/gorm"

	"skybook/internal/domain"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.Payment, error) {
	var p domain.Payment
	if err := r.db.WithContext(ctx).First(&p, "session_id = ?", sessionID).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// MarkSuccess flips the payment to success once; repeated calls for the same
// session report changed=false.
func (r *PaymentRepository) MarkSuccess(ctx context.Context, sessionID string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Payment{}).
		Where("session_id = ? AND status <> ?", sessionID, domain.PaymentSuccess).
		Updates(map[string]any{
			"status":                domain.PaymentSuccess,
			"transaction_reference": sessionID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkFailed records a terminal failure. A payment that already settled as
// success stays success.
func (r *PaymentRepository) MarkFailed(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).Model(&domain.Payment{}).
		Where("session_id = ? AND status <> ?", sessionID, domain.PaymentSuccess).
		Update("status", domain.PaymentFailed).Error
}
