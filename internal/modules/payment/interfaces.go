package payment

import (
	"context"

	"skybook/internal/domain"
	"skybook/internal/events"
)

type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	GetBySessionID(ctx context.Context, sessionID string) (*domain.Payment, error)
	MarkSuccess(ctx context.Context, sessionID string) (bool, error)
	MarkFailed(ctx context.Context, sessionID string) error
}

type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ConfirmIfPending(ctx context.Context, bookingID string) (bool, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, ev events.BookingEvent) error
}
