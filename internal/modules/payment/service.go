package payment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"skybook/internal/domain"
	"skybook/internal/events"
	"skybook/internal/provider"
)

type Service struct {
	payments PaymentRepository
	bookings BookingRepository
	checkout provider.CheckoutProvider
	events   EventPublisher
}

func NewService(payments PaymentRepository, bookings BookingRepository, checkout provider.CheckoutProvider, events EventPublisher) *Service {
	return &Service{payments: payments, bookings: bookings, checkout: checkout, events: events}
}

// CreateCheckout opens a hosted checkout session for a pending booking. The
// amount always comes from the stored booking, never from the request.
func (s *Service) CreateCheckout(ctx context.Context, userID string, role domain.UserRole, req CreateCheckoutRequest) (*CheckoutSessionResponse, error) {
	b, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if b.UserID != userID && role != domain.RoleAdmin {
		return nil, ErrNotOwner
	}
	switch b.Status {
	case domain.BookingCancelled:
		return nil, ErrBookingCancelled
	case domain.BookingConfirmed:
		return nil, ErrAlreadyPaid
	}

	origin := strings.TrimRight(req.OriginURL, "/")
	session, err := s.checkout.CreateSession(ctx, provider.SessionRequest{
		Amount:     b.PricePaid,
		Currency:   "usd",
		SuccessURL: origin + "/payment-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  origin + "/payment-cancel",
		Metadata: map[string]string{
			"booking_id": b.ID,
			"user_id":    b.UserID,
		},
	})
	if err != nil {
		return nil, err
	}

	p := &domain.Payment{
		ID:        uuid.NewString(),
		BookingID: b.ID,
		SessionID: session.SessionID,
		Amount:    b.PricePaid,
		Method:    "stripe",
		Status:    domain.PaymentPending,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, err
	}

	return &CheckoutSessionResponse{SessionID: session.SessionID, URL: session.URL}, nil
}

// Status asks the gateway for the session outcome and settles local state.
// Safe to call any number of times: the payment flips to success at most once
// and a cancelled booking is never confirmed.
func (s *Service) Status(ctx context.Context, sessionID string) (*StatusResponse, error) {
	p, err := s.payments.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	st, err := s.checkout.SessionStatus(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch {
	case st.PaymentStatus == "paid":
		if err := s.settleSuccess(ctx, p, sessionID); err != nil {
			return nil, err
		}
	case st.Status == "expired":
		if err := s.payments.MarkFailed(ctx, sessionID); err != nil {
			return nil, err
		}
	}

	b, err := s.bookings.GetByID(ctx, p.BookingID)
	if err != nil {
		return nil, err
	}

	return &StatusResponse{
		SessionID:     sessionID,
		PaymentStatus: st.PaymentStatus,
		Status:        st.Status,
		BookingStatus: string(b.Status),
	}, nil
}

// HandleWebhook settles a gateway push notification. Deliveries are retried
// by the gateway, so the same event may arrive more than once.
func (s *Service) HandleWebhook(ctx context.Context, ev *provider.WebhookEvent) error {
	p, err := s.payments.GetBySessionID(ctx, ev.SessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPaymentNotFound
		}
		return err
	}

	if ev.PaymentStatus == "paid" {
		return s.settleSuccess(ctx, p, ev.SessionID)
	}
	return nil
}

func (s *Service) settleSuccess(ctx context.Context, p *domain.Payment, sessionID string) error {
	if _, err := s.payments.MarkSuccess(ctx, sessionID); err != nil {
		return err
	}

	// Confirm on every settlement, not just the one that flipped the payment:
	// a crash between the two writes would otherwise strand the booking in
	// pending. ConfirmIfPending is idempotent and never touches a cancelled
	// booking.
	confirmed, err := s.bookings.ConfirmIfPending(ctx, p.BookingID)
	if err != nil {
		return err
	}
	if !confirmed {
		// The booking left pending before settlement, normally via
		// cancellation. The payment record keeps the success outcome but the
		// booking status stands.
		return nil
	}

	if s.events != nil {
		err := s.events.Publish(ctx, events.BookingEvent{
			Type:       events.TypeBookingConfirmed,
			BookingID:  p.BookingID,
			Status:     string(domain.BookingConfirmed),
			OccurredAt: time.Now().UTC(),
		})
		if err != nil {
			logrus.WithError(err).WithField("booking_id", p.BookingID).
				Warn("failed to publish booking event")
		}
	}
	return nil
}
