package payment

import "errors"

var (
	ErrPaymentNotFound  = errors.New("payment session not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrNotOwner         = errors.New("booking belongs to another user")
	ErrBookingCancelled = errors.New("booking is cancelled")
	ErrAlreadyPaid      = errors.New("booking is already paid")
)
