package booking

import "errors"

var (
	ErrBookingNotFound    = errors.New("booking not found")
	ErrFlightNotFound     = errors.New("flight not found")
	ErrNoSeatsAvailable   = errors.New("no seats available")
	ErrAlreadyCancelled   = errors.New("booking already cancelled")
	ErrNotOwner           = errors.New("booking belongs to another user")
	ErrReceiptUnavailable = errors.New("receipt is only available for confirmed bookings")
	ErrInvalidPassenger   = errors.New("passenger name and contact are required")
)
