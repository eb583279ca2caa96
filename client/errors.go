// Package client is the SkyBook API client: a session store, flight
// inventory reader, the booking-and-payment orchestrator and the booking
// query surface. It is the programmatic equivalent of the web checkout flow.
package client

import (
	"errors"
	"fmt"
)

// Sentinel errors; every failure surfaced by the client wraps exactly one of
// these, so callers branch with errors.Is.
var (
	ErrValidation      = errors.New("validation failed")
	ErrAuthRequired    = errors.New("authentication required")
	ErrConflict        = errors.New("resource conflict")
	ErrUpstream        = errors.New("payment provider error")
	ErrPaymentFailed   = errors.New("payment failed")
	ErrPaymentTimedOut = errors.New("payment verification timed out")
	ErrPaymentCheck    = errors.New("payment status check failed")
	ErrNotFound        = errors.New("not found")
	ErrState           = errors.New("conflicting state")
)

// APIError is a structured server rejection. Unwrap maps the server's error
// code onto the matching sentinel.
type APIError struct {
	HTTPStatus int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("server returned %s (HTTP %d)", e.Code, e.HTTPStatus)
}

func (e *APIError) Unwrap() error {
	switch e.Code {
	case "VALIDATION_ERROR", "EMAIL_EXISTS":
		return ErrValidation
	case "UNAUTHORIZED", "FORBIDDEN":
		return ErrAuthRequired
	case "NOT_FOUND":
		return ErrNotFound
	case "NO_SEATS_AVAILABLE":
		return ErrConflict
	case "ALREADY_CANCELLED":
		return ErrState
	case "UPSTREAM_ERROR":
		return ErrUpstream
	}
	return nil
}
