package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"skybook/internal/seatmap"
)

// State is the checkout flow position. Transitions only move forward; the
// terminal payment states end the attempt and a new attempt starts over from
// flight load.
type State string

const (
	StateBrowsing               State = "browsing"
	StateSeatSelected           State = "seat_selected"
	StatePassengerInfoSubmitted State = "passenger_info_submitted"
	StateBookingCreated         State = "booking_created"
	StatePaymentSessionCreated  State = "payment_session_created"
	StateRedirectedToProvider   State = "redirected_to_provider"
	StatePaymentVerifying       State = "payment_verifying"
	StatePaymentConfirmed       State = "payment_confirmed"
	StatePaymentFailed          State = "payment_failed"
	StatePaymentTimedOut        State = "payment_timed_out"
	StatePaymentError           State = "payment_error"
	StateCheckoutCancelled      State = "checkout_cancelled"
)

const (
	pollInterval = 2 * time.Second
	pollAttempts = 5
)

// Notification is a user-facing flow event.
type Notification struct {
	Level   string // "info", "success" or "error"
	Message string
	Err     error
}

type Notifier func(Notification)

// Sleeper waits between payment polls; injectable so tests run instantly.
type Sleeper func(ctx context.Context, d time.Duration) error

func defaultSleeper(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Orchestrator drives one booking-and-payment attempt end to end: seat
// selection, passenger info, booking creation, checkout session and the
// bounded payment verification poll.
type Orchestrator struct {
	api     *Client
	session *Session
	notify  Notifier
	sleep   Sleeper

	mu               sync.Mutex
	state            State
	flight           *Flight
	seats            []seatmap.Seat
	selectedSeat     string
	passengerName    string
	passengerContact string
	booking          *Booking
	checkout         *CheckoutSession
}

type OrchestratorOption func(*Orchestrator)

func WithNotifier(n Notifier) OrchestratorOption {
	return func(o *Orchestrator) { o.notify = n }
}

func WithSleeper(s Sleeper) OrchestratorOption {
	return func(o *Orchestrator) { o.sleep = s }
}

func NewOrchestrator(api *Client, session *Session, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		api:     api,
		session: session,
		notify:  func(Notification) {},
		sleep:   defaultSleeper,
		state:   StateBrowsing,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) Booking() *Booking {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.booking
}

// LoadFlight fetches the flight and projects its seat map. Any selection or
// in-progress attempt from a previous flight is discarded.
func (o *Orchestrator) LoadFlight(ctx context.Context, flightID string) (*Flight, error) {
	flight, err := o.api.GetFlight(ctx, flightID)
	if err != nil {
		return nil, o.fail("failed to load flight", err)
	}

	o.mu.Lock()
	o.flight = flight
	o.seats = seatmap.Project(flight.TotalSeats, flight.AvailableSeats)
	o.selectedSeat = ""
	o.passengerName = ""
	o.passengerContact = ""
	o.booking = nil
	o.checkout = nil
	o.state = StateBrowsing
	o.mu.Unlock()

	return flight, nil
}

// SeatMap returns the projected seats for the loaded flight.
func (o *Orchestrator) SeatMap() []seatmap.Seat {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]seatmap.Seat, len(o.seats))
	copy(out, o.seats)
	return out
}

// SelectSeat marks a seat for the attempt. The choice is client-local; the
// server assigns the actual seat at booking time.
func (o *Orchestrator) SelectSeat(seatID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.flight == nil {
		return o.failLocked("no flight loaded", ErrState)
	}
	for _, seat := range o.seats {
		if seat.ID != seatID {
			continue
		}
		if seat.State == seatmap.SeatOccupied {
			return o.failLocked("seat "+seatID+" is occupied", ErrValidation)
		}
		o.selectedSeat = seatID
		o.state = StateSeatSelected
		return nil
	}
	return o.failLocked("unknown seat "+seatID, ErrValidation)
}

func (o *Orchestrator) ClearSelection() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.selectedSeat = ""
	if o.state == StateSeatSelected || o.state == StatePassengerInfoSubmitted {
		o.state = StateBrowsing
	}
}

func (o *Orchestrator) SelectedSeat() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.selectedSeat
}

// SubmitPassengerInfo records who is flying. Both fields are required.
func (o *Orchestrator) SubmitPassengerInfo(name, contact string) error {
	name = strings.TrimSpace(name)
	contact = strings.TrimSpace(contact)
	if name == "" || contact == "" {
		return o.fail("passenger name and contact are required", ErrValidation)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StateSeatSelected {
		return o.failLocked("select a seat first", ErrState)
	}
	o.passengerName = name
	o.passengerContact = contact
	o.state = StatePassengerInfoSubmitted
	return nil
}

// CreateBooking reserves the seat on the server. Local validation runs
// before any network call.
func (o *Orchestrator) CreateBooking(ctx context.Context) (*Booking, error) {
	o.mu.Lock()
	if o.passengerName == "" || o.passengerContact == "" {
		o.mu.Unlock()
		return nil, o.fail("passenger details are missing", ErrValidation)
	}
	if o.flight == nil || o.state != StatePassengerInfoSubmitted {
		o.mu.Unlock()
		return nil, o.fail("booking flow is not ready", ErrState)
	}
	flightID := o.flight.ID
	name := o.passengerName
	contact := o.passengerContact
	o.mu.Unlock()

	if !o.session.Authenticated() {
		return nil, o.fail("sign in to book a flight", ErrAuthRequired)
	}

	booking, err := o.api.CreateBooking(ctx, flightID, name, contact)
	if err != nil {
		return nil, o.fail("failed to create booking", err)
	}

	o.mu.Lock()
	o.booking = booking
	o.state = StateBookingCreated
	o.mu.Unlock()

	o.notify(Notification{Level: "info", Message: "Booking created, seat " + booking.SeatNumber})
	return booking, nil
}

// CreateCheckout opens the hosted payment session for the created booking.
// On failure the booking stays pending and no session is recorded, so the
// call can simply be retried.
func (o *Orchestrator) CreateCheckout(ctx context.Context, originURL string) (*CheckoutSession, error) {
	o.mu.Lock()
	if o.booking == nil {
		o.mu.Unlock()
		return nil, o.fail("create a booking before paying", ErrState)
	}
	bookingID := o.booking.ID
	o.mu.Unlock()

	session, err := o.api.CreateCheckoutSession(ctx, bookingID, originURL)
	if err != nil {
		return nil, o.fail("failed to start checkout", err)
	}

	o.mu.Lock()
	o.checkout = session
	o.state = StatePaymentSessionCreated
	o.mu.Unlock()

	return session, nil
}

// MarkRedirected records that the user was handed to the provider's page.
func (o *Orchestrator) MarkRedirected() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == StatePaymentSessionCreated {
		o.state = StateRedirectedToProvider
	}
}

// VerifyPayment polls the payment status after the provider redirects back.
// At most pollAttempts sequential checks, pollInterval apart: "paid" ends in
// PaymentConfirmed, "expired" in PaymentFailed, anything else keeps polling
// until the attempts run out (PaymentTimedOut). A transport or decode
// failure aborts immediately (PaymentError). Calling it again restarts the
// poll; settlement is idempotent server-side.
func (o *Orchestrator) VerifyPayment(ctx context.Context, sessionID string) (*PaymentStatus, error) {
	if !o.session.Authenticated() {
		return nil, o.fail("sign in to verify your payment", ErrAuthRequired)
	}

	o.setState(StatePaymentVerifying)

	for attempt := 0; attempt < pollAttempts; attempt++ {
		if attempt > 0 {
			if err := o.sleep(ctx, pollInterval); err != nil {
				o.setState(StatePaymentError)
				return nil, o.fail("payment verification interrupted", fmt.Errorf("%w: %v", ErrPaymentCheck, err))
			}
		}

		status, err := o.api.CheckoutStatus(ctx, sessionID)
		if err != nil {
			o.setState(StatePaymentError)
			if errors.Is(err, ErrAuthRequired) || errors.Is(err, ErrNotFound) {
				return nil, o.fail("failed to check payment status", err)
			}
			return nil, o.fail("failed to check payment status", fmt.Errorf("%w: %v", ErrPaymentCheck, err))
		}

		switch {
		case status.PaymentStatus == "paid":
			o.setState(StatePaymentConfirmed)
			o.notify(Notification{Level: "success", Message: "Payment confirmed, booking " + status.BookingStatus})
			return status, nil
		case status.Status == "expired":
			o.setState(StatePaymentFailed)
			return nil, o.fail("payment session expired", ErrPaymentFailed)
		}
	}

	o.setState(StatePaymentTimedOut)
	return nil, o.fail("payment not confirmed in time; check your bookings shortly", ErrPaymentTimedOut)
}

// CancelReturn handles the user backing out on the provider's page. Local
// only; the pending booking remains and can be paid again later.
func (o *Orchestrator) CancelReturn() {
	o.mu.Lock()
	o.state = StateCheckoutCancelled
	o.mu.Unlock()
	o.notify(Notification{Level: "info", Message: "Checkout cancelled; your booking is still pending"})
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// fail surfaces the error through the notifier and returns it.
func (o *Orchestrator) fail(message string, err error) error {
	o.notify(Notification{Level: "error", Message: message, Err: err})
	return fmt.Errorf("%s: %w", message, err)
}

// failLocked is fail for callers holding o.mu. The notifier runs with the
// lock held and must not call back into the orchestrator.
func (o *Orchestrator) failLocked(message string, err error) error {
	o.notify(Notification{Level: "error", Message: message, Err: err})
	return fmt.Errorf("%s: %w", message, err)
}
