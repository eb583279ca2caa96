package client

import (
	"context"
	"fmt"
	"time"
)

// PartitionedBookings groups a booking list for display: trips still ahead,
// trips already flown, and cancellations.
type PartitionedBookings struct {
	Upcoming  []Booking
	Past      []Booking
	Cancelled []Booking
}

// PartitionBookings buckets by status and departure time. Only confirmed
// bookings count as trips: a pending booking is an unfinished checkout and
// appears in no bucket. Pure function of its inputs; callers recompute it
// whenever "now" or the list moves.
func PartitionBookings(bookings []Booking, now time.Time) PartitionedBookings {
	var p PartitionedBookings
	for _, b := range bookings {
		switch b.Status {
		case BookingCancelled:
			p.Cancelled = append(p.Cancelled, b)
		case BookingConfirmed:
			if b.Flight != nil && !b.Flight.DepartureTime.After(now) {
				p.Past = append(p.Past, b)
			} else {
				p.Upcoming = append(p.Upcoming, b)
			}
		}
	}
	return p
}

// Bookings is the signed-in user's booking surface: listing, cancellation
// and receipts.
type Bookings struct {
	api     *Client
	session *Session
	notify  Notifier
}

func NewBookings(api *Client, session *Session, notify Notifier) *Bookings {
	if notify == nil {
		notify = func(Notification) {}
	}
	return &Bookings{api: api, session: session, notify: notify}
}

func (b *Bookings) List(ctx context.Context) ([]Booking, error) {
	if !b.session.Authenticated() {
		return nil, fmt.Errorf("list bookings: %w", ErrAuthRequired)
	}
	return b.api.ListBookings(ctx)
}

// Cancel cancels a booking and surfaces the server-computed refund through
// the notifier.
func (b *Bookings) Cancel(ctx context.Context, bookingID string) (*CancelResult, error) {
	if !b.session.Authenticated() {
		return nil, fmt.Errorf("cancel booking: %w", ErrAuthRequired)
	}

	result, err := b.api.CancelBooking(ctx, bookingID)
	if err != nil {
		b.notify(Notification{Level: "error", Message: "Failed to cancel booking", Err: err})
		return nil, err
	}

	b.notify(Notification{
		Level:   "success",
		Message: fmt.Sprintf("Booking cancelled; refund of %.2f on its way", result.RefundAmount),
	})
	return result, nil
}

// Receipt downloads the PDF receipt of a confirmed booking.
func (b *Bookings) Receipt(ctx context.Context, bookingID string) ([]byte, error) {
	if !b.session.Authenticated() {
		return nil, fmt.Errorf("download receipt: %w", ErrAuthRequired)
	}
	return b.api.DownloadReceipt(ctx, bookingID)
}
