package client

import "time"

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type Flight struct {
	ID             string    `json:"id"`
	FlightNumber   string    `json:"flight_number"`
	Source         string    `json:"source"`
	Destination    string    `json:"destination"`
	DepartureTime  time.Time `json:"departure_time"`
	ArrivalTime    time.Time `json:"arrival_time"`
	TotalSeats     int       `json:"total_seats"`
	AvailableSeats int       `json:"available_seats"`
	Price          float64   `json:"price"`
}

const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

type Booking struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	FlightID         string    `json:"flight_id"`
	PassengerName    string    `json:"passenger_name"`
	PassengerContact string    `json:"passenger_contact"`
	SeatNumber       string    `json:"seat_number"`
	Status           string    `json:"status"`
	PricePaid        float64   `json:"price_paid"`
	CreatedAt        time.Time `json:"created_at"`
	Flight           *Flight   `json:"flight,omitempty"`
}

type CancelResult struct {
	BookingID    string  `json:"booking_id"`
	Status       string  `json:"status"`
	RefundAmount float64 `json:"refund_amount"`
}

type CheckoutSession struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// PaymentStatus is one poll result: the gateway verdict plus the booking
// status the server derived from it.
type PaymentStatus struct {
	SessionID     string `json:"session_id"`
	PaymentStatus string `json:"payment_status"`
	Status        string `json:"status"`
	BookingStatus string `json:"booking_status"`
}
