package admin

import "time"

type CreateFlightRequest struct {
	FlightNumber  string    `json:"flight_number" binding:"required"`
	Source        string    `json:"source" binding:"required"`
	Destination   string    `json:"destination" binding:"required"`
	DepartureTime time.Time `json:"departure_time" binding:"required"`
	ArrivalTime   time.Time `json:"arrival_time" binding:"required"`
	TotalSeats    int       `json:"total_seats" binding:"required,gt=0"`
	Price         float64   `json:"price" binding:"required,gt=0"`
}

// UpdateFlightRequest carries only the fields to change; nil means keep.
type UpdateFlightRequest struct {
	FlightNumber  *string    `json:"flight_number"`
	Source        *string    `json:"source"`
	Destination   *string    `json:"destination"`
	DepartureTime *time.Time `json:"departure_time"`
	ArrivalTime   *time.Time `json:"arrival_time"`
	Price         *float64   `json:"price"`
}

type RouteCount struct {
	Route    string `json:"route"`
	Bookings int    `json:"bookings"`
}

type Report struct {
	TotalBookings     int          `json:"total_bookings"`
	ConfirmedBookings int          `json:"confirmed_bookings"`
	CancelledBookings int          `json:"cancelled_bookings"`
	TotalRevenue      float64      `json:"total_revenue"`
	TopRoutes         []RouteCount `json:"top_routes"`
}
