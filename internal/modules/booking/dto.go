package booking

type CreateBookingRequest struct {
	FlightID         string `json:"flight_id" binding:"required"`
	PassengerName    string `json:"passenger_name" binding:"required"`
	PassengerContact string `json:"passenger_contact" binding:"required"`
}

type CancelResult struct {
	BookingID    string  `json:"booking_id"`
	Status       string  `json:"status"`
	RefundAmount float64 `json:"refund_amount"`
}
