package payment

// CreateCheckoutRequest comes in as query parameters on the create-checkout
// route.
type CreateCheckoutRequest struct {
	BookingID string
	OriginURL string
}

type CheckoutSessionResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// StatusResponse is what pollers consume: the gateway's verdict plus the
// booking status it produced.
type StatusResponse struct {
	SessionID     string `json:"session_id"`
	PaymentStatus string `json:"payment_status"`
	Status        string `json:"status"`
	BookingStatus string `json:"booking_status"`
}
