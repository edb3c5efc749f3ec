package create_checkout_session

// CreateCheckoutRequest HTTP request model
type CreateCheckoutRequest struct {
	BookingID string `json:"bookingId" validate:"required,uuid"`
}

// CreateCheckoutResponse HTTP response model
type CreateCheckoutResponse struct {
	ClientSecret string `json:"clientSecret"`
	SessionID    string `json:"sessionId"`
}
