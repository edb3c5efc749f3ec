package get_session_status

// SessionStatusResponse HTTP response model
type SessionStatusResponse struct {
	Status        string `json:"status"`
	CustomerEmail string `json:"customerEmail,omitempty"`
	PaymentID     string `json:"paymentId,omitempty"`
	BookingID     string `json:"bookingId,omitempty"`
}
