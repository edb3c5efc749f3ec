package cancel_booking

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	Token    string `json:"token" validate:"required"`
	Language string `json:"language" validate:"omitempty,oneof=sv en"`
}

// CancelBookingResponse HTTP response model
type CancelBookingResponse struct {
	Message       string `json:"message"`
	BookingID     string `json:"bookingId"`
	PaymentStatus string `json:"paymentStatus"`
	RefundFailed  bool   `json:"refundFailed"`
}
