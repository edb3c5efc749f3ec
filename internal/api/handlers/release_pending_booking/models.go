package release_pending_booking

// ReleasePendingRequest HTTP request model
type ReleasePendingRequest struct {
	BookingID string `json:"bookingId" validate:"required,uuid"`
}

// ReleasePendingResponse HTTP response model
type ReleasePendingResponse struct {
	Message       string `json:"message"`
	BookingID     string `json:"bookingId"`
	ReleasedSlots int    `json:"releasedSlots"`
}
