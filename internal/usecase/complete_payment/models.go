package complete_payment

import "github.com/m04kA/CourtBookingService/internal/domain"

// Request подтверждение оплаты бронирования
type Request struct {
	BookingID string
	PaymentID string // payment intent id
	Language  domain.Language
}

// Response состояние бронирования после подтверждения
type Response struct {
	BookingID     string
	PaymentStatus domain.PaymentStatus
	PaymentID     string

	// AlreadyCompleted true, если оплата была подтверждена раньше
	AlreadyCompleted bool
}
