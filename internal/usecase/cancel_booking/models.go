package cancel_booking

import "github.com/m04kA/CourtBookingService/internal/domain"

// Причины освобождения для метрик
const (
	reasonCancelled = "cancelled"
	reasonRefunded  = "refunded"
)

// Request отмена бронирования клиентом по токену из письма
type Request struct {
	BookingID string
	Token     string
	Language  domain.Language
}

// Response итог отмены
type Response struct {
	BookingID     string
	PaymentStatus domain.PaymentStatus // cancelled или refunded

	// RefundFailed true, если возврат у провайдера не прошёл и требует ручной обработки
	RefundFailed bool
}
