package release_pending_booking

// Причины освобождения неоплаченного бронирования
const (
	ReasonAbandoned = "abandoned" // клиент ушёл со страницы оплаты
	ReasonExpired   = "expired"   // бронь не оплачена вовремя
)

// Request освобождение неоплаченного бронирования
type Request struct {
	BookingID string
	Reason    string
}

// Response результат освобождения
type Response struct {
	BookingID     string
	ReleasedSlots int
}
