package create_booking

import "github.com/m04kA/CourtBookingService/internal/domain"

// Request модель запроса на создание бронирования
type Request struct {
	Slots    []domain.SlotSpec
	User     domain.Contact
	IsYouth  bool // младше 20 лет
	Language domain.Language
}

// Response модель ответа с созданным бронированием
type Response struct {
	BookingID     string
	PaymentMethod domain.PaymentMethod
	PaymentStatus domain.PaymentStatus
	Amount        int
	FreeSlots     int
	PaidSlots     int
}

// RequiresPayment true, если клиента нужно отправить на оплату
func (r *Response) RequiresPayment() bool {
	return r.Amount > 0
}
