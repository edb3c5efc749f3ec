package create_booking

import (
	"encoding/json"
	"time"

	"github.com/m04kA/CourtBookingService/internal/domain"
	createBooking "github.com/m04kA/CourtBookingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	Slots     []SlotRequest `json:"slots" validate:"required,min=1,dive"`
	User      UserRequest   `json:"user"`
	IsUnder20 bool          `json:"isUnder20"`
	Language  string        `json:"language" validate:"omitempty,oneof=sv en"`
}

// SlotRequest выбранная ячейка корта.
// Клиент отправляет ячейку из сетки доступности как есть: поля сетки принимаются и не используются.
type SlotRequest struct {
	Start       time.Time `json:"start" validate:"required"`
	End         time.Time `json:"end" validate:"required"`
	CourtNumber int       `json:"courtNumber" validate:"required,gte=1"`

	Available *bool           `json:"available,omitempty"`
	Past      *bool           `json:"past,omitempty"`
	Status    *string         `json:"status,omitempty"`
	Booking   json.RawMessage `json:"booking,omitempty"`
}

// UserRequest контакты клиента
type UserRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"required,email,max=255"`
	Phone string `json:"phone" validate:"required,max=32"`
}

// CreateBookingResponse HTTP response model
type CreateBookingResponse struct {
	BookingID       string `json:"bookingId"`
	PaymentMethod   string `json:"paymentMethod"`
	PaymentStatus   string `json:"paymentStatus"`
	Amount          int    `json:"amount"`
	FreeSlots       int    `json:"freeSlots"`
	PaidSlots       int    `json:"paidSlots"`
	RequiresPayment bool   `json:"requiresPayment"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() *createBooking.Request {
	slots := make([]domain.SlotSpec, 0, len(r.Slots))
	for _, s := range r.Slots {
		slots = append(slots, domain.SlotSpec{
			CourtNumber: s.CourtNumber,
			Start:       s.Start,
			End:         s.End,
		})
	}

	return &createBooking.Request{
		Slots: slots,
		User: domain.Contact{
			Name:  r.User.Name,
			Email: r.User.Email,
			Phone: r.User.Phone,
		},
		IsYouth:  r.IsUnder20,
		Language: domain.ParseLanguage(r.Language),
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *CreateBookingResponse {
	return &CreateBookingResponse{
		BookingID:       resp.BookingID,
		PaymentMethod:   string(resp.PaymentMethod),
		PaymentStatus:   string(resp.PaymentStatus),
		Amount:          resp.Amount,
		FreeSlots:       resp.FreeSlots,
		PaidSlots:       resp.PaidSlots,
		RequiresPayment: resp.RequiresPayment(),
	}
}
