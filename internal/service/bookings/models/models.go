package models

import (
	"time"

	"github.com/m04kA/CourtBookingService/internal/domain"
)

// BookingResponse бронирование со слотами.
// Токен отмены наружу не отдаётся, он приходит только в письме.
type BookingResponse struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Slots       []SlotResponse  `json:"slots"`
	User        UserResponse    `json:"user"`
	IsUnder20   bool            `json:"isUnder20"`
	FreeSlots   int             `json:"freeSlots"`
	PaidSlots   int             `json:"paidSlots"`
	Payment     PaymentResponse `json:"payment"`
	Language    string          `json:"language"`
	CreatedAt   time.Time       `json:"createdAt"`
	CancelledAt *time.Time      `json:"cancelledAt,omitempty"`
}

// SlotResponse слот бронирования
type SlotResponse struct {
	ID          int64     `json:"id"`
	CourtNumber int       `json:"courtNumber"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Status      string    `json:"status"`
}

// UserResponse контакты клиента
type UserResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// PaymentResponse платёжная часть
type PaymentResponse struct {
	Method    string  `json:"method"`
	Amount    int     `json:"amount"`
	Status    string  `json:"status"`
	PaymentID *string `json:"paymentId,omitempty"`
}

// FromDomain конвертирует бронирование со слотами в ответ API
func FromDomain(b *domain.BookingWithSlots) *BookingResponse {
	slots := make([]SlotResponse, 0, len(b.Slots))
	for _, s := range b.Slots {
		slots = append(slots, SlotResponse{
			ID:          s.ID,
			CourtNumber: s.CourtNumber,
			Start:       s.Start,
			End:         s.End,
			Status:      string(s.Status),
		})
	}

	return &BookingResponse{
		ID:    b.Booking.ID,
		Date:  b.Booking.Date,
		Slots: slots,
		User: UserResponse{
			Name:  b.Booking.User.Name,
			Email: b.Booking.User.Email,
			Phone: b.Booking.User.Phone,
		},
		IsUnder20: b.Booking.IsYouth,
		FreeSlots: b.Booking.FreeSlots,
		PaidSlots: b.Booking.PaidSlots,
		Payment: PaymentResponse{
			Method:    string(b.Booking.Payment.Method),
			Amount:    b.Booking.Payment.Amount,
			Status:    string(b.Booking.Payment.Status),
			PaymentID: b.Booking.Payment.PaymentID,
		},
		Language:    string(b.Booking.Language),
		CreatedAt:   b.Booking.CreatedAt,
		CancelledAt: b.Booking.CancelledAt,
	}
}
