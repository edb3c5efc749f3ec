package complete_payment

import (
	"context"

	"github.com/m04kA/CourtBookingService/internal/service/bookings/models"
	completePayment "github.com/m04kA/CourtBookingService/internal/usecase/complete_payment"
)

type CompletePaymentUseCase interface {
	Execute(ctx context.Context, req *completePayment.Request) (*completePayment.Response, error)
}

// BookingService отдаёт итоговое бронирование после подтверждения
type BookingService interface {
	GetByID(ctx context.Context, id string) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
