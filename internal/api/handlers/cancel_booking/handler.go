package cancel_booking

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/CourtBookingService/internal/api/handlers"
	"github.com/m04kA/CourtBookingService/internal/domain"
	cancelBooking "github.com/m04kA/CourtBookingService/internal/usecase/cancel_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgNotFound           = "бронирование не найдено"
	msgInvalidToken       = "неверный токен отмены"
	msgAlreadyCancelled   = "бронирование уже отменено"
	msgAlreadyStarted     = "бронирование уже началось и не может быть отменено"
	msgCancelled          = "бронирование отменено"
	msgCancelledRefund    = "бронирование отменено, оплата возвращена"
)

type Handler struct {
	useCase CancelBookingUseCase
	logger  Logger
}

func NewHandler(useCase CancelBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/bookings/{bookingId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["bookingId"]
	if _, err := uuid.Parse(bookingID); err != nil {
		h.logger.Warn("POST /bookings/{id}/cancel - Invalid booking ID: %q", bookingID)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req CancelBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if errs := handlers.Validate(&req); errs != nil {
		handlers.RespondValidationErrors(w, msgInvalidRequestBody, errs)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &cancelBooking.Request{
		BookingID: bookingID,
		Token:     req.Token,
		Language:  domain.Language(req.Language),
	})
	if err != nil {
		switch {
		case errors.Is(err, cancelBooking.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/cancel - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, cancelBooking.ErrInvalidToken):
			h.logger.Warn("POST /bookings/{id}/cancel - Invalid token: booking_id=%s", bookingID)
			handlers.RespondForbidden(w, msgInvalidToken)

		case errors.Is(err, cancelBooking.ErrAlreadyCancelled):
			handlers.RespondBadRequest(w, msgAlreadyCancelled)

		case errors.Is(err, cancelBooking.ErrAlreadyStarted):
			handlers.RespondBadRequest(w, msgAlreadyStarted)

		case errors.Is(err, cancelBooking.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings/{id}/cancel - Failed to cancel booking: booking_id=%s, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	message := msgCancelled
	if result.PaymentStatus == domain.PaymentRefunded {
		message = msgCancelledRefund
	}

	h.logger.Info("POST /bookings/{id}/cancel - Booking cancelled successfully: booking_id=%s, status=%s",
		bookingID, result.PaymentStatus)
	handlers.RespondJSON(w, http.StatusOK, &CancelBookingResponse{
		Message:       message,
		BookingID:     result.BookingID,
		PaymentStatus: string(result.PaymentStatus),
		RefundFailed:  result.RefundFailed,
	})
}
