package complete_payment

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/CourtBookingService/internal/api/handlers"
	"github.com/m04kA/CourtBookingService/internal/domain"
	completePayment "github.com/m04kA/CourtBookingService/internal/usecase/complete_payment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgNotFound           = "бронирование не найдено"
	msgNotPayable         = "бронирование отменено и не может быть оплачено"
)

type Handler struct {
	useCase CompletePaymentUseCase
	service BookingService
	logger  Logger
}

func NewHandler(useCase CompletePaymentUseCase, service BookingService, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/payments/{bookingId}/complete
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["bookingId"]
	if _, err := uuid.Parse(bookingID); err != nil {
		h.logger.Warn("PUT /payments/{id}/complete - Invalid booking ID: %q", bookingID)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req CompletePaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /payments/{id}/complete - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if errs := handlers.Validate(&req); errs != nil {
		handlers.RespondValidationErrors(w, msgInvalidRequestBody, errs)
		return
	}

	// 1. Подтверждаем оплату
	_, err := h.useCase.Execute(r.Context(), &completePayment.Request{
		BookingID: bookingID,
		PaymentID: req.PaymentID,
		Language:  domain.Language(req.Language),
	})
	if err != nil {
		switch {
		case errors.Is(err, completePayment.ErrBookingNotFound):
			h.logger.Warn("PUT /payments/{id}/complete - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, completePayment.ErrBookingNotPayable):
			h.logger.Error("PUT /payments/{id}/complete - Payment for closed booking, manual refund needed: booking_id=%s, payment_id=%s",
				bookingID, req.PaymentID)
			handlers.RespondConflict(w, msgNotPayable)

		case errors.Is(err, completePayment.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PUT /payments/{id}/complete - Failed to complete payment: booking_id=%s, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// 2. Отдаём итоговое бронирование со слотами
	booking, err := h.service.GetByID(r.Context(), bookingID)
	if err != nil {
		h.logger.Error("PUT /payments/{id}/complete - Failed to load completed booking: booking_id=%s, error=%v",
			bookingID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PUT /payments/{id}/complete - Payment completed: booking_id=%s", bookingID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
