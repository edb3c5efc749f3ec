package release_pending_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/CourtBookingService/internal/api/handlers"
	releasePending "github.com/m04kA/CourtBookingService/internal/usecase/release_pending_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "бронирование не найдено"
	msgNotPending         = "бронирование не ожидает оплату"
	msgReleased           = "бронирование освобождено"
)

type Handler struct {
	useCase ReleasePendingUseCase
	logger  Logger
}

func NewHandler(useCase ReleasePendingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/payments/release-pending-booking
// Вызывается фронтендом, когда клиент уходит со страницы оплаты.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ReleasePendingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /payments/release-pending-booking - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if errs := handlers.Validate(&req); errs != nil {
		handlers.RespondValidationErrors(w, msgInvalidRequestBody, errs)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &releasePending.Request{
		BookingID: req.BookingID,
		Reason:    releasePending.ReasonAbandoned,
	})
	if err != nil {
		switch {
		case errors.Is(err, releasePending.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, releasePending.ErrNotPending):
			h.logger.Warn("POST /payments/release-pending-booking - Booking not pending: booking_id=%s", req.BookingID)
			handlers.RespondBadRequest(w, msgNotPending)

		case errors.Is(err, releasePending.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /payments/release-pending-booking - Failed to release booking: booking_id=%s, error=%v",
				req.BookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments/release-pending-booking - Booking released: booking_id=%s, slots=%d",
		result.BookingID, result.ReleasedSlots)
	handlers.RespondJSON(w, http.StatusOK, &ReleasePendingResponse{
		Message:       msgReleased,
		BookingID:     result.BookingID,
		ReleasedSlots: result.ReleasedSlots,
	})
}
