package create_checkout_session

import (
	"errors"
	"net/http"

	"github.com/m04kA/CourtBookingService/internal/api/handlers"
	createCheckout "github.com/m04kA/CourtBookingService/internal/usecase/create_checkout_session"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "бронирование не найдено"
	msgNotPayable         = "бронирование не ожидает оплату"
	msgProviderError      = "платёжный сервис недоступен, попробуйте позже"
)

type Handler struct {
	useCase CreateCheckoutUseCase
	logger  Logger
}

func NewHandler(useCase CreateCheckoutUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/payments/create-checkout-session
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateCheckoutRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /payments/create-checkout-session - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if errs := handlers.Validate(&req); errs != nil {
		handlers.RespondValidationErrors(w, msgInvalidRequestBody, errs)
		return
	}

	session, err := h.useCase.Execute(r.Context(), &createCheckout.Request{BookingID: req.BookingID})
	if err != nil {
		switch {
		case errors.Is(err, createCheckout.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, createCheckout.ErrNotPayable):
			h.logger.Warn("POST /payments/create-checkout-session - Booking not payable: booking_id=%s", req.BookingID)
			handlers.RespondConflict(w, msgNotPayable)

		case errors.Is(err, createCheckout.ErrPaymentProvider):
			h.logger.Error("POST /payments/create-checkout-session - Provider error: booking_id=%s, error=%v",
				req.BookingID, err)
			handlers.RespondBadGateway(w, msgProviderError)

		case errors.Is(err, createCheckout.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /payments/create-checkout-session - Failed to create session: booking_id=%s, error=%v",
				req.BookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, &CreateCheckoutResponse{
		ClientSecret: session.ClientSecret,
		SessionID:    session.SessionID,
	})
}
