package get_session_status

import (
	"errors"
	"net/http"

	"github.com/m04kA/CourtBookingService/internal/api/handlers"
	getSessionStatus "github.com/m04kA/CourtBookingService/internal/usecase/get_session_status"
)

const (
	msgMissingSessionID = "не указан session_id"
	msgProviderError    = "платёжный сервис недоступен, попробуйте позже"
)

type Handler struct {
	useCase SessionStatusUseCase
	logger  Logger
}

func NewHandler(useCase SessionStatusUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/payments/session-status?session_id=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		handlers.RespondBadRequest(w, msgMissingSessionID)
		return
	}

	status, err := h.useCase.Execute(r.Context(), &getSessionStatus.Request{SessionID: sessionID})
	if err != nil {
		switch {
		case errors.Is(err, getSessionStatus.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgMissingSessionID)

		case errors.Is(err, getSessionStatus.ErrPaymentProvider):
			h.logger.Error("GET /payments/session-status - Provider error: session_id=%s, error=%v", sessionID, err)
			handlers.RespondBadGateway(w, msgProviderError)

		default:
			h.logger.Error("GET /payments/session-status - Failed to get status: session_id=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, &SessionStatusResponse{
		Status:        status.Status,
		CustomerEmail: status.CustomerEmail,
		PaymentID:     status.PaymentID,
		BookingID:     status.BookingID,
	})
}
