package get_member_quota

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/CourtBookingService/internal/api/handlers"
	"github.com/m04kA/CourtBookingService/internal/service/members"
)

const msgInvalidEmail = "некорректный email"

type Handler struct {
	service MemberService
	logger  Logger
}

func NewHandler(service MemberService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/members/{email}
// Для неизвестного email отвечает isMember=false, а не 404.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]

	quota, err := h.service.GetQuota(r.Context(), email)
	if err != nil {
		switch {
		case errors.Is(err, members.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidEmail)

		default:
			h.logger.Error("GET /members/{email} - Failed to get quota: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, quota)
}
