package members

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/CourtBookingService/internal/api/handlers"
	memberService "github.com/m04kA/CourtBookingService/internal/service/members"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidEmail       = "некорректный email"
	msgNotFound           = "участник не найден"
	msgAlreadyExists      = "участник с таким email уже существует"
	msgUpdated            = "email участника обновлён"
)

// Handler управление списком участников клуба
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

// Create POST /api/members
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateMemberRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /members - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if errs := handlers.Validate(&req); errs != nil {
		handlers.RespondValidationErrors(w, msgInvalidRequestBody, errs)
		return
	}

	member, err := h.service.Create(r.Context(), req.Email)
	if err != nil {
		h.respondServiceError(w, "POST /members", err)
		return
	}

	h.logger.Info("POST /members - Member created: email=%s", member.Email)
	handlers.RespondJSON(w, http.StatusCreated, member)
}

// List GET /api/members
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.respondServiceError(w, "GET /members", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, list)
}

// Update PUT /api/members
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateMemberRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /members - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if errs := handlers.Validate(&req); errs != nil {
		handlers.RespondValidationErrors(w, msgInvalidRequestBody, errs)
		return
	}

	if err := h.service.UpdateEmail(r.Context(), req.OldEmail, req.NewEmail); err != nil {
		h.respondServiceError(w, "PUT /members", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, &MessageResponse{Message: msgUpdated})
}

// Delete DELETE /api/members/{email}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]

	if err := h.service.Delete(r.Context(), email); err != nil {
		h.respondServiceError(w, "DELETE /members/{email}", err)
		return
	}

	h.logger.Info("DELETE /members/{email} - Member deleted: email=%s", email)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, memberService.ErrInvalidInput):
		handlers.RespondBadRequest(w, msgInvalidEmail)

	case errors.Is(err, memberService.ErrMemberNotFound):
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, memberService.ErrMemberAlreadyExists):
		handlers.RespondConflict(w, msgAlreadyExists)

	default:
		h.logger.Error("%s - Member operation failed: error=%v", route, err)
		handlers.RespondInternalError(w)
	}
}
