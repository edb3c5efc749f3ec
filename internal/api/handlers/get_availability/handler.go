package get_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/CourtBookingService/internal/api/handlers"
	"github.com/m04kA/CourtBookingService/internal/domain"
	getAvailability "github.com/m04kA/CourtBookingService/internal/usecase/get_availability"
)

const (
	msgMissingDate        = "дата обязательна"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidCourtNumber = "некорректный номер корта"
)

type Handler struct {
	useCase  GetAvailabilityUseCase
	location *time.Location
	logger   Logger
}

// NewHandler location - часовой пояс, в котором трактуется дата из запроса
func NewHandler(useCase GetAvailabilityUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/bookings/availability
// Query params: date (required, YYYY-MM-DD), courtNumber (required)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	dateStr := query.Get("date")
	if dateStr == "" {
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}
	date, err := time.ParseInLocation(domain.DateFormat, dateStr, h.location)
	if err != nil {
		h.logger.Warn("GET /bookings/availability - Invalid date: %q", dateStr)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	courtNumber, err := strconv.Atoi(query.Get("courtNumber"))
	if err != nil {
		h.logger.Warn("GET /bookings/availability - Invalid court number: %q", query.Get("courtNumber"))
		handlers.RespondBadRequest(w, msgInvalidCourtNumber)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailability.Request{
		Date:        date,
		CourtNumber: courtNumber,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /bookings/availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidCourtNumber)

		default:
			h.logger.Error("GET /bookings/availability - Failed to get availability: date=%s, court=%d, error=%v",
				dateStr, courtNumber, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
