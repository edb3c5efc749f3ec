package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/CourtBookingService/internal/api/handlers"
	createBooking "github.com/m04kA/CourtBookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgValidationFailed   = "некорректные данные бронирования"
	msgSlotInPast         = "выбранное время уже прошло"
	msgSlotUnavailable    = "выбранное время больше недоступно, обновите расписание и попробуйте снова"
	msgInvalidSlot        = "некорректный временной слот"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if errs := handlers.Validate(&req); errs != nil {
		h.logger.Warn("POST /bookings - Validation failed: %d errors", len(errs))
		handlers.RespondValidationErrors(w, msgValidationFailed, errs)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotUnavailable):
			h.logger.Warn("POST /bookings - Slot unavailable: email=%s, slots=%d", req.User.Email, len(req.Slots))
			handlers.RespondConflict(w, msgSlotUnavailable)

		case errors.Is(err, createBooking.ErrSlotInPast):
			h.logger.Warn("POST /bookings - Slot in past: email=%s", req.User.Email)
			handlers.RespondBadRequest(w, msgSlotInPast)

		case errors.Is(err, createBooking.ErrInvalidSlot):
			h.logger.Warn("POST /bookings - Invalid slot: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgValidationFailed)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: email=%s, error=%v", req.User.Email, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%s, amount=%d",
		result.BookingID, result.Amount)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
