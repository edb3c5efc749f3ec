package get_availability

import (
	"context"
	"fmt"

	"github.com/m04kA/CourtBookingService/internal/domain"
)

// UseCase use case для получения сетки доступности корта на день
type UseCase struct {
	slotRepo     SlotRepository
	settings     domain.CourtSettings
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(slotRepo SlotRepository, settings domain.CourtSettings, logger Logger) *UseCase {
	return &UseCase{
		slotRepo:     slotRepo,
		settings:     settings,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute строит сетку дня и отмечает занятые и прошедшие ячейки
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if !uc.settings.ValidCourt(req.CourtNumber) {
		return nil, fmt.Errorf("%w: court number must be within 1..%d", ErrInvalidInput, uc.settings.Courts)
	}

	day := req.Date.In(uc.settings.Location)
	open, closing := uc.settings.DayBounds(day)

	busy, err := uc.slotRepo.FindBusyOverlapping(ctx, req.CourtNumber, open, closing)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get busy slots for court=%d date=%s: %v",
			req.CourtNumber, day.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: failed to get busy slots: %v", ErrInternal, err)
	}

	cells := markGrid(uc.settings.DayGrid(day, req.CourtNumber), busy, uc.timeProvider.Now())

	uc.logger.Info("GetAvailability: court=%d date=%s cells=%d busy=%d",
		req.CourtNumber, day.Format(domain.DateFormat), len(cells), len(busy))

	return &Response{
		Date:        open,
		CourtNumber: req.CourtNumber,
		Slots:       cells,
	}, nil
}
