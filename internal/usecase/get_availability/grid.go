package get_availability

import (
	"time"

	"github.com/m04kA/CourtBookingService/internal/domain"
)

// markGrid отмечает занятость ячеек сетки.
// Ячейка свободна, только если она ещё не началась и ни один занятый слот её не пересекает.
func markGrid(cells []domain.SlotSpec, busy []*domain.Slot, now time.Time) []domain.GridCell {
	result := make([]domain.GridCell, 0, len(cells))

	for _, cell := range cells {
		past := !cell.Start.After(now)

		taken := false
		for _, slot := range busy {
			if slot.IsBusy() && cell.Overlaps(slot.Start, slot.End) {
				taken = true
				break
			}
		}

		result = append(result, domain.GridCell{
			CourtNumber: cell.CourtNumber,
			Start:       cell.Start,
			End:         cell.End,
			Available:   !past && !taken,
			Past:        past,
		})
	}

	return result
}
