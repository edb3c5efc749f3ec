package get_availability

import (
	"time"

	getAvailability "github.com/m04kA/CourtBookingService/internal/usecase/get_availability"
)

// SlotResponse ячейка сетки корта
type SlotResponse struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	CourtNumber int       `json:"courtNumber"`
	Available   bool      `json:"available"`
	Past        bool      `json:"past"`
}

// FromUseCaseResponse конвертирует сетку в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) []SlotResponse {
	result := make([]SlotResponse, 0, len(resp.Slots))
	for _, cell := range resp.Slots {
		result = append(result, SlotResponse{
			Start:       cell.Start,
			End:         cell.End,
			CourtNumber: cell.CourtNumber,
			Available:   cell.Available,
			Past:        cell.Past,
		})
	}
	return result
}
