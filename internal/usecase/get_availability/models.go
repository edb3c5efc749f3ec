package get_availability

import (
	"time"

	"github.com/m04kA/CourtBookingService/internal/domain"
)

// Request модель запроса сетки доступности
type Request struct {
	Date        time.Time // день, время суток игнорируется
	CourtNumber int
}

// Response сетка дня по корту, ячейки идут подряд без пропусков
type Response struct {
	Date        time.Time
	CourtNumber int
	Slots       []domain.GridCell
}
