package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/CourtBookingService/internal/domain"
)

// SlotRepository интерфейс хранилища слотов
type SlotRepository interface {
	FindBusyOverlapping(ctx context.Context, courtNumber int, from, to time.Time) ([]*domain.Slot, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
