package release_stale_bookings

import (
	"context"
	"time"

	"github.com/m04kA/CourtBookingService/internal/usecase/release_pending_booking"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListStalePending(ctx context.Context, createdBefore time.Time, limit uint64) ([]string, error)
}

// PendingReleaser освобождение одного неоплаченного бронирования
type PendingReleaser interface {
	Execute(ctx context.Context, req *release_pending_booking.Request) (*release_pending_booking.Response, error)
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
