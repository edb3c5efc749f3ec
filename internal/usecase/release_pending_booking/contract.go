package release_pending_booking

import (
	"context"
	"time"

	"github.com/m04kA/CourtBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	UpdatePayment(ctx context.Context, id string, payment domain.Payment, cancelledAt *time.Time) error
}

// HoldReleaser освобождает слоты и квоту бронирования
type HoldReleaser interface {
	ReleaseHolds(ctx context.Context, booking *domain.Booking) error
}

// Metrics бизнес-метрики бронирований
type Metrics interface {
	BookingReleased(reason string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
