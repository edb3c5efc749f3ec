package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/CourtBookingService/internal/domain"
	"github.com/m04kA/CourtBookingService/internal/service/pricing"
)

// SlotRepository интерфейс хранилища слотов
type SlotRepository interface {
	FindBusyForSpecs(ctx context.Context, specs []domain.SlotSpec) ([]*domain.Slot, error)
	ReserveOrCreate(ctx context.Context, spec domain.SlotSpec, bookingID string) (*domain.Slot, error)
	Finalize(ctx context.Context, ids []int64, status domain.SlotStatus, bookingID string) (int64, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// MemberLedger интерфейс учёта бесплатных слотов участников
type MemberLedger interface {
	RemainingQuota(ctx context.Context, email string, year int) (domain.Quota, error)
	Commit(ctx context.Context, email string, year int, slotIDs []int64) (int, error)
}

// PricingCalculator интерфейс расчёта стоимости
type PricingCalculator interface {
	Calculate(slots, quotaRemaining int, youth bool) pricing.Quote
}

// Notifier интерфейс отправки писем
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, booking *domain.BookingWithSlots, lang domain.Language) error
}

// Metrics бизнес-метрики бронирований
type Metrics interface {
	BookingCreated(paymentMethod string)
	SlotConflict()
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
