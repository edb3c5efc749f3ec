package cancel_booking

import (
	"context"
	"time"

	"github.com/m04kA/CourtBookingService/internal/domain"
	"github.com/m04kA/CourtBookingService/internal/integrations/payments"
)

// BookingService загрузка бронирования и освобождение его слотов
type BookingService interface {
	Load(ctx context.Context, id string) (*domain.BookingWithSlots, error)
	ReleaseHolds(ctx context.Context, booking *domain.Booking) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	UpdatePayment(ctx context.Context, id string, payment domain.Payment, cancelledAt *time.Time) error
}

// PaymentRefunder возврат платежа у провайдера
type PaymentRefunder interface {
	Refund(ctx context.Context, paymentID string) (*payments.Refund, error)
}

// Notifier интерфейс отправки писем
type Notifier interface {
	SendCancellationConfirmation(ctx context.Context, booking *domain.BookingWithSlots, lang domain.Language) error
}

// Metrics бизнес-метрики бронирований
type Metrics interface {
	BookingReleased(reason string)
	PaymentError(operation string)
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
