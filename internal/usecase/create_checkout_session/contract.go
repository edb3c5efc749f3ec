package create_checkout_session

import (
	"context"
	"time"

	"github.com/m04kA/CourtBookingService/internal/domain"
	"github.com/m04kA/CourtBookingService/internal/integrations/payments"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	SetCheckoutSession(ctx context.Context, id string, sessionID string) error
}

// CheckoutProvider создание платёжной сессии у провайдера
type CheckoutProvider interface {
	CreateCheckoutSession(ctx context.Context, req payments.CheckoutRequest) (*payments.CheckoutSession, error)
}

// Metrics метрики ошибок провайдера
type Metrics interface {
	PaymentError(operation string)
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
