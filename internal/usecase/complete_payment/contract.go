package complete_payment

import (
	"context"
	"time"

	"github.com/m04kA/CourtBookingService/internal/domain"
)

// BookingLoader загружает бронирование со слотами (с блокировкой внутри транзакции)
type BookingLoader interface {
	Load(ctx context.Context, id string) (*domain.BookingWithSlots, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	UpdatePayment(ctx context.Context, id string, payment domain.Payment, cancelledAt *time.Time) error
}

// SlotRepository интерфейс хранилища слотов
type SlotRepository interface {
	Finalize(ctx context.Context, ids []int64, status domain.SlotStatus, bookingID string) (int64, error)
}

// Notifier интерфейс отправки писем
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, booking *domain.BookingWithSlots, lang domain.Language) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
