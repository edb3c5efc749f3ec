package bookings

import (
	"context"

	"github.com/m04kA/CourtBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
}

// SlotRepository интерфейс хранилища слотов
type SlotRepository interface {
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.Slot, error)
	Finalize(ctx context.Context, ids []int64, status domain.SlotStatus, bookingID string) (int64, error)
}

// MemberLedger интерфейс учёта бесплатных слотов участников
type MemberLedger interface {
	Release(ctx context.Context, email string, year int, slotIDs []int64) (int64, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
