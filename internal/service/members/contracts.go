package members

import (
	"context"
	"time"

	"github.com/m04kA/CourtBookingService/internal/domain"
)

// MemberRepository интерфейс учёта участников клуба
type MemberRepository interface {
	RemainingQuota(ctx context.Context, email string, year int) (domain.Quota, error)
	Create(ctx context.Context, email string) (*domain.Member, error)
	Delete(ctx context.Context, email string) error
	UpdateEmail(ctx context.Context, oldEmail, newEmail string) error
	List(ctx context.Context) ([]*domain.Member, error)
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
