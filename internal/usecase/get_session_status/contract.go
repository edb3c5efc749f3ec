package get_session_status

import (
	"context"

	"github.com/m04kA/CourtBookingService/internal/integrations/payments"
)

// SessionProvider чтение checkout-сессии у провайдера
type SessionProvider interface {
	GetSessionStatus(ctx context.Context, sessionID string) (*payments.SessionStatus, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
