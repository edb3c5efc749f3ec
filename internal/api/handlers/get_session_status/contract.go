package get_session_status

import (
	"context"

	getSessionStatus "github.com/m04kA/CourtBookingService/internal/usecase/get_session_status"
)

type SessionStatusUseCase interface {
	Execute(ctx context.Context, req *getSessionStatus.Request) (*getSessionStatus.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
