package release_pending_booking

import (
	"context"

	releasePending "github.com/m04kA/CourtBookingService/internal/usecase/release_pending_booking"
)

type ReleasePendingUseCase interface {
	Execute(ctx context.Context, req *releasePending.Request) (*releasePending.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
