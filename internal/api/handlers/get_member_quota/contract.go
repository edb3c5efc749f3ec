package get_member_quota

import (
	"context"

	"github.com/m04kA/CourtBookingService/internal/service/members/models"
)

type MemberService interface {
	GetQuota(ctx context.Context, email string) (*models.QuotaResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
