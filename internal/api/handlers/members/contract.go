package members

import (
	"context"

	"github.com/m04kA/CourtBookingService/internal/service/members/models"
)

type MemberService interface {
	Create(ctx context.Context, email string) (*models.MemberResponse, error)
	List(ctx context.Context) ([]*models.MemberResponse, error)
	UpdateEmail(ctx context.Context, oldEmail, newEmail string) error
	Delete(ctx context.Context, email string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
