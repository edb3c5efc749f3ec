package get_session_status

import (
	"context"
	"fmt"
	"strings"
)

// UseCase use case для получения статуса checkout-сессии
type UseCase struct {
	provider SessionProvider
	logger   Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(provider SessionProvider, logger Logger) *UseCase {
	return &UseCase{
		provider: provider,
		logger:   logger,
	}
}

// Execute возвращает статус сессии. Состояние бронирования здесь не меняется:
// клиент сам подтверждает оплату через завершение платежа.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session_id is required", ErrInvalidInput)
	}

	status, err := uc.provider.GetSessionStatus(ctx, sessionID)
	if err != nil {
		uc.logger.Error("GetSessionStatus: session %s: %v", sessionID, err)
		return nil, fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}

	uc.logger.Info("GetSessionStatus: session %s is %s, booking=%s", sessionID, status.Status, status.BookingID)

	return &Response{
		Status:        status.Status,
		CustomerEmail: status.CustomerEmail,
		PaymentID:     status.PaymentID,
		BookingID:     status.BookingID,
	}, nil
}
