package create_checkout_session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	bookingRepo "github.com/m04kA/CourtBookingService/internal/infra/storage/booking"
	"github.com/m04kA/CourtBookingService/internal/integrations/payments"
)

// UseCase use case для создания checkout-сессии
type UseCase struct {
	bookingRepo  BookingRepository
	provider     CheckoutProvider
	metrics      Metrics
	pendingTTL   time.Duration
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case.
// pendingTTL время, через которое неоплаченная бронь освобождается.
func NewUseCase(
	bookingRepo BookingRepository,
	provider CheckoutProvider,
	metrics Metrics,
	pendingTTL time.Duration,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		provider:     provider,
		metrics:      metrics,
		pendingTTL:   pendingTTL,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute создает сессию на оплачиваемые слоты. Бронирование остаётся pending:
// при ошибке провайдера клиент может повторить попытку.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	bookingID := strings.TrimSpace(req.BookingID)
	if bookingID == "" {
		return nil, fmt.Errorf("%w: booking id is required", ErrInvalidInput)
	}

	booking, err := uc.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("CreateCheckoutSession: failed to get booking=%s: %v", bookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	if !booking.IsPending() || booking.Payment.Amount <= 0 || booking.PaidSlots <= 0 {
		uc.logger.Warn("CreateCheckoutSession: booking=%s is %s with amount %d",
			bookingID, booking.Payment.Status, booking.Payment.Amount)
		return nil, ErrNotPayable
	}

	session, err := uc.provider.CreateCheckoutSession(ctx, payments.CheckoutRequest{
		BookingID:     booking.ID,
		CustomerEmail: booking.User.Email,
		Quantity:      booking.PaidSlots,
		UnitAmount:    booking.Payment.Amount / booking.PaidSlots,
		ExpiresAt:     payments.SessionExpiry(booking.CreatedAt, uc.pendingTTL, uc.timeProvider.Now()),
	})
	if err != nil {
		uc.metrics.PaymentError("checkout")
		uc.logger.Error("CreateCheckoutSession: provider failed for booking=%s: %v", bookingID, err)
		return nil, fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}

	// бронь могла истечь, пока создавалась сессия
	if err := uc.bookingRepo.SetCheckoutSession(ctx, booking.ID, session.ID); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotPending) {
			uc.logger.Warn("CreateCheckoutSession: booking=%s was released during checkout, session %s abandoned",
				bookingID, session.ID)
			return nil, ErrNotPayable
		}
		uc.logger.Error("CreateCheckoutSession: failed to save session %s for booking=%s: %v", session.ID, bookingID, err)
		return nil, fmt.Errorf("%w: failed to save session: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateCheckoutSession: session %s for booking=%s, %d x %d SEK",
		session.ID, bookingID, booking.PaidSlots, booking.Payment.Amount/booking.PaidSlots)

	return &Response{SessionID: session.ID, ClientSecret: session.ClientSecret}, nil
}
