package cancel_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/CourtBookingService/internal/domain"
	bookingsService "github.com/m04kA/CourtBookingService/internal/service/bookings"
)

// UseCase use case для отмены бронирования клиентом
type UseCase struct {
	bookingService BookingService
	bookingRepo    BookingRepository
	refunder       PaymentRefunder
	notifier       Notifier
	metrics        Metrics
	txManager      TransactionManager
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingService BookingService,
	bookingRepo BookingRepository,
	refunder PaymentRefunder,
	notifier Notifier,
	metrics Metrics,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingService: bookingService,
		bookingRepo:    bookingRepo,
		refunder:       refunder,
		notifier:       notifier,
		metrics:        metrics,
		txManager:      txManager,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// Execute отменяет бронирование: освобождает слоты и квоту, затем пытается вернуть оплату.
// Ошибка возврата не отменяет отмену: бронирование остаётся cancelled, ошибка логируется.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	bookingID := strings.TrimSpace(req.BookingID)
	if bookingID == "" {
		return nil, fmt.Errorf("%w: booking id is required", ErrInvalidInput)
	}

	now := uc.timeProvider.Now()

	var loaded *domain.BookingWithSlots

	// 1. Отмена брони в транзакции
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		loaded, err = uc.bookingService.Load(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, bookingsService.ErrBookingNotFound) {
				uc.logger.Warn("CancelBooking: booking=%s not found", bookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("CancelBooking: failed to load booking=%s: %v", bookingID, err)
			return fmt.Errorf("%w: failed to load booking: %v", ErrInternal, err)
		}
		booking := loaded.Booking

		if !booking.TokenMatches(req.Token) {
			uc.logger.Warn("CancelBooking: invalid token for booking=%s", bookingID)
			return ErrInvalidToken
		}
		if booking.IsClosed() {
			return ErrAlreadyCancelled
		}
		if first := loaded.FirstStart(); !first.After(now) {
			uc.logger.Warn("CancelBooking: booking=%s started at %s", bookingID, first.Format(time.RFC3339))
			return ErrAlreadyStarted
		}

		if err := uc.bookingService.ReleaseHolds(txCtx, booking); err != nil {
			uc.logger.Error("CancelBooking: failed to release holds of booking=%s: %v", bookingID, err)
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}

		payment := booking.Payment
		payment.Status = domain.PaymentCancelled
		if err := uc.bookingRepo.UpdatePayment(txCtx, booking.ID, payment, &now); err != nil {
			uc.logger.Error("CancelBooking: failed to cancel booking=%s: %v", bookingID, err)
			return fmt.Errorf("%w: failed to cancel booking: %v", ErrInternal, err)
		}
		booking.Payment = payment
		booking.CancelledAt = &now

		for _, slot := range loaded.Slots {
			slot.Status = domain.SlotAvailable
			slot.BookingID = nil
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	booking := loaded.Booking
	resp := &Response{BookingID: booking.ID, PaymentStatus: domain.PaymentCancelled}
	reason := reasonCancelled

	// 2. Возврат денег вне транзакции
	if booking.HasRefundablePayment() {
		if uc.refund(ctx, booking) {
			resp.PaymentStatus = domain.PaymentRefunded
			reason = reasonRefunded
		} else {
			resp.RefundFailed = true
		}
	}

	uc.metrics.BookingReleased(reason)
	uc.logger.Info("CancelBooking: booking=%s cancelled, status=%s", bookingID, resp.PaymentStatus)

	// 3. Письмо об отмене
	lang := req.Language
	if lang == "" {
		lang = booking.Language
	}
	if err := uc.notifier.SendCancellationConfirmation(ctx, loaded, domain.ParseLanguage(string(lang))); err != nil {
		uc.logger.Warn("CancelBooking: failed to queue cancellation email for booking=%s: %v", bookingID, err)
	}

	return resp, nil
}

// refund возвращает платёж и отмечает бронирование refunded.
// Возвращает false, если провайдер отказал в возврате.
func (uc *UseCase) refund(ctx context.Context, booking *domain.Booking) bool {
	paymentID := *booking.Payment.PaymentID

	refund, err := uc.refunder.Refund(ctx, paymentID)
	if err != nil {
		uc.metrics.PaymentError("refund")
		uc.logger.Error("CancelBooking: refund failed for booking=%s payment=%s amount=%d, manual follow-up required: %v",
			booking.ID, paymentID, booking.Payment.Amount, err)
		return false
	}

	payment := booking.Payment
	payment.Status = domain.PaymentRefunded
	if err := uc.bookingRepo.UpdatePayment(ctx, booking.ID, payment, booking.CancelledAt); err != nil {
		// деньги уже вернулись, в базе бронь остаётся cancelled
		uc.logger.Error("CancelBooking: refund %s succeeded but booking=%s status was not saved: %v",
			refund.ID, booking.ID, err)
	}
	booking.Payment = payment

	uc.logger.Info("CancelBooking: refund %s (%s) for booking=%s", refund.ID, refund.Status, booking.ID)
	return true
}
