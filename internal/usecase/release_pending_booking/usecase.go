package release_pending_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/CourtBookingService/internal/domain"
	bookingRepo "github.com/m04kA/CourtBookingService/internal/infra/storage/booking"
	"github.com/m04kA/CourtBookingService/pkg/ptr"
)

// UseCase use case для освобождения слотов неоплаченного бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	releaser     HoldReleaser
	metrics      Metrics
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	releaser HoldReleaser,
	metrics Metrics,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		releaser:     releaser,
		metrics:      metrics,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute отменяет бронирование в статусе pending и возвращает его слоты в сетку.
// Оплаченные и уже отменённые бронирования не трогаются.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	bookingID := strings.TrimSpace(req.BookingID)
	if bookingID == "" {
		return nil, fmt.Errorf("%w: booking id is required", ErrInvalidInput)
	}

	reason := req.Reason
	if reason == "" {
		reason = ReasonAbandoned
	}

	var released int

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Блокируем бронирование
		booking, err := uc.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			uc.logger.Error("ReleasePendingBooking: failed to get booking=%s: %v", bookingID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		// 2. Освобождать можно только неоплаченное
		if !booking.IsPending() {
			uc.logger.Info("ReleasePendingBooking: booking=%s is %s, skipping", bookingID, booking.Payment.Status)
			return ErrNotPending
		}

		// 3. Помечаем отменённым
		payment := booking.Payment
		payment.Status = domain.PaymentCancelled
		if err := uc.bookingRepo.UpdatePayment(txCtx, booking.ID, payment, ptr.Ptr(uc.timeProvider.Now())); err != nil {
			uc.logger.Error("ReleasePendingBooking: failed to cancel booking=%s: %v", bookingID, err)
			return fmt.Errorf("%w: failed to cancel booking: %v", ErrInternal, err)
		}

		// 4. Слоты и квота
		if err := uc.releaser.ReleaseHolds(txCtx, booking); err != nil {
			uc.logger.Error("ReleasePendingBooking: failed to release holds of booking=%s: %v", bookingID, err)
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}

		released = len(booking.SlotIDs)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.BookingReleased(reason)
	uc.logger.Info("ReleasePendingBooking: booking=%s released %d slots, reason=%s", bookingID, released, reason)

	return &Response{BookingID: bookingID, ReleasedSlots: released}, nil
}
