package complete_payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/CourtBookingService/internal/domain"
	bookingsService "github.com/m04kA/CourtBookingService/internal/service/bookings"
	"github.com/m04kA/CourtBookingService/pkg/ptr"
)

// UseCase use case для подтверждения оплаты бронирования
type UseCase struct {
	loader      BookingLoader
	bookingRepo BookingRepository
	slotRepo    SlotRepository
	notifier    Notifier
	txManager   TransactionManager
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	loader BookingLoader,
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		loader:      loader,
		bookingRepo: bookingRepo,
		slotRepo:    slotRepo,
		notifier:    notifier,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute переводит ожидающее бронирование в completed, а его слоты в booked.
// Повторный вызов для уже оплаченного бронирования ничего не меняет и письмо не отправляет.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	bookingID := strings.TrimSpace(req.BookingID)
	paymentID := strings.TrimSpace(req.PaymentID)
	if bookingID == "" {
		return nil, fmt.Errorf("%w: booking id is required", ErrInvalidInput)
	}
	if paymentID == "" {
		return nil, fmt.Errorf("%w: payment id is required", ErrInvalidInput)
	}

	uc.logger.Info("CompletePayment: booking=%s payment=%s", bookingID, paymentID)

	var (
		loaded           *domain.BookingWithSlots
		alreadyCompleted bool
	)

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Блокируем бронирование
		var err error
		loaded, err = uc.loader.Load(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, bookingsService.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			uc.logger.Error("CompletePayment: failed to load booking=%s: %v", bookingID, err)
			return fmt.Errorf("%w: failed to load booking: %v", ErrInternal, err)
		}
		booking := loaded.Booking

		// 2. Проверяем статус
		switch {
		case booking.Payment.Status == domain.PaymentCompleted:
			alreadyCompleted = true
			return nil
		case !booking.IsPending():
			// оплата пришла после отмены или истечения брони, деньги нужно вернуть вручную
			uc.logger.Error("CompletePayment: booking=%s is %s, payment=%s needs manual refund",
				bookingID, booking.Payment.Status, paymentID)
			return ErrBookingNotPayable
		}

		// 3. Сохраняем оплату
		payment := booking.Payment
		payment.Status = domain.PaymentCompleted
		payment.Method = domain.PaymentStripe
		payment.PaymentID = ptr.Ptr(paymentID)
		if err := uc.bookingRepo.UpdatePayment(txCtx, booking.ID, payment, nil); err != nil {
			uc.logger.Error("CompletePayment: failed to update payment for booking=%s: %v", bookingID, err)
			return fmt.Errorf("%w: failed to update payment: %v", ErrInternal, err)
		}
		booking.Payment = payment

		// 4. Слоты переходят из pending в booked
		if _, err := uc.slotRepo.Finalize(txCtx, booking.SlotIDs, domain.SlotBooked, booking.ID); err != nil {
			uc.logger.Error("CompletePayment: failed to finalize slots for booking=%s: %v", bookingID, err)
			return fmt.Errorf("%w: failed to finalize slots: %v", ErrInternal, err)
		}
		for _, slot := range loaded.Slots {
			slot.Status = domain.SlotBooked
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	booking := loaded.Booking
	resp := &Response{
		BookingID:        booking.ID,
		PaymentStatus:    booking.Payment.Status,
		PaymentID:        ptr.Value(booking.Payment.PaymentID),
		AlreadyCompleted: alreadyCompleted,
	}

	if alreadyCompleted {
		uc.logger.Info("CompletePayment: booking=%s already completed", bookingID)
		return resp, nil
	}

	uc.logger.Info("CompletePayment: booking=%s completed", bookingID)

	lang := req.Language
	if lang == "" {
		lang = booking.Language
	}
	if err := uc.notifier.SendBookingConfirmation(ctx, loaded, domain.ParseLanguage(string(lang))); err != nil {
		uc.logger.Warn("CompletePayment: failed to queue confirmation for booking=%s: %v", bookingID, err)
	}

	return resp, nil
}
