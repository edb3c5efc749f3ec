package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/CourtBookingService/internal/domain"
	slotRepo "github.com/m04kA/CourtBookingService/internal/infra/storage/slot"
)

// UseCase use case для создания бронирования одного или нескольких слотов
type UseCase struct {
	slotRepo     SlotRepository
	bookingRepo  BookingRepository
	ledger       MemberLedger
	calculator   PricingCalculator
	notifier     Notifier
	metrics      Metrics
	txManager    TransactionManager
	settings     domain.CourtSettings
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	bookingRepo BookingRepository,
	ledger MemberLedger,
	calculator PricingCalculator,
	notifier Notifier,
	metrics Metrics,
	txManager TransactionManager,
	settings domain.CourtSettings,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:     slotRepo,
		bookingRepo:  bookingRepo,
		ledger:       ledger,
		calculator:   calculator,
		notifier:     notifier,
		metrics:      metrics,
		txManager:    txManager,
		settings:     settings,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute резервирует слоты, списывает квоту участника и создаёт бронирование.
// Всё выполняется в одной транзакции: либо заняты все слоты, либо ни один.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req, uc.settings); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Слоты, которые уже начались, бронировать нельзя
	if err := validateNotPast(req.Slots, now); err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		return nil, err
	}

	email := domain.NormalizeEmail(req.User.Email)
	specs := sortedSpecs(req.Slots)
	quotaYear := now.In(uc.settings.Location).Year()

	token, err := domain.NewCancellationToken()
	if err != nil {
		uc.logger.Error("CreateBooking: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	booking := &domain.Booking{
		ID:   uuid.NewString(),
		Date: specs[0].Start,
		User: domain.Contact{
			Name:  req.User.Name,
			Email: email,
			Phone: req.User.Phone,
		},
		IsYouth:           req.IsYouth,
		CancellationToken: token,
		Language:          domain.ParseLanguage(string(req.Language)),
	}

	uc.logger.Info("CreateBooking: booking=%s email=%s slots=%d youth=%t",
		booking.ID, email, len(specs), req.IsYouth)

	var reserved []*domain.Slot

	// 3. Резервирование, квота и запись бронирования в одной транзакции
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 3.1. Быстрая проверка: ни один запрошенный слот не должен пересекаться с занятыми
		busy, err := uc.slotRepo.FindBusyForSpecs(txCtx, specs)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to check busy slots: %v", err)
			return fmt.Errorf("%w: failed to check busy slots: %v", ErrInternal, err)
		}
		if len(busy) > 0 {
			uc.logger.Warn("CreateBooking: %d of requested slots are already taken (court=%d start=%s)",
				len(busy), busy[0].CourtNumber, busy[0].Start.Format(time.RFC3339))
			return ErrSlotUnavailable
		}

		// 3.2. Атомарный захват каждой ячейки; проигравший в гонке получает конфликт
		reserved = make([]*domain.Slot, 0, len(specs))
		for _, spec := range specs {
			slot, err := uc.slotRepo.ReserveOrCreate(txCtx, spec, booking.ID)
			if err != nil {
				if errors.Is(err, slotRepo.ErrSlotConflict) {
					uc.metrics.SlotConflict()
					uc.logger.Warn("CreateBooking: slot court=%d start=%s was taken concurrently",
						spec.CourtNumber, spec.Start.Format(time.RFC3339))
					return ErrSlotUnavailable
				}
				uc.logger.Error("CreateBooking: failed to reserve slot court=%d start=%s: %v",
					spec.CourtNumber, spec.Start.Format(time.RFC3339), err)
				return fmt.Errorf("%w: failed to reserve slot: %v", ErrInternal, err)
			}
			reserved = append(reserved, slot)
		}

		slotIDs := make([]int64, len(reserved))
		for i, slot := range reserved {
			slotIDs[i] = slot.ID
		}

		// 3.3. Остаток бесплатной квоты участника за текущий год
		quota, err := uc.ledger.RemainingQuota(txCtx, email, quotaYear)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get quota for email=%s: %v", email, err)
			return fmt.Errorf("%w: failed to get member quota: %v", ErrInternal, err)
		}

		// 3.4. Расчёт стоимости
		quote := uc.calculator.Calculate(len(reserved), quota.SlotsRemaining, req.IsYouth)

		// 3.5. Списание бесплатных слотов
		if quote.FreeSlots > 0 {
			committed, err := uc.ledger.Commit(txCtx, email, quotaYear, slotIDs[:quote.FreeSlots])
			if err != nil {
				uc.logger.Error("CreateBooking: failed to commit quota for email=%s: %v", email, err)
				return fmt.Errorf("%w: failed to commit member quota: %v", ErrInternal, err)
			}
			if committed != quote.FreeSlots {
				uc.logger.Error("CreateBooking: quota mismatch for email=%s: expected %d, committed %d",
					email, quote.FreeSlots, committed)
				return fmt.Errorf("%w: member quota changed concurrently", ErrInternal)
			}
		}

		booking.SlotIDs = slotIDs
		booking.FreeSlots = quote.FreeSlots
		booking.PaidSlots = quote.PaidSlots
		booking.Payment = domain.Payment{
			Method: quote.Method(),
			Amount: quote.Total,
			Status: domain.PaymentPending,
		}

		// 3.6. Бесплатное бронирование подтверждается сразу
		if quote.PaidSlots == 0 {
			booking.Payment.Status = domain.PaymentCompleted
			if _, err := uc.slotRepo.Finalize(txCtx, slotIDs, domain.SlotBooked, booking.ID); err != nil {
				uc.logger.Error("CreateBooking: failed to finalize slots for booking=%s: %v", booking.ID, err)
				return fmt.Errorf("%w: failed to finalize slots: %v", ErrInternal, err)
			}
			for _, slot := range reserved {
				slot.Status = domain.SlotBooked
			}
		}

		// 3.7. Запись бронирования
		if _, err := uc.bookingRepo.Create(txCtx, booking); err != nil {
			uc.logger.Error("CreateBooking: failed to create booking=%s: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.BookingCreated(string(booking.Payment.Method))

	uc.logger.Info("CreateBooking: booking=%s created, method=%s amount=%d free=%d paid=%d",
		booking.ID, booking.Payment.Method, booking.Payment.Amount, booking.FreeSlots, booking.PaidSlots)

	// 4. Для бесплатного бронирования письмо уходит сразу, для платного после оплаты
	if booking.Payment.Status == domain.PaymentCompleted {
		withSlots := &domain.BookingWithSlots{Booking: booking, Slots: reserved}
		if err := uc.notifier.SendBookingConfirmation(ctx, withSlots, booking.Language); err != nil {
			uc.logger.Warn("CreateBooking: failed to queue confirmation for booking=%s: %v", booking.ID, err)
		}
	}

	return &Response{
		BookingID:     booking.ID,
		PaymentMethod: booking.Payment.Method,
		PaymentStatus: booking.Payment.Status,
		Amount:        booking.Payment.Amount,
		FreeSlots:     booking.FreeSlots,
		PaidSlots:     booking.PaidSlots,
	}, nil
}
