package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/CourtBookingService/internal/domain"
	bookingRepo "github.com/m04kA/CourtBookingService/internal/infra/storage/booking"
	"github.com/m04kA/CourtBookingService/internal/service/bookings/models"
)

// Service сервис для чтения бронирований и освобождения их слотов
type Service struct {
	bookingRepo BookingRepository
	slotRepo    SlotRepository
	ledger      MemberLedger
	location    *time.Location
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	ledger MemberLedger,
	location *time.Location,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		slotRepo:    slotRepo,
		ledger:      ledger,
		location:    location,
		logger:      logger,
	}
}

// GetByID получает бронирование со слотами для API
func (s *Service) GetByID(ctx context.Context, id string) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s", id)

	booking, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	return models.FromDomain(booking), nil
}

// Load загружает бронирование и его слоты в порядке бронирования.
// Внутри транзакции строка бронирования блокируется.
func (s *Service) Load(ctx context.Context, id string) (*domain.BookingWithSlots, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: booking id is required", ErrInvalidInput)
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Load: booking id=%s not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Load: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Load - get booking: %v", ErrInternal, err)
	}

	slots, err := s.slotRepo.GetByIDs(ctx, booking.SlotIDs)
	if err != nil {
		s.logger.Error("Load: failed to get slots for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Load - get slots: %v", ErrInternal, err)
	}

	return &domain.BookingWithSlots{Booking: booking, Slots: slots}, nil
}

// ReleaseHolds возвращает слоты бронирования в available и снимает списание с квоты участника.
// Вызывается внутри транзакции отмены или освобождения.
func (s *Service) ReleaseHolds(ctx context.Context, booking *domain.Booking) error {
	released, err := s.slotRepo.Finalize(ctx, booking.SlotIDs, domain.SlotAvailable, booking.ID)
	if err != nil {
		return fmt.Errorf("%w: ReleaseHolds - finalize slots: %v", ErrInternal, err)
	}
	if released != int64(len(booking.SlotIDs)) {
		// слоты могли быть уже освобождены ранее
		s.logger.Warn("ReleaseHolds: booking id=%s released %d of %d slots", booking.ID, released, len(booking.SlotIDs))
	}

	if booking.UsesMemberQuota() {
		year := booking.QuotaYear(s.location)
		restored, err := s.ledger.Release(ctx, booking.User.Email, year, booking.SlotIDs)
		if err != nil {
			return fmt.Errorf("%w: ReleaseHolds - release member quota: %v", ErrInternal, err)
		}
		s.logger.Info("ReleaseHolds: booking id=%s restored %d quota slots for year %d", booking.ID, restored, year)
	}

	return nil
}
