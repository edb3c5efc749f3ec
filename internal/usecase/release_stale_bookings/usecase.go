package release_stale_bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/CourtBookingService/internal/usecase/release_pending_booking"
)

// UseCase use case для освобождения бронирований, которые так и не были оплачены
type UseCase struct {
	bookingRepo  BookingRepository
	releaser     PendingReleaser
	cfg          Config
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, releaser PendingReleaser, cfg Config, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		releaser:     releaser,
		cfg:          cfg,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute освобождает одну пачку бронирований, висящих в pending дольше PendingTTL.
// Каждое освобождается в своей транзакции: ошибка одного не останавливает остальные.
func (uc *UseCase) Execute(ctx context.Context) (*Response, error) {
	cutoff := uc.timeProvider.Now().Add(-uc.cfg.PendingTTL)

	ids, err := uc.bookingRepo.ListStalePending(ctx, cutoff, uc.cfg.BatchSize)
	if err != nil {
		uc.logger.Error("ReleaseStaleBookings: failed to list stale bookings: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	resp := &Response{Found: len(ids)}
	if len(ids) == 0 {
		return resp, nil
	}

	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}

		_, err := uc.releaser.Execute(ctx, &release_pending_booking.Request{
			BookingID: id,
			Reason:    release_pending_booking.ReasonExpired,
		})
		switch {
		case err == nil:
			resp.Released++
		case errors.Is(err, release_pending_booking.ErrNotPending),
			errors.Is(err, release_pending_booking.ErrBookingNotFound):
			resp.Skipped++
		default:
			resp.Failed++
			uc.logger.Error("ReleaseStaleBookings: failed to release booking=%s: %v", id, err)
		}
	}

	uc.logger.Info("ReleaseStaleBookings: found=%d released=%d skipped=%d failed=%d",
		resp.Found, resp.Released, resp.Skipped, resp.Failed)

	return resp, ctx.Err()
}
