package release_pending_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("release_pending_booking: booking not found")

	// ErrNotPending возвращается, когда бронирование уже не ожидает оплату
	ErrNotPending = errors.New("release_pending_booking: booking is not pending")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("release_pending_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("release_pending_booking: internal error")
)
