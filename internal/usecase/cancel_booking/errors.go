package cancel_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("cancel_booking: booking not found")

	// ErrInvalidToken возвращается, когда токен отмены не совпадает
	ErrInvalidToken = errors.New("cancel_booking: invalid cancellation token")

	// ErrAlreadyCancelled возвращается, когда бронирование уже отменено
	ErrAlreadyCancelled = errors.New("cancel_booking: booking is already cancelled")

	// ErrAlreadyStarted возвращается, когда первый слот бронирования уже начался
	ErrAlreadyStarted = errors.New("cancel_booking: booking has already started")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_booking: internal error")
)
