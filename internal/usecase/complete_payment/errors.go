package complete_payment

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("complete_payment: booking not found")

	// ErrBookingNotPayable возвращается, когда бронирование уже отменено или возвращено
	ErrBookingNotPayable = errors.New("complete_payment: booking can no longer be paid")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("complete_payment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("complete_payment: internal error")
)
