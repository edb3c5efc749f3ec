package create_checkout_session

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("create_checkout_session: booking not found")

	// ErrNotPayable возвращается, когда бронирование не ожидает оплату
	ErrNotPayable = errors.New("create_checkout_session: booking does not await payment")

	// ErrPaymentProvider возвращается, когда провайдер не создал сессию
	ErrPaymentProvider = errors.New("create_checkout_session: payment provider error")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_checkout_session: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_checkout_session: internal error")
)
