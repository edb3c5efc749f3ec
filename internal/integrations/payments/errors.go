package payments

import "errors"

var (
	// ErrProvider возвращается, когда Stripe ответил ошибкой или недоступен
	ErrProvider = errors.New("payments.stripe: provider error")

	// ErrInvalidRequest возвращается до обращения к Stripe при некорректных параметрах
	ErrInvalidRequest = errors.New("payments.stripe: invalid request")
)
