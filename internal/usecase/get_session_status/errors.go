package get_session_status

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_session_status: invalid input data")

	// ErrPaymentProvider возвращается, когда провайдер не отдал сессию
	ErrPaymentProvider = errors.New("get_session_status: payment provider error")
)
