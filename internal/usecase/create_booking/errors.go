package create_booking

import "errors"

var (
	// ErrSlotInPast возвращается, когда слот уже начался или прошёл
	ErrSlotInPast = errors.New("create_booking: slot is in the past")

	// ErrSlotUnavailable возвращается, когда хотя бы один слот уже занят
	ErrSlotUnavailable = errors.New("create_booking: slot is no longer available")

	// ErrInvalidSlot возвращается, когда слот не совпадает с ячейкой сетки корта
	ErrInvalidSlot = errors.New("create_booking: invalid time slot")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
