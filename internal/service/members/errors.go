package members

import "errors"

var (
	// ErrMemberNotFound возвращается, когда участник не найден
	ErrMemberNotFound = errors.New("members.service: member not found")

	// ErrMemberAlreadyExists возвращается, когда email уже зарегистрирован
	ErrMemberAlreadyExists = errors.New("members.service: member already exists")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("members.service: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("members.service: internal error")
)
