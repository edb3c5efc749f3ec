package notification

import "errors"

var (
	// ErrEnqueue письмо не удалось поставить в очередь
	ErrEnqueue = errors.New("notification: enqueue email")

	// ErrRender письмо не удалось собрать
	ErrRender = errors.New("notification: render email")

	// ErrSend SMTP сервер отклонил письмо
	ErrSend = errors.New("notification: send email")
)
