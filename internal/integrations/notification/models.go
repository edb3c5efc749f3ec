package notification

import "time"

// Kind тип письма
type Kind string

const (
	KindConfirmation Kind = "confirmation"
	KindCancellation Kind = "cancellation"
)

// Результаты для метрик
const (
	resultQueued        = "queued"
	resultEnqueueFailed = "enqueue_failed"
	resultSent          = "sent"
	resultFailed        = "failed"
)

// Job письмо в очереди Redis
type Job struct {
	Kind    Kind      `json:"kind"`
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Created time.Time `json:"created"`
}

// FailedJob письмо, которое не удалось отправить
type FailedJob struct {
	Job    Job       `json:"job"`
	Error  string    `json:"error"`
	Failed time.Time `json:"failed"`
}
