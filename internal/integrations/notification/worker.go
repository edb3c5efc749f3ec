package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const popTimeout = 2 * time.Second

// WorkerConfig настройки обработчика очереди
type WorkerConfig struct {
	Queue       string
	FailedQueue string
}

// Worker забирает письма из Redis и отправляет их один раз.
// Неотправленные письма уходят в очередь failed без повторов.
type Worker struct {
	queue   Queue
	key     string
	failed  string
	sender  Sender
	metrics Metrics
	log     Logger
}

// NewWorker создает новый обработчик очереди писем
func NewWorker(queue Queue, cfg WorkerConfig, sender Sender, metrics Metrics, log Logger) *Worker {
	return &Worker{
		queue:   queue,
		key:     cfg.Queue,
		failed:  cfg.FailedQueue,
		sender:  sender,
		metrics: metrics,
		log:     log,
	}
}

// Run обрабатывает очередь до отмены контекста
func (w *Worker) Run(ctx context.Context) {
	w.log.Info("Email worker started (queue=%s)", w.key)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("Email worker stopped")
			return
		default:
			if err := w.ProcessNext(ctx); err != nil && ctx.Err() == nil {
				w.log.Error("Email worker: %v", err)
				// не крутим цикл впустую, если Redis недоступен
				select {
				case <-ctx.Done():
				case <-time.After(popTimeout):
				}
			}
		}
	}
}

// ProcessNext ждёт одно письмо и отправляет его.
// Пустая очередь не считается ошибкой.
func (w *Worker) ProcessNext(ctx context.Context) error {
	result, err := w.queue.BRPop(ctx, popTimeout, w.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("brpop %s: %w", w.key, err)
	}
	if len(result) != 2 {
		return fmt.Errorf("brpop %s: unexpected reply %v", w.key, result)
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		w.log.Error("Email worker: bad job payload: %v", err)
		return nil
	}

	if err := w.sender.Send(ctx, job); err != nil {
		w.metrics.Email(string(job.Kind), resultFailed)
		w.log.Error("Failed to send %s email to %s: %v", job.Kind, job.To, err)
		w.saveFailed(ctx, job, err)
		return nil
	}

	w.metrics.Email(string(job.Kind), resultSent)
	w.log.Info("Email sent: %s to %s", job.Kind, job.To)
	return nil
}

func (w *Worker) saveFailed(ctx context.Context, job Job, sendErr error) {
	payload, err := json.Marshal(FailedJob{Job: job, Error: sendErr.Error(), Failed: time.Now().UTC()})
	if err != nil {
		w.log.Error("Email worker: marshal failed job: %v", err)
		return
	}

	// письмо уже снято с очереди, сохраняем его даже при отменённом контексте
	if err := w.queue.LPush(context.WithoutCancel(ctx), w.failed, payload).Err(); err != nil {
		w.log.Error("Email worker: push to %s: %v", w.failed, err)
		return
	}
	w.log.Warn("Email to %s moved to %s", job.To, w.failed)
}

// SMTPConfig параметры SMTP сервера
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// SMTPSender отправляет письма через net/smtp
type SMTPSender struct {
	cfg SMTPConfig
}

// NewSMTPSender создает отправителя писем
func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Send отправляет письмо одной попыткой
func (s *SMTPSender) Send(_ context.Context, job Job) error {
	var auth smtp.Auth
	if s.cfg.Username != "" && s.cfg.Password != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{job.To}, s.message(job)); err != nil {
		return fmt.Errorf("%w: %v", ErrSend, err)
	}
	return nil
}

func (s *SMTPSender) message(job Job) []byte {
	msg := fmt.Sprintf("From: %s <%s>\r\n", mime.QEncoding.Encode("utf-8", s.cfg.FromName), s.cfg.From)
	msg += fmt.Sprintf("To: %s\r\n", job.To)
	msg += fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", job.Subject))
	msg += "MIME-Version: 1.0\r\n"
	msg += "Content-Type: text/plain; charset=UTF-8\r\n"
	msg += "\r\n" + job.Body
	return []byte(msg)
}
