package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/m04kA/CourtBookingService/internal/domain"
)

// DispatcherConfig настройки писем
type DispatcherConfig struct {
	Queue        string
	ClientURL    string
	ContactEmail string
	Location     *time.Location
}

// Dispatcher собирает письма и ставит их в очередь Redis.
// Отправку выполняет Worker.
type Dispatcher struct {
	queue        Queue
	key          string
	clientURL    string
	contactEmail string
	location     *time.Location
	metrics      Metrics
	log          Logger
}

// NewDispatcher создает новый экземпляр диспетчера писем
func NewDispatcher(queue Queue, cfg DispatcherConfig, metrics Metrics, log Logger) *Dispatcher {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Dispatcher{
		queue:        queue,
		key:          cfg.Queue,
		clientURL:    cfg.ClientURL,
		contactEmail: cfg.ContactEmail,
		location:     loc,
		metrics:      metrics,
		log:          log,
	}
}

// SendBookingConfirmation ставит в очередь подтверждение бронирования
func (d *Dispatcher) SendBookingConfirmation(ctx context.Context, booking *domain.BookingWithSlots, lang domain.Language) error {
	data, err := d.buildData(booking)
	if err != nil {
		return err
	}

	subject, body, err := renderConfirmation(data, lang)
	if err != nil {
		return err
	}

	return d.enqueue(ctx, Job{
		Kind:    KindConfirmation,
		To:      booking.Booking.User.Email,
		Name:    booking.Booking.User.Name,
		Subject: subject,
		Body:    body,
	})
}

// SendCancellationConfirmation ставит в очередь подтверждение отмены
func (d *Dispatcher) SendCancellationConfirmation(ctx context.Context, booking *domain.BookingWithSlots, lang domain.Language) error {
	data, err := d.buildData(booking)
	if err != nil {
		return err
	}

	subject, body, err := renderCancellation(data, lang)
	if err != nil {
		return err
	}

	return d.enqueue(ctx, Job{
		Kind:    KindCancellation,
		To:      booking.Booking.User.Email,
		Name:    booking.Booking.User.Name,
		Subject: subject,
		Body:    body,
	})
}

// QueueLength количество писем, ожидающих отправки
func (d *Dispatcher) QueueLength(ctx context.Context) (int64, error) {
	n, err := d.queue.LLen(ctx, d.key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: llen: %v", ErrEnqueue, err)
	}
	return n, nil
}

func (d *Dispatcher) enqueue(ctx context.Context, job Job) error {
	job.Created = time.Now().UTC()

	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("%w: marshal job: %v", ErrEnqueue, err)
	}

	if err := d.queue.LPush(ctx, d.key, payload).Err(); err != nil {
		d.metrics.Email(string(job.Kind), resultEnqueueFailed)
		return fmt.Errorf("%w: lpush %s: %v", ErrEnqueue, d.key, err)
	}

	d.metrics.Email(string(job.Kind), resultQueued)
	d.log.Info("Email queued: %s to %s", job.Kind, job.To)
	return nil
}
