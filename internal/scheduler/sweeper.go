package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/CourtBookingService/internal/usecase/release_stale_bookings"
)

// StaleReleaser один проход очистки неоплаченных бронирований
type StaleReleaser interface {
	Execute(ctx context.Context) (*release_stale_bookings.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Sweeper периодически освобождает слоты бронирований, которые не были оплачены.
// Подстраховывает клиентский сигнал об уходе со страницы оплаты.
type Sweeper struct {
	releaser StaleReleaser
	interval time.Duration
	logger   Logger

	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	mu       sync.Mutex
	started  bool
	stopOnce sync.Once
}

// NewSweeper создает планировщик очистки с заданным интервалом
func NewSweeper(releaser StaleReleaser, interval time.Duration, logger Logger) *Sweeper {
	ctx, cancel := context.WithCancel(context.Background())

	return &Sweeper{
		releaser: releaser,
		interval: interval,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start запускает фоновый цикл. Первый проход выполняется сразу.
// После Stop повторный запуск невозможен.
func (s *Sweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started || s.ctx.Err() != nil {
		return
	}
	s.started = true

	go s.loop()
	s.logger.Info("Sweeper: started, interval=%s", s.interval)
}

// Stop останавливает цикл и ждёт завершения текущего прохода
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()

		s.mu.Lock()
		started := s.started
		s.mu.Unlock()

		if started {
			<-s.done
		}
		s.logger.Info("Sweeper: stopped")
	})
}

// RunOnce выполняет один проход очистки
func (s *Sweeper) RunOnce(ctx context.Context) {
	resp, err := s.releaser.Execute(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("Sweeper: pass failed: %v", err)
		}
		return
	}
	if resp.Found > 0 {
		s.logger.Info("Sweeper: released=%d skipped=%d failed=%d", resp.Released, resp.Skipped, resp.Failed)
	}
}

func (s *Sweeper) loop() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.RunOnce(s.ctx)

	for {
		select {
		case <-ticker.C:
			s.RunOnce(s.ctx)
		case <-s.ctx.Done():
			return
		}
	}
}
