package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/CourtBookingService/internal/usecase/release_stale_bookings"
)

type countingReleaser struct {
	calls atomic.Int32
	err   error
}

func (c *countingReleaser) Execute(ctx context.Context) (*release_stale_bookings.Response, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return &release_stale_bookings.Response{Found: 1, Released: 1}, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestSweeper_RunsImmediatelyAndOnTick(t *testing.T) {
	releaser := &countingReleaser{}
	s := NewSweeper(releaser, 10*time.Millisecond, nopLogger{})

	s.Start()
	assert.Eventually(t, func() bool { return releaser.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	s.Stop()

	after := releaser.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, releaser.calls.Load(), "no passes after Stop")
}

func TestSweeper_ErrorsDoNotStopLoop(t *testing.T) {
	releaser := &countingReleaser{err: errors.New("db down")}
	s := NewSweeper(releaser, 10*time.Millisecond, nopLogger{})

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return releaser.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
}

func TestSweeper_StopIsIdempotent(t *testing.T) {
	releaser := &countingReleaser{}
	s := NewSweeper(releaser, time.Hour, nopLogger{})

	s.Stop()
	s.Stop()
	s.Start()

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), releaser.calls.Load())
}

func TestSweeper_RunOnce(t *testing.T) {
	releaser := &countingReleaser{}
	s := NewSweeper(releaser, time.Hour, nopLogger{})

	s.RunOnce(context.Background())

	assert.Equal(t, int32(1), releaser.calls.Load())
}
