package notification

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics счётчики писем
type Metrics interface {
	Email(kind, result string)
}

// Queue команды Redis, которые нужны очереди писем
type Queue interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	BRPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
	LLen(ctx context.Context, key string) *redis.IntCmd
}

// Sender отправляет одно письмо
type Sender interface {
	Send(ctx context.Context, job Job) error
}
