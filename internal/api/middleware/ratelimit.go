package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/m04kA/CourtBookingService/internal/api/handlers"
)

const (
	msgTooManyRequests = "слишком много запросов, попробуйте позже"

	visitorTTL      = 10 * time.Minute
	cleanupInterval = 5 * time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter ограничение запросов по IP клиента
type RateLimiter struct {
	visitors map[string]*visitor
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	logger   Logger

	done      chan struct{}
	closeOnce sync.Once
}

// NewRateLimiter создаёт limiter и запускает очистку неактивных клиентов
func NewRateLimiter(rps float64, burst int, logger Logger) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate.Limit(rps),
		burst:    burst,
		logger:   logger,
		done:     make(chan struct{}),
	}

	go rl.cleanupRoutine()

	return rl
}

// Allow проверяет, разрешён ли запрос для ключа
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = time.Now()

	return v.limiter.Allow()
}

// Middleware отвечает 429, когда клиент исчерпал лимит
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := realIP(r)
		if !rl.Allow(ip) {
			rl.logger.Warn("Rate limit exceeded: ip=%s, method=%s, path=%s", ip, r.Method, r.URL.Path)
			handlers.RespondError(w, http.StatusTooManyRequests, msgTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Close останавливает очистку
func (rl *RateLimiter) Close() {
	rl.closeOnce.Do(func() { close(rl.done) })
}

func (rl *RateLimiter) cleanupRoutine() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup(time.Now().Add(-visitorTTL))
		case <-rl.done:
			return
		}
	}
}

func (rl *RateLimiter) cleanup(cutoff time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	var cleaned int
	for key, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, key)
			cleaned++
		}
	}
	return cleaned
}

// realIP IP клиента с учётом прокси
func realIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
