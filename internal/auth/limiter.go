// limiter.go — ограничение неудачных попыток входа.
// Счётчики хранятся в expirable LRU: запись живёт lockout с последней неудачи.
package auth

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// limiterSize — максимум отслеживаемых ключей (адресов клиентов).
const limiterSize = 4096

// LoginLimiter блокирует ключ после maxAttempts неудачных попыток подряд.
type LoginLimiter struct {
	mu          sync.Mutex
	failures    *expirable.LRU[string, int]
	maxAttempts int
}

// NewLoginLimiter создаёт ограничитель. maxAttempts <= 0 отключает ограничение.
func NewLoginLimiter(maxAttempts int, lockout time.Duration) *LoginLimiter {
	return &LoginLimiter{
		failures:    expirable.NewLRU[string, int](limiterSize, nil, lockout),
		maxAttempts: maxAttempts,
	}
}

// Allow сообщает, разрешена ли попытка входа для key.
func (l *LoginLimiter) Allow(key string) bool {
	if l.maxAttempts <= 0 {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	n, _ := l.failures.Get(key)
	return n < l.maxAttempts
}

// Fail учитывает неудачную попытку и продлевает блокировку.
func (l *LoginLimiter) Fail(key string) {
	if l.maxAttempts <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	n, _ := l.failures.Get(key)
	l.failures.Add(key, n+1)
}

// Reset сбрасывает счётчик после успешного входа.
func (l *LoginLimiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures.Remove(key)
}
