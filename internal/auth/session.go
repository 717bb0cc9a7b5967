// session.go — реестр активных сессий администратора.
// Сессии живут только в памяти процесса. Истечение ленивое (при Validate)
// плюс периодическая очистка фоновым sweeper.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bigkaa/visitor-log/internal/domain/model"
)

// maxIssueAttempts — число попыток выпустить токен, не занятый активной сессией.
const maxIssueAttempts = 3

// Registry — хранилище сессий, которым пользуется сервис аутентификации.
type Registry interface {
	// Create регистрирует сессию username и возвращает её токен.
	Create(username string) (string, error)
	// Validate сообщает, принадлежит ли токен активной сессии.
	Validate(token string) bool
	// Revoke удаляет сессию. Неизвестный токен игнорируется.
	Revoke(token string)
}

// MemoryRegistry — Registry в памяти процесса, защищённый RWMutex.
type MemoryRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
	codec    *TokenCodec
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryRegistry создаёт реестр сессий с временем жизни ttl.
// now — источник времени (nil — time.Now).
func NewMemoryRegistry(codec *TokenCodec, ttl time.Duration, now func() time.Time) *MemoryRegistry {
	if now == nil {
		now = time.Now
	}
	return &MemoryRegistry{
		sessions: make(map[string]*model.Session),
		codec:    codec,
		ttl:      ttl,
		now:      now,
	}
}

// Create выпускает токен и сохраняет сессию {username, loginTime}.
func (r *MemoryRegistry) Create(username string) (string, error) {
	loginTime := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	for range maxIssueAttempts {
		token, err := r.codec.Issue(username, loginTime)
		if err != nil {
			return "", err
		}
		if _, exists := r.sessions[token]; exists {
			continue
		}
		r.sessions[token] = &model.Session{
			Token:     token,
			Username:  username,
			LoginTime: loginTime,
		}
		return token, nil
	}

	return "", fmt.Errorf("не удалось выпустить уникальный токен за %d попыток", maxIssueAttempts)
}

// Validate проверяет подпись, наличие сессии и срок её жизни.
// Истёкшая сессия удаляется.
func (r *MemoryRegistry) Validate(token string) bool {
	if token == "" {
		return false
	}
	if _, err := r.codec.Parse(token); err != nil {
		return false
	}

	r.mu.RLock()
	sess, ok := r.sessions[token]
	r.mu.RUnlock()
	if !ok {
		return false
	}

	if r.expired(sess, r.now()) {
		r.mu.Lock()
		delete(r.sessions, token)
		r.mu.Unlock()
		return false
	}
	return true
}

// Revoke удаляет сессию token. Неизвестный токен игнорируется.
func (r *MemoryRegistry) Revoke(token string) {
	r.mu.Lock()
	delete(r.sessions, token)
	r.mu.Unlock()
}

// Sweep удаляет все истёкшие сессии и возвращает их количество.
func (r *MemoryRegistry) Sweep() int {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for token, sess := range r.sessions {
		if r.expired(sess, now) {
			delete(r.sessions, token)
			removed++
		}
	}
	return removed
}

// Count возвращает число сессий в реестре (включая ещё не очищенные истёкшие).
func (r *MemoryRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// StartSweeper запускает периодическую очистку истёкших сессий.
// Горутина завершается при отмене ctx.
func (r *MemoryRegistry) StartSweeper(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	logger = logger.With(slog.String("component", "session_sweeper"))
	if interval <= 0 {
		logger.Warn("Очистка сессий не запущена: интервал должен быть положительным",
			slog.Duration("interval", interval),
		)
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				logger.Debug("Очистка сессий остановлена")
				return
			case <-ticker.C:
				if removed := r.Sweep(); removed > 0 {
					logger.Debug("Истёкшие сессии удалены",
						slog.Int("removed", removed),
						slog.Int("active", r.Count()),
					)
				}
			}
		}
	}()
}

// Collector возвращает gauge vl_admin_sessions с числом сессий в реестре.
func (r *MemoryRegistry) Collector() prometheus.Collector {
	return prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "vl_admin_sessions",
			Help: "Количество сессий администратора в реестре",
		},
		func() float64 { return float64(r.Count()) },
	)
}

// expired — сессия истекла, если с момента входа прошло ttl или больше.
func (r *MemoryRegistry) expired(sess *model.Session, now time.Time) bool {
	return !now.Before(sess.ExpiresAt(r.ttl))
}
