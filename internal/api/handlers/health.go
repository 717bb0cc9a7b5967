// health.go — обработчики health endpoints.
// /health — сводка состояния с указанием бэкенда хранения
// /api/test — диагностическое эхо
// /health/live — liveness probe (процесс жив)
// /health/ready — readiness probe (хранилище доступно)
// /metrics — Prometheus метрики
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bigkaa/visitor-log/internal/clientip"
	"github.com/bigkaa/visitor-log/internal/config"
	"github.com/bigkaa/visitor-log/internal/timefmt"
)

// serviceName — имя сервиса в ответах health endpoints.
const serviceName = "visitor-log"

// pingTimeout — таймаут проверки хранилища в health endpoints.
const pingTimeout = 3 * time.Second

// Pinger — проверка доступности хранилища.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DependencyHealth — состояние внешних зависимостей (topologymetrics).
type DependencyHealth interface {
	Health() map[string]bool
}

// HealthHandler — обработчик health endpoints.
type HealthHandler struct {
	store       Pinger
	deps        DependencyHealth
	backend     string
	now         func() time.Time
	promHandler http.Handler
}

// NewHealthHandler создаёт обработчик health endpoints.
// deps может быть nil (мониторинг зависимостей не запущен).
func NewHealthHandler(store Pinger, deps DependencyHealth, backend string) *HealthHandler {
	return &HealthHandler{
		store:       store,
		deps:        deps,
		backend:     backend,
		now:         time.Now,
		promHandler: promhttp.Handler(),
	}
}

// healthCheckResult — результат проверки одной зависимости.
type healthCheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// databaseStatus — блок database в ответе /health.
type databaseStatus struct {
	Configured bool   `json:"configured"`
	Status     string `json:"status"`
}

type healthResponse struct {
	Status    string         `json:"status"`
	Timestamp string         `json:"timestamp"`
	Backend   string         `json:"backend"`
	Database  databaseStatus `json:"database"`
}

type testResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Backend   string `json:"backend"`
	ClientIP  string `json:"client_ip"`
}

// healthLiveResponse — ответ liveness probe.
type healthLiveResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Service   string `json:"service"`
}

// healthReadyResponse — ответ readiness probe.
type healthReadyResponse struct {
	Status    string                       `json:"status"`
	Timestamp string                       `json:"timestamp"`
	Version   string                       `json:"version"`
	Service   string                       `json:"service"`
	Checks    map[string]healthCheckResult `json:"checks"`
}

// Health — GET /health. Всегда 200; состояние базы — в поле database.status.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "ok",
		Timestamp: timefmt.Instant(h.now()),
		Backend:   h.backend,
		Database: databaseStatus{
			Configured: h.backend != config.BackendFile,
			Status:     "connected",
		},
	}

	if err := h.ping(r.Context()); err != nil {
		resp.Database.Status = "error"
	}

	writeJSON(w, http.StatusOK, resp)
}

// Test — GET /api/test.
func (h *HealthHandler) Test(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, testResponse{
		Message:   "API çalışıyor",
		Timestamp: timefmt.Instant(h.now()),
		Backend:   h.backend,
		ClientIP:  clientip.Resolve(r),
	})
}

// HealthLive — liveness probe. Возвращает 200 если процесс жив.
func (h *HealthHandler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthLiveResponse{
		Status:    "ok",
		Timestamp: h.now().UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   serviceName,
	})
}

// HealthReady — readiness probe. Проверяет хранилище и зависимости topologymetrics.
// Возвращает 200 (ok) или 503 (fail).
func (h *HealthHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	resp := healthReadyResponse{
		Status:    "ok",
		Timestamp: h.now().UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   serviceName,
		Checks:    make(map[string]healthCheckResult),
	}

	storage := healthCheckResult{Status: "ok"}
	if err := h.ping(r.Context()); err != nil {
		storage = healthCheckResult{Status: "fail", Message: err.Error()}
		resp.Status = "fail"
	}
	resp.Checks["storage"] = storage

	if h.deps != nil {
		for name, ok := range h.deps.Health() {
			if ok {
				resp.Checks[name] = healthCheckResult{Status: "ok"}
				continue
			}
			resp.Checks[name] = healthCheckResult{Status: "fail"}
			resp.Status = "fail"
		}
	}

	status := http.StatusOK
	if resp.Status == "fail" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

// GetMetrics — Prometheus метрики.
func (h *HealthHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.promHandler.ServeHTTP(w, r)
}

func (h *HealthHandler) ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return h.store.Ping(ctx)
}
