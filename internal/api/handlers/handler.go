// handler.go — основной обработчик API.
// Объединяет доменные обработчики и делегирует запросы в сервисный слой.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/bigkaa/visitor-log/internal/service"
)

// maxBodyBytes — предельный размер JSON-тела запроса.
const maxBodyBytes = 64 << 10

// APIHandler — обработчик JSON API: записи посетителей и вход администратора.
type APIHandler struct {
	records       *service.RecordService
	adminAuth     *service.AdminAuthService
	trustClientIP bool
	logger        *slog.Logger
}

// NewAPIHandler создаёт обработчик API.
// trustClientIP — принимать адрес посетителя из поля publicIP тела запроса.
func NewAPIHandler(
	records *service.RecordService,
	adminAuth *service.AdminAuthService,
	trustClientIP bool,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		records:       records,
		adminAuth:     adminAuth,
		trustClientIP: trustClientIP,
		logger:        logger.With(slog.String("component", "api_handler")),
	}
}

// --- Вспомогательные функции ---

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// decodeJSON читает тело запроса в dst. Пустое тело оставляет dst нулевым.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
