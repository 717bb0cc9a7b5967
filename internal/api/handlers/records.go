// records.go — обработчики записей посетителей.
// POST /api/submit — публичная отправка имени.
// GET /api/records — список записей (за AdminGate).
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	apierrors "github.com/bigkaa/visitor-log/internal/api/errors"
	"github.com/bigkaa/visitor-log/internal/clientip"
	"github.com/bigkaa/visitor-log/internal/domain/model"
	"github.com/bigkaa/visitor-log/internal/service"
)

// submitRequest — тело POST /api/submit.
type submitRequest struct {
	Name     string `json:"name"`
	PublicIP string `json:"publicIP"`
}

// submitResponse — ответ на успешную отправку.
type submitResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Data    *model.Record `json:"data"`
}

// Submit — POST /api/submit.
func (h *APIHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		apierrors.ValidationError(w, apierrors.MsgInvalidRequest)
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		apierrors.ValidationError(w, apierrors.MsgNameRequired)
		return
	}

	rec, err := h.records.Submit(r.Context(), req.Name, h.visitorIP(r, req.PublicIP))
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			apierrors.ValidationError(w, apierrors.MsgNameRequired)
			return
		}
		h.logger.Error("Ошибка сохранения записи", slog.String("error", err.Error()))
		apierrors.InternalError(w, apierrors.MsgSaveFailed)
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{
		Success: true,
		Message: "Kayıt başarıyla eklendi",
		Data:    rec,
	})
}

// ListRecords — GET /api/records. Всегда 200: при ошибке хранилища — пустой массив.
func (h *APIHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.records.List(r.Context()))
}

// visitorIP — адрес из тела запроса (если разрешено) или из заголовков/соединения.
func (h *APIHandler) visitorIP(r *http.Request, publicIP string) string {
	if h.trustClientIP {
		if ip := strings.TrimSpace(publicIP); ip != "" {
			return ip
		}
	}
	return clientip.Resolve(r)
}
