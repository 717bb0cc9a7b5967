// pages.go — встроенные HTML-страницы: / и /admin.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/bigkaa/visitor-log/internal/ui/static"
)

// PageHandler отдаёт встроенные страницы сайта.
type PageHandler struct {
	logger *slog.Logger
}

// NewPageHandler создаёт обработчик страниц.
func NewPageHandler(logger *slog.Logger) *PageHandler {
	return &PageHandler{logger: logger.With(slog.String("component", "pages"))}
}

// Index — GET /, форма посетителя.
func (h *PageHandler) Index(w http.ResponseWriter, _ *http.Request) {
	h.serve(w, "index.html")
}

// Admin — GET /admin, панель администратора.
func (h *PageHandler) Admin(w http.ResponseWriter, _ *http.Request) {
	h.serve(w, "admin.html")
}

func (h *PageHandler) serve(w http.ResponseWriter, name string) {
	data, err := static.Page(name)
	if err != nil {
		h.logger.Error("Страница не найдена во встроенных ресурсах",
			slog.String("page", name),
			slog.String("error", err.Error()),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(data)
}
