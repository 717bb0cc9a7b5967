// admin_auth.go — вход и выход администратора.
// POST /api/admin/login — выдача токена сессии.
// POST /api/admin/logout — отзыв текущего токена.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	apierrors "github.com/bigkaa/visitor-log/internal/api/errors"
	"github.com/bigkaa/visitor-log/internal/auth"
	"github.com/bigkaa/visitor-log/internal/clientip"
	"github.com/bigkaa/visitor-log/internal/service"
)

// loginRequest — тело POST /api/admin/login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

type logoutResponse struct {
	Success bool `json:"success"`
}

// Login — POST /api/admin/login.
func (h *APIHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		apierrors.ValidationError(w, apierrors.MsgInvalidRequest)
		return
	}

	// Ключ ограничения попыток — адрес соединения: X-Forwarded-For задаёт клиент.
	token, err := h.adminAuth.Login(req.Username, req.Password, clientip.Peer(r))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, loginResponse{Success: true, Token: token})
	case errors.Is(err, service.ErrUnauthorized):
		apierrors.Unauthorized(w, apierrors.MsgInvalidCredentials)
	case errors.Is(err, service.ErrTooManyAttempts):
		apierrors.TooManyRequests(w, apierrors.MsgTooManyAttempts)
	default:
		h.logger.Error("Ошибка входа администратора", slog.String("error", err.Error()))
		apierrors.InternalError(w, apierrors.MsgInternal)
	}
}

// Logout — POST /api/admin/logout.
func (h *APIHandler) Logout(w http.ResponseWriter, r *http.Request) {
	err := h.adminAuth.Logout(r.Header.Get("Authorization"))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, logoutResponse{Success: true})
	case errors.Is(err, auth.ErrMissingToken):
		apierrors.Unauthorized(w, apierrors.MsgTokenRequired)
	default:
		apierrors.Unauthorized(w, apierrors.MsgInvalidToken)
	}
}
