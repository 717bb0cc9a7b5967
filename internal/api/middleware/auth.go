// auth.go — проверка bearer-токена администратора перед защищёнными маршрутами.
package middleware

import (
	"errors"
	"net/http"

	apierrors "github.com/bigkaa/visitor-log/internal/api/errors"
	"github.com/bigkaa/visitor-log/internal/auth"
)

// Authorizer проверяет значение заголовка Authorization.
// Возвращает auth.ErrMissingToken или auth.ErrInvalidToken.
type Authorizer interface {
	Authorize(header string) error
}

// AdminGate возвращает middleware, пропускающий запрос дальше только
// с действующим токеном сессии. При отказе следующий handler не вызывается.
func AdminGate(authorizer Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := authorizer.Authorize(r.Header.Get("Authorization"))
			switch {
			case err == nil:
				next.ServeHTTP(w, r)
			case errors.Is(err, auth.ErrMissingToken):
				apierrors.Unauthorized(w, apierrors.MsgTokenRequired)
			default:
				apierrors.Unauthorized(w, apierrors.MsgInvalidToken)
			}
		})
	}
}
