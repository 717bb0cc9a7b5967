// auth.go — вход и выход администратора, проверка bearer-токена.
package service

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/bigkaa/visitor-log/internal/auth"
)

// AdminAuthService — аутентификация администратора по паре логин/пароль
// из конфигурации и выдача сессий через auth.Registry.
type AdminAuthService struct {
	username string
	password string
	sessions auth.Registry
	limiter  *auth.LoginLimiter
	logger   *slog.Logger
}

// NewAdminAuthService создаёт сервис аутентификации.
// limiter может быть nil — ограничение попыток выключено.
func NewAdminAuthService(
	username, password string,
	sessions auth.Registry,
	limiter *auth.LoginLimiter,
	logger *slog.Logger,
) *AdminAuthService {
	return &AdminAuthService{
		username: username,
		password: password,
		sessions: sessions,
		limiter:  limiter,
		logger:   logger.With(slog.String("component", "admin_auth")),
	}
}

// Login сверяет учётные данные (простое сравнение строк) и создаёт сессию.
// clientKey — ключ ограничения попыток (адрес TCP-соединения).
func (s *AdminAuthService) Login(username, password, clientKey string) (string, error) {
	if s.limiter != nil && !s.limiter.Allow(clientKey) {
		s.logger.Warn("Вход заблокирован: превышен лимит попыток",
			slog.String("client", clientKey),
		)
		return "", ErrTooManyAttempts
	}

	if username != s.username || password != s.password {
		if s.limiter != nil {
			s.limiter.Fail(clientKey)
		}
		s.logger.Warn("Неудачная попытка входа",
			slog.String("username", username),
			slog.String("client", clientKey),
		)
		return "", ErrUnauthorized
	}

	token, err := s.sessions.Create(username)
	if err != nil {
		return "", fmt.Errorf("создание сессии: %w", err)
	}
	if s.limiter != nil {
		s.limiter.Reset(clientKey)
	}

	s.logger.Info("Администратор вошёл в систему",
		slog.String("username", username),
		slog.String("client", clientKey),
	)
	return token, nil
}

// Authorize проверяет значение заголовка Authorization.
// Префикс "Bearer " и пробелы по краям отбрасываются.
func (s *AdminAuthService) Authorize(header string) error {
	token := BearerToken(header)
	if token == "" {
		return auth.ErrMissingToken
	}
	if !s.sessions.Validate(token) {
		return auth.ErrInvalidToken
	}
	return nil
}

// Logout отзывает сессию, к которой относится заголовок Authorization.
func (s *AdminAuthService) Logout(header string) error {
	if err := s.Authorize(header); err != nil {
		return err
	}
	s.sessions.Revoke(BearerToken(header))
	s.logger.Info("Администратор вышел из системы")
	return nil
}

// BearerToken извлекает токен из значения заголовка Authorization.
func BearerToken(header string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimLeft(header, " \t"), "Bearer "))
}
