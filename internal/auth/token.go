// Пакет auth — сессии администратора: выпуск и проверка токенов,
// реестр активных сессий в памяти процесса, ограничение попыток входа.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrMissingToken — заголовок Authorization отсутствует или пуст.
	ErrMissingToken = errors.New("токен отсутствует")
	// ErrInvalidToken — токен не прошёл проверку подписи или сессия не активна.
	ErrInvalidToken = errors.New("недействительный или истёкший токен")
)

// TokenCodec выпускает и проверяет токены сессий (JWT HS256).
// Для клиента токен непрозрачен: сервер принимает только токены,
// присутствующие в реестре.
type TokenCodec struct {
	key []byte
}

// NewTokenCodec создаёт кодек с ключом secret.
// Пустой secret — случайный ключ (токены не переживают рестарт).
// Base64-строка длиной 32 байта используется как есть, иначе ключ — SHA-256 от строки.
func NewTokenCodec(secret string) (*TokenCodec, error) {
	var key []byte

	if secret == "" {
		key = make([]byte, 32)
		if _, err := io.ReadFull(rand.Reader, key); err != nil {
			return nil, fmt.Errorf("ошибка генерации ключа сессии: %w", err)
		}
	} else {
		decoded, err := base64.StdEncoding.DecodeString(secret)
		if err == nil && len(decoded) == 32 {
			key = decoded
		} else {
			key = sha256Key(secret)
		}
	}

	return &TokenCodec{key: key}, nil
}

// Issue выпускает токен для username: sub, iat и случайный jti (UUIDv4).
func (c *TokenCodec) Issue(username string, issuedAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:  username,
		IssuedAt: jwt.NewNumericDate(issuedAt),
		ID:       uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("ошибка подписи токена: %w", err)
	}
	return signed, nil
}

// Parse проверяет подпись токена и возвращает subject.
func (c *TokenCodec) Parse(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return c.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: пустой subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}

// sha256Key хеширует строковый ключ в 32 bytes через SHA-256.
func sha256Key(key string) []byte {
	h := sha256.Sum256([]byte(key))
	return h[:]
}
