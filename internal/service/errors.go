// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import "errors"

var (
	// ErrValidation — ошибка валидации входных данных.
	ErrValidation = errors.New("ошибка валидации")
	// ErrUnauthorized — неверные учётные данные администратора.
	ErrUnauthorized = errors.New("неверные учётные данные")
	// ErrTooManyAttempts — превышен лимит неудачных попыток входа.
	ErrTooManyAttempts = errors.New("слишком много попыток входа")
)
