// Пакет errors — ответы с ошибками в формате API: {"error": "<сообщение>"}.
// Все HTTP-ответы с ошибками должны использовать WriteError.
// Сообщения адресованы посетителям сайта, поэтому на турецком.
package errors

import (
	"encoding/json"
	"net/http"
)

// Тексты ошибок, которые видит клиент.
const (
	MsgTokenRequired      = "Yetkisiz erişim - Token gerekli"
	MsgInvalidToken       = "Geçersiz veya süresi dolmuş token"
	MsgNameRequired       = "İsim gereklidir"
	MsgSaveFailed         = "Kayıt sırasında hata oluştu"
	MsgInvalidCredentials = "Kullanıcı adı veya şifre hatalı"
	MsgTooManyAttempts    = "Çok fazla başarısız giriş denemesi, lütfen daha sonra tekrar deneyin"
	MsgInvalidRequest     = "Geçersiz istek"
	MsgInternal           = "Sunucu hatası"
)

// errorBody — структура тела ответа ошибки.
type errorBody struct {
	Error string `json:"error"`
}

// WriteError записывает ответ ошибки со статусом statusCode.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorBody{Error: message})
}

// --- Конструкторы для типичных ошибок ---

// ValidationError — 400 некорректные входные данные.
func ValidationError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

// Unauthorized — 401 требуется аутентификация.
func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message)
}

// TooManyRequests — 429 превышен лимит попыток.
func TooManyRequests(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusTooManyRequests, message)
}

// InternalError — 500 внутренняя ошибка.
func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message)
}
