// Пакет clientip — определение адреса клиента по заголовкам прокси
// и адресу соединения. Эвристика для журнала, не средство аутентификации.
package clientip

import (
	"net"
	"net/http"
	"strings"
)

// Unknown — значение, когда адрес определить не удалось.
const Unknown = "Bilinmiyor"

// Resolve возвращает адрес клиента. Порядок: первое значение X-Forwarded-For,
// X-Real-IP, адрес TCP-соединения (без порта), затем Unknown.
func Resolve(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	return Peer(r)
}

// Peer возвращает адрес TCP-соединения (без порта), игнорируя заголовки прокси.
// Клиент не может подменить его, поэтому он годится как ключ ограничений.
func Peer(r *http.Request) string {
	if r.RemoteAddr != "" {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			// RemoteAddr без порта (unix socket, тестовые запросы)
			return r.RemoteAddr
		}
		if host != "" {
			return host
		}
	}

	return Unknown
}
