// logging.go — журнал HTTP-запросов через slog.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/bigkaa/visitor-log/internal/clientip"
)

// statusRecorder запоминает отправленный статус и число байт тела.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += int64(n)
	return n, err
}

// Unwrap нужен http.ResponseController.
func (sr *statusRecorder) Unwrap() http.ResponseWriter {
	return sr.ResponseWriter
}

// quietPaths опрашиваются оркестратором и Prometheus; успешные ответы идут в DEBUG.
var quietPaths = map[string]struct{}{
	"/metrics":      {},
	"/health/live":  {},
	"/health/ready": {},
}

// levelFor выбирает уровень записи: ошибки клиента и сервера важнее тишины служебных путей.
func levelFor(status int, path string) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	}
	if _, ok := quietPaths[path]; ok {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// RequestLogger пишет по одной записи на запрос. Поле route совпадает
// с лейблом path в метриках, client_ip — с адресом, попадающим в журнал посещений.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			rec := newStatusRecorder(w)

			next.ServeHTTP(rec, r)

			logger.LogAttrs(r.Context(), levelFor(rec.status, r.URL.Path), "HTTP запрос",
				slog.String("method", r.Method),
				slog.String("route", normalizePath(r.URL.Path)),
				slog.Int("status", rec.status),
				slog.Int64("bytes", rec.bytes),
				slog.Duration("elapsed", time.Since(started)),
				slog.String("client_ip", clientip.Resolve(r)),
				slog.String("peer", clientip.Peer(r)),
			)
		})
	}
}
