package clientip

import (
	"net/http/httptest"
	"testing"
)

// TestResolve проверяет приоритет источников адреса.
func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		realIP     string
		remoteAddr string
		want       string
	}{
		{
			name:       "первое значение X-Forwarded-For",
			xff:        "203.0.113.7, 10.0.0.1, 10.0.0.2",
			realIP:     "198.51.100.1",
			remoteAddr: "10.0.0.9:5555",
			want:       "203.0.113.7",
		},
		{
			name:       "пробелы в X-Forwarded-For",
			xff:        "  203.0.113.8  ",
			remoteAddr: "10.0.0.9:5555",
			want:       "203.0.113.8",
		},
		{
			name:       "пустое первое значение — X-Real-IP",
			xff:        " , 10.0.0.1",
			realIP:     "198.51.100.1",
			remoteAddr: "10.0.0.9:5555",
			want:       "198.51.100.1",
		},
		{
			name:       "X-Real-IP без X-Forwarded-For",
			realIP:     "198.51.100.2",
			remoteAddr: "10.0.0.9:5555",
			want:       "198.51.100.2",
		},
		{
			name:       "адрес соединения IPv4",
			remoteAddr: "192.0.2.10:41234",
			want:       "192.0.2.10",
		},
		{
			name:       "адрес соединения IPv6",
			remoteAddr: "[2001:db8::1]:41234",
			want:       "2001:db8::1",
		},
		{
			name:       "адрес соединения без порта",
			remoteAddr: "192.0.2.11",
			want:       "192.0.2.11",
		},
		{
			name: "ничего не известно",
			want: Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/api/submit", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.realIP != "" {
				r.Header.Set("X-Real-IP", tt.realIP)
			}

			if got := Resolve(r); got != tt.want {
				t.Errorf("Resolve() = %q, ожидалось %q", got, tt.want)
			}
		})
	}
}

// TestPeer — заголовки прокси не влияют на адрес соединения.
func TestPeer(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/admin/login", nil)
	r.RemoteAddr = "192.0.2.10:41234"
	r.Header.Set("X-Forwarded-For", "203.0.113.7")
	r.Header.Set("X-Real-IP", "198.51.100.1")

	if got := Peer(r); got != "192.0.2.10" {
		t.Errorf("Peer() = %q, ожидалось 192.0.2.10", got)
	}

	r.RemoteAddr = ""
	if got := Peer(r); got != Unknown {
		t.Errorf("Peer() без адреса = %q, ожидалось %q", got, Unknown)
	}
}
