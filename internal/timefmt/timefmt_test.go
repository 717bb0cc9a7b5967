package timefmt

import (
	"regexp"
	"testing"
	"time"
)

// TestFormatterNow проверяет сдвиг на +4 часа и формат обеих строк.
func TestFormatterNow(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 22, 30, 15, 123456789, time.UTC)
	f := New(func() time.Time { return fixed })

	civil, instant := f.Now()

	if civil != "2026-03-02 02:30:15" {
		t.Errorf("civil = %q, ожидалось %q", civil, "2026-03-02 02:30:15")
	}
	if instant != "2026-03-01T22:30:15.123Z" {
		t.Errorf("instant = %q, ожидалось %q", instant, "2026-03-01T22:30:15.123Z")
	}
}

// TestCivilIgnoresInputZone проверяет, что зона входного момента не влияет на результат.
func TestCivilIgnoresInputZone(t *testing.T) {
	utc := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tokyo := utc.In(time.FixedZone("JST", 9*60*60))

	if Civil(utc) != Civil(tokyo) {
		t.Errorf("Civil зависит от зоны: %q vs %q", Civil(utc), Civil(tokyo))
	}
	if Civil(utc) != "2026-01-01 16:00:00" {
		t.Errorf("Civil = %q, ожидалось 2026-01-01 16:00:00", Civil(utc))
	}
}

// TestDefaultClockFormat проверяет формат при реальных часах.
func TestDefaultClockFormat(t *testing.T) {
	civil, instant := New(nil).Now()

	if !regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`).MatchString(civil) {
		t.Errorf("civil %q не соответствует формату", civil)
	}
	if _, err := time.Parse(time.RFC3339Nano, instant); err != nil {
		t.Errorf("instant %q не парсится как RFC3339: %v", instant, err)
	}
}
