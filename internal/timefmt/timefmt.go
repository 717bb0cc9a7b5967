// Пакет timefmt — форматирование текущего момента для записей посетителей.
// Местное время считается по фиксированному смещению UTC+4 (Баку),
// без учёта базы часовых поясов хоста.
package timefmt

import "time"

const (
	// CivilLayout — формат местного времени записи, точность до секунды.
	CivilLayout = "2006-01-02 15:04:05"
	// InstantLayout — формат UTC-момента (совпадает с ECMAScript toISOString).
	InstantLayout = "2006-01-02T15:04:05.000Z"
)

// bakuZone — фиксированная зона UTC+4.
var bakuZone = time.FixedZone("UTC+4", 4*60*60)

// Formatter выдаёт пару (местное время, UTC-момент) для новой записи.
type Formatter struct {
	now func() time.Time
}

// New создаёт Formatter. Если now == nil, используется time.Now.
func New(now func() time.Time) *Formatter {
	if now == nil {
		now = time.Now
	}
	return &Formatter{now: now}
}

// Now возвращает текущее местное время UTC+4 ("2006-01-02 15:04:05")
// и текущий момент в UTC ("2006-01-02T15:04:05.000Z").
func (f *Formatter) Now() (civil string, instant string) {
	t := f.now()
	return Civil(t), Instant(t)
}

// Civil форматирует момент t как местное время UTC+4 без суффикса зоны.
func Civil(t time.Time) string {
	return t.In(bakuZone).Format(CivilLayout)
}

// Instant форматирует момент t в UTC с миллисекундами и суффиксом Z.
func Instant(t time.Time) string {
	return t.UTC().Format(InstantLayout)
}
