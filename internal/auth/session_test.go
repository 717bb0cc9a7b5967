package auth

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// fakeClock — управляемые часы для тестов истечения сессий.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestRegistry(t *testing.T, clock *fakeClock) *MemoryRegistry {
	t.Helper()
	codec, err := NewTokenCodec("test-secret")
	if err != nil {
		t.Fatalf("NewTokenCodec() вернул ошибку: %v", err)
	}
	return NewMemoryRegistry(codec, 24*time.Hour, clock.Now)
}

func TestRegistry_CreateValidate(t *testing.T) {
	reg := newTestRegistry(t, newFakeClock())

	token, err := reg.Create("admin")
	if err != nil {
		t.Fatalf("Create() вернул ошибку: %v", err)
	}
	if token == "" {
		t.Fatal("пустой токен")
	}
	if !reg.Validate(token) {
		t.Error("Validate() = false для только что созданной сессии")
	}
	if reg.Count() != 1 {
		t.Errorf("Count() = %d, ожидается 1", reg.Count())
	}
}

func TestRegistry_ValidateUnknown(t *testing.T) {
	clock := newFakeClock()
	reg := newTestRegistry(t, clock)

	if reg.Validate("") {
		t.Error("Validate(\"\") = true")
	}
	if reg.Validate("not-a-token") {
		t.Error("Validate(мусор) = true")
	}

	// Подписанный, но не зарегистрированный токен
	other, _ := reg.codec.Issue("admin", clock.Now())
	if reg.Validate(other) {
		t.Error("Validate() = true для токена вне реестра")
	}
}

func TestRegistry_DistinctTokens(t *testing.T) {
	reg := newTestRegistry(t, newFakeClock())

	seen := make(map[string]bool)
	for range 50 {
		token, err := reg.Create("admin")
		if err != nil {
			t.Fatalf("Create() вернул ошибку: %v", err)
		}
		if seen[token] {
			t.Fatalf("повторный токен %q", token)
		}
		seen[token] = true
	}
	if reg.Count() != 50 {
		t.Errorf("Count() = %d, ожидается 50", reg.Count())
	}
}

// TestRegistry_Expiry — граница 24h: за миг до неё валиден, на ней — нет.
func TestRegistry_Expiry(t *testing.T) {
	clock := newFakeClock()
	reg := newTestRegistry(t, clock)

	token, err := reg.Create("admin")
	if err != nil {
		t.Fatalf("Create() вернул ошибку: %v", err)
	}

	clock.Advance(24*time.Hour - time.Second)
	if !reg.Validate(token) {
		t.Fatal("сессия истекла раньше срока")
	}

	clock.Advance(time.Second)
	if reg.Validate(token) {
		t.Error("сессия валидна по истечении 24h")
	}
	if reg.Count() != 0 {
		t.Errorf("истёкшая сессия не удалена: Count() = %d", reg.Count())
	}
}

func TestRegistry_Revoke(t *testing.T) {
	reg := newTestRegistry(t, newFakeClock())

	keep, _ := reg.Create("admin")
	drop, _ := reg.Create("admin")

	reg.Revoke(drop)
	reg.Revoke("unknown")

	if reg.Validate(drop) {
		t.Error("отозванный токен валиден")
	}
	if !reg.Validate(keep) {
		t.Error("отзыв затронул другую сессию")
	}
}

func TestRegistry_Sweep(t *testing.T) {
	clock := newFakeClock()
	reg := newTestRegistry(t, clock)

	_, _ = reg.Create("admin")
	_, _ = reg.Create("admin")
	clock.Advance(12 * time.Hour)
	fresh, _ := reg.Create("admin")
	clock.Advance(12 * time.Hour)

	if removed := reg.Sweep(); removed != 2 {
		t.Errorf("Sweep() = %d, ожидается 2", removed)
	}
	if reg.Count() != 1 {
		t.Errorf("Count() = %d, ожидается 1", reg.Count())
	}
	if !reg.Validate(fresh) {
		t.Error("свежая сессия удалена при очистке")
	}
}

func TestRegistry_StartSweeper(t *testing.T) {
	clock := newFakeClock()
	reg := newTestRegistry(t, clock)
	_, _ = reg.Create("admin")
	clock.Advance(25 * time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reg.StartSweeper(ctx, 10*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))

	deadline := time.Now().Add(2 * time.Second)
	for reg.Count() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("sweeper не удалил истёкшую сессию")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// TestRegistry_StartSweeperNonPositive — нулевой или отрицательный интервал
// не запускает очистку и не паникует.
func TestRegistry_StartSweeperNonPositive(t *testing.T) {
	clock := newFakeClock()
	reg := newTestRegistry(t, clock)
	_, _ = reg.Create("admin")
	clock.Advance(25 * time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg.StartSweeper(ctx, 0, logger)
	reg.StartSweeper(ctx, -time.Minute, logger)

	time.Sleep(20 * time.Millisecond)
	if got := reg.Count(); got != 1 {
		t.Errorf("Count() = %d, очистка не должна была запуститься", got)
	}
}

func TestRegistry_Collector(t *testing.T) {
	reg := newTestRegistry(t, newFakeClock())
	_, _ = reg.Create("admin")
	_, _ = reg.Create("admin")

	if got := testutil.ToFloat64(reg.Collector()); got != 2 {
		t.Errorf("gauge = %v, ожидается 2", got)
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	reg := newTestRegistry(t, newFakeClock())

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token, err := reg.Create("admin")
			if err != nil {
				t.Errorf("Create() вернул ошибку: %v", err)
				return
			}
			if !reg.Validate(token) {
				t.Error("Validate() = false")
			}
			reg.Revoke(token)
		}()
	}
	wg.Wait()

	if reg.Count() != 0 {
		t.Errorf("Count() = %d, ожидается 0", reg.Count())
	}
}
