// Пакет dbtest — запуск PostgreSQL в Docker для интеграционных тестов.
// Тесты пропускаются, если переменная TEST_INTEGRATION не установлена.
package dbtest

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/bigkaa/visitor-log/internal/config"
)

// StartPostgres запускает контейнер postgres:17-alpine и возвращает конфиг,
// указывающий на него. Контейнер останавливается в t.Cleanup.
func StartPostgres(t *testing.T) *config.Config {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("Пропуск интеграционного теста: TEST_INTEGRATION не установлена")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase("visitors_test"),
		postgres.WithUsername("visitors"),
		postgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Не удалось запустить PostgreSQL контейнер: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Ошибка остановки контейнера: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Не удалось получить host контейнера: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Не удалось получить port контейнера: %v", err)
	}
	portNum, err := strconv.Atoi(port.Port())
	if err != nil {
		t.Fatalf("Некорректный порт контейнера %q: %v", port.Port(), err)
	}

	return &config.Config{
		StorageBackend: config.BackendPostgres,
		DBHost:         host,
		DBPort:         portNum,
		DBName:         "visitors_test",
		DBUser:         "visitors",
		DBPassword:     "test-password",
		DBSSLMode:      "disable",
	}
}
