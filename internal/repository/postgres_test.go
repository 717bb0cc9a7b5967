package repository

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bigkaa/visitor-log/internal/database"
	"github.com/bigkaa/visitor-log/internal/database/dbtest"
)

// setupTestDB запускает PostgreSQL контейнер и применяет миграции.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	cfg := dbtest.StartPostgres(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	if err := database.Migrate(cfg, logger); err != nil {
		t.Fatalf("Ошибка применения миграций: %v", err)
	}

	pool, err := database.Connect(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("Ошибка подключения к БД: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

var instantRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z$`)

func TestPostgresRepo_AppendAndList(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewPostgresRecordRepository(pool)
	ctx := context.Background()

	if err := repo.Ping(ctx); err != nil {
		t.Fatalf("Ping() вернул ошибку: %v", err)
	}

	rec, err := repo.Append(ctx, "Ali", "10.0.0.1", "2026-03-01 14:00:00", "2026-03-01T10:00:00.123Z")
	if err != nil {
		t.Fatalf("Append() вернул ошибку: %v", err)
	}
	if rec.ID == 0 {
		t.Error("ID не присвоен")
	}
	if rec.Timestamp != "2026-03-01T10:00:00.123Z" {
		t.Errorf("Timestamp = %q, ожидается 2026-03-01T10:00:00.123Z", rec.Timestamp)
	}

	if _, err := repo.Append(ctx, "Veli", "10.0.0.2", "2026-03-01 14:00:01", "2026-03-01T10:00:01.000Z"); err != nil {
		t.Fatalf("Append() вернул ошибку: %v", err)
	}

	records, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() вернул ошибку: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, ожидается 2", len(records))
	}
	if records[0].Name != "Veli" {
		t.Errorf("records[0].Name = %q, ожидается Veli", records[0].Name)
	}
	for _, r := range records {
		if !instantRe.MatchString(r.Timestamp) {
			t.Errorf("Timestamp %q не соответствует формату", r.Timestamp)
		}
	}
}

func TestPostgresRepo_InvalidTimestamp(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewPostgresRecordRepository(pool)

	_, err := repo.Append(context.Background(), "Ali", "ip", "t", "не время")
	if !errors.Is(err, ErrStorage) {
		t.Errorf("Append() ошибка = %v, ожидается ErrStorage", err)
	}
}
