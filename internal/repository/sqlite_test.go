package repository

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/bigkaa/visitor-log/internal/database"
)

func newSQLiteRepo(t *testing.T) RecordRepository {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "records.db"), logger)
	if err != nil {
		t.Fatalf("OpenSQLite() вернул ошибку: %v", err)
	}

	repo, err := NewSQLiteRecordRepository(context.Background(), db)
	if err != nil {
		t.Fatalf("NewSQLiteRecordRepository() вернул ошибку: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestSQLiteRepo_AppendAndList(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	empty, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() вернул ошибку: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("len(records) = %d, ожидается 0", len(empty))
	}

	first, err := repo.Append(ctx, "Ali", "10.0.0.1", "2026-03-01 14:00:00", "2026-03-01T10:00:00.000Z")
	if err != nil {
		t.Fatalf("Append() вернул ошибку: %v", err)
	}
	if first.ID == 0 {
		t.Error("ID не присвоен")
	}
	second, err := repo.Append(ctx, "Veli", "10.0.0.2", "2026-03-01 14:00:01", "2026-03-01T10:00:01.000Z")
	if err != nil {
		t.Fatalf("Append() вернул ошибку: %v", err)
	}
	if second.ID <= first.ID {
		t.Errorf("second.ID = %d не больше first.ID = %d", second.ID, first.ID)
	}

	records, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() вернул ошибку: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, ожидается 2", len(records))
	}
	if records[0].Name != "Veli" || records[1].Name != "Ali" {
		t.Errorf("порядок = [%s %s], ожидается [Veli Ali]", records[0].Name, records[1].Name)
	}
	if records[1].IP != "10.0.0.1" || records[1].Timestamp != "2026-03-01T10:00:00.000Z" {
		t.Errorf("поля записи не сохранены: %+v", records[1])
	}
}

func TestSQLiteRepo_Ping(t *testing.T) {
	repo := newSQLiteRepo(t)
	if err := repo.Ping(context.Background()); err != nil {
		t.Errorf("Ping() вернул ошибку: %v", err)
	}
}
