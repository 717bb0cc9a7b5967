package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// TestFileRepo_CreatesEmptyFile проверяет создание файла с пустым массивом.
func TestFileRepo_CreatesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "ips.json")

	repo, err := NewFileRecordRepository(path)
	if err != nil {
		t.Fatalf("NewFileRecordRepository() вернул ошибку: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("файл не создан: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("содержимое = %q, ожидается %q", data, "[]")
	}

	records, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll() вернул ошибку: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("len(records) = %d, ожидается 0", len(records))
	}
}

// TestFileRepo_AppendAndList проверяет порядок «новые первыми» и сохранение полей.
func TestFileRepo_AppendAndList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ips.json")
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	repo, err := newFileRecordRepo(path, func() time.Time {
		now = now.Add(time.Second)
		return now
	})
	if err != nil {
		t.Fatalf("newFileRecordRepo() вернул ошибку: %v", err)
	}
	ctx := context.Background()

	names := []string{"Ali", "Veli", "Ayşe"}
	for _, n := range names {
		if _, err := repo.Append(ctx, n, "1.2.3.4", "2026-03-01 14:00:00", "2026-03-01T10:00:00.000Z"); err != nil {
			t.Fatalf("Append(%q) вернул ошибку: %v", n, err)
		}
	}

	records, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() вернул ошибку: %v", err)
	}
	if len(records) != len(names) {
		t.Fatalf("len(records) = %d, ожидается %d", len(records), len(names))
	}
	for i, want := range []string{"Ayşe", "Veli", "Ali"} {
		if records[i].Name != want {
			t.Errorf("records[%d].Name = %q, ожидается %q", i, records[i].Name, want)
		}
	}
	for i := 1; i < len(records); i++ {
		if records[i-1].ID <= records[i].ID {
			t.Errorf("ID не по убыванию: %d, %d", records[i-1].ID, records[i].ID)
		}
	}
	if records[0].IP != "1.2.3.4" || records[0].Time != "2026-03-01 14:00:00" {
		t.Errorf("поля записи не сохранены: %+v", records[0])
	}
}

// TestFileRepo_UniqueIDsWithFrozenClock — одинаковое время не даёт дублей ID.
func TestFileRepo_UniqueIDsWithFrozenClock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ips.json")
	repo, err := newFileRecordRepo(path, fixedClock(time.UnixMilli(1_700_000_000_000)))
	if err != nil {
		t.Fatalf("newFileRecordRepo() вернул ошибку: %v", err)
	}
	ctx := context.Background()

	first, err := repo.Append(ctx, "a", "ip", "t", "ts")
	if err != nil {
		t.Fatalf("Append() вернул ошибку: %v", err)
	}
	second, err := repo.Append(ctx, "b", "ip", "t", "ts")
	if err != nil {
		t.Fatalf("Append() вернул ошибку: %v", err)
	}

	if first.ID != 1_700_000_000_000 {
		t.Errorf("first.ID = %d, ожидается 1700000000000", first.ID)
	}
	if second.ID != first.ID+1 {
		t.Errorf("second.ID = %d, ожидается %d", second.ID, first.ID+1)
	}
}

// TestFileRepo_ConcurrentAppends — параллельные добавления не теряются.
func TestFileRepo_ConcurrentAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ips.json")
	repo, err := NewFileRecordRepository(path)
	if err != nil {
		t.Fatalf("NewFileRecordRepository() вернул ошибку: %v", err)
	}
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.Append(ctx, "visitor", "ip", "t", "ts"); err != nil {
				t.Errorf("Append() вернул ошибку: %v", err)
			}
		}()
	}
	wg.Wait()

	records, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() вернул ошибку: %v", err)
	}
	if len(records) != n {
		t.Fatalf("len(records) = %d, ожидается %d", len(records), n)
	}
	seen := make(map[int64]bool, n)
	for _, r := range records {
		if seen[r.ID] {
			t.Errorf("дублирующийся ID %d", r.ID)
		}
		seen[r.ID] = true
	}
}

// TestFileRepo_EmptyFile — пустой файл читается как пустой список.
func TestFileRepo_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ips.json")
	if err := os.WriteFile(path, []byte("  \n"), 0o600); err != nil {
		t.Fatal(err)
	}

	repo, err := NewFileRecordRepository(path)
	if err != nil {
		t.Fatalf("NewFileRecordRepository() вернул ошибку: %v", err)
	}

	records, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll() вернул ошибку: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("len(records) = %d, ожидается 0", len(records))
	}

	if _, err := repo.Append(context.Background(), "Ali", "ip", "t", "ts"); err != nil {
		t.Fatalf("Append() вернул ошибку: %v", err)
	}
}

// TestFileRepo_CorruptFile — испорченный JSON даёт ErrStorage и не перезаписывается.
func TestFileRepo_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ips.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	repo, err := NewFileRecordRepository(path)
	if err != nil {
		t.Fatalf("NewFileRecordRepository() вернул ошибку: %v", err)
	}
	ctx := context.Background()

	if _, err := repo.ListAll(ctx); !errors.Is(err, ErrStorage) {
		t.Errorf("ListAll() ошибка = %v, ожидается ErrStorage", err)
	}
	if _, err := repo.Append(ctx, "Ali", "ip", "t", "ts"); !errors.Is(err, ErrStorage) {
		t.Errorf("Append() ошибка = %v, ожидается ErrStorage", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "{not json" {
		t.Errorf("испорченный файл перезаписан: %q", data)
	}
}

// TestFileRepo_NullEntry — null в массиве записей считается повреждением файла.
func TestFileRepo_NullEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ips.json")
	content := `[{"id":1,"name":"a"},null]`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	repo, err := NewFileRecordRepository(path)
	if err != nil {
		t.Fatalf("NewFileRecordRepository() вернул ошибку: %v", err)
	}
	ctx := context.Background()

	if _, err := repo.ListAll(ctx); !errors.Is(err, ErrStorage) {
		t.Errorf("ListAll() ошибка = %v, ожидается ErrStorage", err)
	}
	if _, err := repo.Append(ctx, "Ali", "ip", "t", "ts"); !errors.Is(err, ErrStorage) {
		t.Errorf("Append() ошибка = %v, ожидается ErrStorage", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != content {
		t.Errorf("файл перезаписан: %q", data)
	}
}

// TestFileRepo_Ping проверяет доступность каталога.
func TestFileRepo_Ping(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFileRecordRepository(filepath.Join(dir, "ips.json"))
	if err != nil {
		t.Fatalf("NewFileRecordRepository() вернул ошибку: %v", err)
	}

	if err := repo.Ping(context.Background()); err != nil {
		t.Errorf("Ping() вернул ошибку: %v", err)
	}

	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}
	if err := repo.Ping(context.Background()); !errors.Is(err, ErrStorage) {
		t.Errorf("Ping() после удаления каталога = %v, ожидается ErrStorage", err)
	}
}
