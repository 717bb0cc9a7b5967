// file.go — хранилище записей в одном JSON-файле (массив записей).
// Каждое добавление перечитывает файл целиком и атомарно перезаписывает его:
// temp → fsync → rename. Добавления сериализуются мьютексом экземпляра.
package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/bigkaa/visitor-log/internal/domain/model"
)

// fileRecordRepo — реализация RecordRepository поверх JSON-файла.
type fileRecordRepo struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewFileRecordRepository создаёт файловое хранилище.
// Если файла нет — создаёт его с пустым массивом.
func NewFileRecordRepository(path string) (RecordRepository, error) {
	return newFileRecordRepo(path, time.Now)
}

func newFileRecordRepo(path string, now func() time.Time) (*fileRecordRepo, error) {
	r := &fileRecordRepo{path: path, now: now}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := r.write(nil); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("%w: проверка файла %s: %w", ErrStorage, path, err)
	}

	return r, nil
}

// Append добавляет запись в конец массива.
// ID — Unix-время в миллисекундах; если часы не продвинулись
// относительно последней записи, берётся max(ID)+1.
func (r *fileRecordRepo) Append(_ context.Context, name, ip, civilTime, timestamp string) (*model.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.read()
	if err != nil {
		return nil, err
	}

	id := r.now().UnixMilli()
	for _, rec := range records {
		if rec.ID >= id {
			id = rec.ID + 1
		}
	}

	rec := &model.Record{
		ID:        id,
		Name:      name,
		IP:        ip,
		Time:      civilTime,
		Timestamp: timestamp,
	}
	records = append(records, rec)

	if err := r.write(records); err != nil {
		return nil, err
	}

	return rec, nil
}

// ListAll возвращает все записи файла, отсортированные по ID по убыванию.
// Отсутствующий файл — пустой список.
func (r *fileRecordRepo) ListAll(_ context.Context) ([]*model.Record, error) {
	r.mu.Lock()
	records, err := r.read()
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}

	slices.SortFunc(records, func(a, b *model.Record) int {
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		default:
			return 0
		}
	})
	return records, nil
}

// Ping проверяет, что каталог хранилища доступен.
func (r *fileRecordRepo) Ping(_ context.Context) error {
	dir := filepath.Dir(r.path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: каталог %s: %w", ErrStorage, dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s не является каталогом", ErrStorage, dir)
	}
	return nil
}

// Close — файловому хранилищу нечего освобождать.
func (r *fileRecordRepo) Close() error {
	return nil
}

// read читает и разбирает JSON-массив. Вызывается под r.mu.
func (r *fileRecordRepo) read() ([]*model.Record, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []*model.Record{}, nil
		}
		return nil, fmt.Errorf("%w: чтение %s: %w", ErrStorage, r.path, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []*model.Record{}, nil
	}

	var records []*model.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: разбор %s: %w", ErrStorage, r.path, err)
	}
	if records == nil {
		records = []*model.Record{}
	}
	for i, rec := range records {
		if rec == nil {
			return nil, fmt.Errorf("%w: разбор %s: пустой элемент %d", ErrStorage, r.path, i)
		}
	}
	return records, nil
}

// write атомарно перезаписывает файл: temp → fsync → rename. Вызывается под r.mu.
func (r *fileRecordRepo) write(records []*model.Record) error {
	if records == nil {
		records = []*model.Record{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: сериализация записей: %w", ErrStorage, err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("%w: создание каталога %s: %w", ErrStorage, dir, err)
	}

	tmpPath := r.path + ".tmp"

	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("%w: создание временного файла: %w", ErrStorage, err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: запись: %w", ErrStorage, err)
	}

	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: fsync: %w", ErrStorage, err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: закрытие файла: %w", ErrStorage, err)
	}

	if err := os.Rename(tmpPath, r.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: атомарное переименование: %w", ErrStorage, err)
	}

	return nil
}
