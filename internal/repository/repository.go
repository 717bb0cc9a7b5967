// Пакет repository — хранилища записей посетителей.
// Один интерфейс RecordRepository и три реализации:
// JSON-файл, встроенная SQLite (GORM) и PostgreSQL (pgx).
package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bigkaa/visitor-log/internal/domain/model"
)

// ErrStorage — хранилище недоступно или не смогло выполнить операцию.
// Детали исходной ошибки сохраняются в цепочке (errors.Is / errors.As).
var ErrStorage = errors.New("ошибка хранилища")

// RecordRepository — хранилище записей посетителей.
type RecordRepository interface {
	// Append сохраняет новую запись и возвращает её в том виде,
	// в каком она сохранена (включая присвоенный ID).
	Append(ctx context.Context, name, ip, civilTime, timestamp string) (*model.Record, error)
	// ListAll возвращает все записи, новые первыми (ID по убыванию).
	ListAll(ctx context.Context) ([]*model.Record, error)
	// Ping проверяет доступность хранилища (readiness probe).
	Ping(ctx context.Context) error
	// Close освобождает ресурсы хранилища.
	Close() error
}

// DBTX — интерфейс для выполнения SQL-запросов через pgx.
// Реализуется как *pgxpool.Pool, так и pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
