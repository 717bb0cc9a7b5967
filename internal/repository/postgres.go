// postgres.go — хранилище записей в PostgreSQL (в том числе managed, например Supabase).
// Таблица ips создаётся миграциями пакета database.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bigkaa/visitor-log/internal/domain/model"
	"github.com/bigkaa/visitor-log/internal/timefmt"
)

// recordColumns — столбцы таблицы ips для SELECT и RETURNING.
// time и timestamp — ключевые слова PostgreSQL, поэтому в кавычках.
const recordColumns = `id, name, ip, "time", "timestamp"`

// postgresRecordRepo — реализация RecordRepository через pgx.
type postgresRecordRepo struct {
	db   DBTX
	pool *pgxpool.Pool
}

// NewPostgresRecordRepository создаёт хранилище поверх пула подключений.
func NewPostgresRecordRepository(pool *pgxpool.Pool) RecordRepository {
	return &postgresRecordRepo{db: pool, pool: pool}
}

// Append вставляет запись и возвращает строку, сохранённую базой (RETURNING),
// включая присвоенный сервером id.
func (r *postgresRecordRepo) Append(ctx context.Context, name, ip, civilTime, timestamp string) (*model.Record, error) {
	ts, err := time.Parse(time.RFC3339Nano, timestamp)
	if err != nil {
		return nil, fmt.Errorf("%w: некорректный timestamp %q: %w", ErrStorage, timestamp, err)
	}

	query := `
		INSERT INTO ips (name, ip, "time", "timestamp")
		VALUES ($1, $2, $3, $4)
		RETURNING ` + recordColumns

	rec, err := scanRecord(r.db.QueryRow(ctx, query, name, ip, civilTime, ts))
	if err != nil {
		return nil, fmt.Errorf("%w: вставка записи: %w", ErrStorage, err)
	}
	return rec, nil
}

func (r *postgresRecordRepo) ListAll(ctx context.Context) ([]*model.Record, error) {
	rows, err := r.db.Query(ctx, `SELECT `+recordColumns+` FROM ips ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("%w: получение записей: %w", ErrStorage, err)
	}
	defer rows.Close()

	result := []*model.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: сканирование записи: %w", ErrStorage, err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: чтение записей: %w", ErrStorage, err)
	}
	return result, nil
}

func (r *postgresRecordRepo) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: ping PostgreSQL: %w", ErrStorage, err)
	}
	return nil
}

// Close не закрывает пул — им владеет main.
func (r *postgresRecordRepo) Close() error {
	return nil
}

// rowScanner — общий интерфейс pgx.Row и pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*model.Record, error) {
	var (
		rec model.Record
		ts  time.Time
	)
	if err := row.Scan(&rec.ID, &rec.Name, &rec.IP, &rec.Time, &ts); err != nil {
		return nil, err
	}
	rec.Timestamp = timefmt.Instant(ts)
	return &rec, nil
}
