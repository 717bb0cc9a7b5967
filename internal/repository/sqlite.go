// sqlite.go — хранилище записей во встроенной SQLite через GORM.
// ID — автоинкрементный первичный ключ таблицы records.
package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/bigkaa/visitor-log/internal/domain/model"
)

// sqliteRecord — строка таблицы records.
type sqliteRecord struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"not null"`
	IP        string `gorm:"column:ip"`
	Time      string
	Timestamp string
}

// TableName фиксирует имя таблицы (без плюрализации GORM).
func (sqliteRecord) TableName() string {
	return "records"
}

func (r *sqliteRecord) toModel() *model.Record {
	return &model.Record{
		ID:        r.ID,
		Name:      r.Name,
		IP:        r.IP,
		Time:      r.Time,
		Timestamp: r.Timestamp,
	}
}

// sqliteRecordRepo — реализация RecordRepository через GORM.
type sqliteRecordRepo struct {
	db *gorm.DB
}

// NewSQLiteRecordRepository создаёт хранилище и при необходимости
// создаёт таблицу records (AutoMigrate).
func NewSQLiteRecordRepository(ctx context.Context, db *gorm.DB) (RecordRepository, error) {
	if err := db.WithContext(ctx).AutoMigrate(&sqliteRecord{}); err != nil {
		return nil, fmt.Errorf("%w: создание таблицы records: %w", ErrStorage, err)
	}
	return &sqliteRecordRepo{db: db}, nil
}

func (r *sqliteRecordRepo) Append(ctx context.Context, name, ip, civilTime, timestamp string) (*model.Record, error) {
	row := &sqliteRecord{
		Name:      name,
		IP:        ip,
		Time:      civilTime,
		Timestamp: timestamp,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, fmt.Errorf("%w: вставка записи: %w", ErrStorage, err)
	}
	return row.toModel(), nil
}

func (r *sqliteRecordRepo) ListAll(ctx context.Context) ([]*model.Record, error) {
	var rows []sqliteRecord
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: получение записей: %w", ErrStorage, err)
	}

	result := make([]*model.Record, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].toModel())
	}
	return result, nil
}

func (r *sqliteRecordRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: ping sqlite: %w", ErrStorage, err)
	}
	return nil
}

func (r *sqliteRecordRepo) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
