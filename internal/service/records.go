// records.go — приём и выдача записей посетителей.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bigkaa/visitor-log/internal/domain/model"
	"github.com/bigkaa/visitor-log/internal/repository"
	"github.com/bigkaa/visitor-log/internal/timefmt"
)

// RecordMetrics — счётчики операций с записями.
type RecordMetrics struct {
	submitted prometheus.Counter
	failures  *prometheus.CounterVec
}

// NewRecordMetrics регистрирует метрики записей в registerer.
func NewRecordMetrics(registerer prometheus.Registerer) *RecordMetrics {
	m := &RecordMetrics{
		submitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vl_records_submitted_total",
			Help: "Количество успешно сохранённых записей посетителей",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vl_records_storage_errors_total",
			Help: "Количество ошибок хранилища записей",
		}, []string{"operation"}),
	}
	registerer.MustRegister(m.submitted, m.failures)
	return m
}

// RecordService — бизнес-логика записей посетителей.
type RecordService struct {
	repo    repository.RecordRepository
	clock   *timefmt.Formatter
	metrics *RecordMetrics
	logger  *slog.Logger
}

// NewRecordService создаёт сервис записей. metrics может быть nil.
func NewRecordService(
	repo repository.RecordRepository,
	clock *timefmt.Formatter,
	metrics *RecordMetrics,
	logger *slog.Logger,
) *RecordService {
	return &RecordService{
		repo:    repo,
		clock:   clock,
		metrics: metrics,
		logger:  logger.With(slog.String("component", "record_service")),
	}
}

// Submit сохраняет запись посетителя. Имя обрезается по краям;
// пустое имя — ErrValidation, хранилище не вызывается.
func (s *RecordService) Submit(ctx context.Context, name, ip string) (*model.Record, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: имя не указано", ErrValidation)
	}

	civil, instant := s.clock.Now()

	rec, err := s.repo.Append(ctx, name, ip, civil, instant)
	if err != nil {
		s.logger.Error("Ошибка записи посетителя",
			slog.String("ip", ip),
			slog.String("error", err.Error()),
		)
		s.countFailure("append")
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.submitted.Inc()
	}
	s.logger.Info("Запись посетителя сохранена",
		slog.Int64("id", rec.ID),
		slog.String("ip", ip),
	)
	return rec, nil
}

// List возвращает все записи, новые первыми.
// Ошибка хранилища логируется, клиент получает пустой список.
func (s *RecordService) List(ctx context.Context) []*model.Record {
	records, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error("Ошибка чтения записей",
			slog.String("error", err.Error()),
		)
		s.countFailure("list")
		return []*model.Record{}
	}
	if records == nil {
		return []*model.Record{}
	}
	return records
}

// Ping проверяет доступность хранилища.
func (s *RecordService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *RecordService) countFailure(op string) {
	if s.metrics != nil {
		s.metrics.failures.WithLabelValues(op).Inc()
	}
}
