// Точка входа Visitor Log — сервис приёма имён посетителей.
// Загружает конфигурацию, открывает выбранное хранилище записей
// (JSON-файл, SQLite или PostgreSQL с миграциями), создаёт реестр сессий
// администратора, сервисный слой и API handlers, запускает фоновые задачи
// (очистка сессий, topologymetrics) и HTTP-сервер с graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bigkaa/visitor-log/internal/api/handlers"
	"github.com/bigkaa/visitor-log/internal/auth"
	"github.com/bigkaa/visitor-log/internal/config"
	"github.com/bigkaa/visitor-log/internal/database"
	"github.com/bigkaa/visitor-log/internal/repository"
	"github.com/bigkaa/visitor-log/internal/server"
	"github.com/bigkaa/visitor-log/internal/service"
	"github.com/bigkaa/visitor-log/internal/timefmt"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("Visitor Log запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("storage_backend", cfg.StorageBackend),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Хранилище записей
	var (
		repo         repository.RecordRepository
		dephealthSvc *service.DephealthService
	)

	switch cfg.StorageBackend {
	case config.BackendFile:
		repo, err = repository.NewFileRecordRepository(cfg.DataFilePath())
		if err != nil {
			logger.Error("Ошибка открытия файлового хранилища", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Файловое хранилище открыто", slog.String("path", cfg.DataFilePath()))

	case config.BackendSQLite:
		db, openErr := database.OpenSQLite(cfg.SQLitePath(), logger)
		if openErr != nil {
			logger.Error("Ошибка открытия SQLite", slog.String("error", openErr.Error()))
			os.Exit(1)
		}
		repo, err = repository.NewSQLiteRecordRepository(ctx, db)
		if err != nil {
			logger.Error("Ошибка инициализации SQLite-хранилища", slog.String("error", err.Error()))
			os.Exit(1)
		}

	case config.BackendPostgres:
		// 3.1 Применение миграций БД
		logger.Info("Применение миграций БД...")
		if err := database.Migrate(cfg, logger); err != nil {
			logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
			os.Exit(1)
		}

		// 3.2 Подключение к PostgreSQL (pgxpool)
		pool, connErr := database.Connect(ctx, cfg, logger)
		if connErr != nil {
			logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", connErr.Error()))
			os.Exit(1)
		}
		defer pool.Close()
		repo = repository.NewPostgresRecordRepository(pool)

		// 3.3 Адаптер pgxpool → *sql.DB для topologymetrics (connection pool mode)
		pgDB := stdlib.OpenDBFromPool(pool)
		defer pgDB.Close()

		if os.Getenv("VL_DEPHEALTH_GROUP") == "" {
			logger.Warn("VL_DEPHEALTH_GROUP не задана, используется значение по умолчанию",
				slog.String("default", cfg.DephealthGroup),
			)
		}

		dephealthSvc, err = service.NewDephealthService(
			"visitor-log",
			cfg.DephealthGroup,
			pgDB,
			cfg.DatabaseURL(),
			cfg.DephealthCheckInterval,
			logger,
			nil,
		)
		if err != nil {
			logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
				slog.String("error", err.Error()),
			)
			dephealthSvc = nil
		} else if startErr := dephealthSvc.Start(ctx); startErr != nil {
			logger.Warn("Ошибка запуска topologymetrics",
				slog.String("error", startErr.Error()),
			)
			dephealthSvc = nil
		}
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Warn("Ошибка закрытия хранилища", slog.String("error", err.Error()))
		}
	}()

	// 4. Сессии администратора
	if cfg.SessionSecret == "" {
		logger.Warn("VL_SESSION_SECRET не задан, токены не переживают рестарт")
	}
	codec, err := auth.NewTokenCodec(cfg.SessionSecret)
	if err != nil {
		logger.Error("Ошибка создания кодека токенов", slog.String("error", err.Error()))
		os.Exit(1)
	}
	registry := auth.NewMemoryRegistry(codec, cfg.SessionTTL, nil)
	registry.StartSweeper(ctx, cfg.SessionSweepInterval, logger)
	prometheus.MustRegister(registry.Collector())

	limiter := auth.NewLoginLimiter(cfg.LoginMaxAttempts, cfg.LoginLockout)

	// 5. Services
	recordSvc := service.NewRecordService(
		repo,
		timefmt.New(nil),
		service.NewRecordMetrics(prometheus.DefaultRegisterer),
		logger,
	)
	adminAuthSvc := service.NewAdminAuthService(
		cfg.AdminUsername, cfg.AdminPassword,
		registry, limiter,
		logger,
	)

	if !cfg.RecordsAuth {
		logger.Warn("VL_RECORDS_AUTH=false: список записей доступен без входа")
	}

	// 6. Handlers
	var deps handlers.DependencyHealth
	if dephealthSvc != nil {
		deps = dephealthSvc
	}

	srv := server.New(cfg, logger, server.Handlers{
		API:        handlers.NewAPIHandler(recordSvc, adminAuthSvc, cfg.TrustClientIP, logger),
		Health:     handlers.NewHealthHandler(recordSvc, deps, cfg.StorageBackend),
		Pages:      handlers.NewPageHandler(logger),
		Authorizer: adminAuthSvc,
	})

	// 7. Запуск HTTP-сервера (блокирует до сигнала завершения)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		cancel()
		os.Exit(1)
	}

	// 8. Graceful shutdown фоновых задач
	logger.Info("Останавливаем фоновые задачи...")
	cancel()
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}

	logger.Info("Visitor Log остановлен")
}
