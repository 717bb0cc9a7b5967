// Пакет server — HTTP-сервер с graceful shutdown.
// Маршруты: страницы сайта, JSON API, health и метрики.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"github.com/bigkaa/visitor-log/internal/api/handlers"
	"github.com/bigkaa/visitor-log/internal/api/middleware"
	"github.com/bigkaa/visitor-log/internal/config"
	"github.com/bigkaa/visitor-log/internal/ui/static"
)

// Server — HTTP-сервер приложения.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// Handlers — обработчики, из которых собирается роутер.
type Handlers struct {
	API    *handlers.APIHandler
	Health *handlers.HealthHandler
	Pages  *handlers.PageHandler
	// Authorizer проверяет токен для защищённых маршрутов
	Authorizer middleware.Authorizer
}

// New создаёт HTTP-сервер с настроенными routes и middleware.
func New(cfg *config.Config, logger *slog.Logger, h Handlers) *Server {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      NewRouter(cfg, logger, h),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// NewRouter собирает chi-роутер со всеми маршрутами.
func NewRouter(cfg *config.Config, logger *slog.Logger, h Handlers) http.Handler {
	router := chi.NewRouter()

	// Глобальные middleware (применяются ко ВСЕМ маршрутам)
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))
	router.Use(cors.New(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler)

	// Страницы и статика
	router.Get("/", h.Pages.Index)
	router.Get("/admin", h.Pages.Admin)
	router.Handle("/style.css", http.FileServer(static.FileSystem()))

	// Health и метрики
	router.Get("/health", h.Health.Health)
	router.Get("/health/live", h.Health.HealthLive)
	router.Get("/health/ready", h.Health.HealthReady)
	router.Get("/metrics", h.Health.GetMetrics)

	// JSON API
	router.Route("/api", func(r chi.Router) {
		r.Get("/test", h.Health.Test)
		r.Post("/submit", h.API.Submit)
		r.Post("/admin/login", h.API.Login)
		r.Post("/admin/logout", h.API.Logout)

		r.Group(func(r chi.Router) {
			if cfg.RecordsAuth {
				r.Use(middleware.AdminGate(h.Authorizer))
			}
			r.Get("/records", h.API.ListRecords)
		})
	})

	return router
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	// Канал для ошибок сервера
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
