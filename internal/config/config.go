// Пакет config — загрузка и валидация конфигурации Visitor Log
// из переменных окружения.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Поддерживаемые хранилища записей.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config содержит все параметры конфигурации Visitor Log.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string
	// Таймауты HTTP-сервера
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	// Разрешённые CORS origins
	CORSAllowedOrigins []string

	// --- Хранилище ---

	// Тип хранилища: file, sqlite, postgres
	StorageBackend string
	// Каталог для file/sqlite хранилищ
	DataDir string
	// Имя JSON-файла (file backend)
	DataFile string
	// Имя файла SQLite (sqlite backend)
	SQLiteFile string

	// --- PostgreSQL (postgres backend) ---

	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string
	// Режим SSL: disable, require, verify-ca, verify-full
	DBSSLMode string

	// --- Администратор и сессии ---

	AdminUsername string
	AdminPassword string
	// Время жизни сессии администратора
	SessionTTL time.Duration
	// Ключ подписи токенов (пустой — случайный на каждый запуск)
	SessionSecret string
	// Интервал очистки истёкших сессий
	SessionSweepInterval time.Duration
	// Требовать bearer-токен для GET /api/records
	RecordsAuth bool
	// Принимать publicIP из тела запроса
	TrustClientIP bool
	// Ограничение неудачных попыток входа
	LoginMaxAttempts int
	LoginLockout     time.Duration

	// --- Мониторинг зависимостей ---

	DephealthGroup         string
	DephealthCheckInterval time.Duration

	// --- Graceful shutdown ---

	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// значения и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// VL_PORT — порт HTTP-сервера, fallback на PORT (PaaS-окружения)
	cfg.Port, err = getEnvInt("VL_PORT", 0)
	if err != nil {
		return nil, fmt.Errorf("VL_PORT: %w", err)
	}
	if cfg.Port == 0 {
		cfg.Port, err = getEnvInt("PORT", 3000)
		if err != nil {
			return nil, fmt.Errorf("PORT: %w", err)
		}
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("VL_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	cfg.LogLevel, err = parseLogLevel(getEnvDefault("VL_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("VL_LOG_LEVEL: %w", err)
	}

	cfg.LogFormat = getEnvDefault("VL_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("VL_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	if cfg.HTTPReadTimeout, err = getEnvDuration("VL_HTTP_READ_TIMEOUT", 15*time.Second); err != nil {
		return nil, fmt.Errorf("VL_HTTP_READ_TIMEOUT: %w", err)
	}
	if cfg.HTTPWriteTimeout, err = getEnvDuration("VL_HTTP_WRITE_TIMEOUT", 30*time.Second); err != nil {
		return nil, fmt.Errorf("VL_HTTP_WRITE_TIMEOUT: %w", err)
	}
	if cfg.HTTPIdleTimeout, err = getEnvDuration("VL_HTTP_IDLE_TIMEOUT", 60*time.Second); err != nil {
		return nil, fmt.Errorf("VL_HTTP_IDLE_TIMEOUT: %w", err)
	}

	cfg.CORSAllowedOrigins = parseCSV(getEnvDefault("VL_CORS_ALLOWED_ORIGINS", "*"))

	// --- Хранилище ---

	cfg.StorageBackend = strings.ToLower(getEnvDefault("VL_STORAGE_BACKEND", BackendFile))
	switch cfg.StorageBackend {
	case BackendFile, BackendSQLite, BackendPostgres:
	default:
		return nil, fmt.Errorf("VL_STORAGE_BACKEND: недопустимое значение %q, допустимые: file, sqlite, postgres", cfg.StorageBackend)
	}

	// VL_TMP_STORAGE — писать во временный каталог. На Vercel и подобных
	// платформах запись разрешена только в /tmp, поэтому VERCEL включает флаг.
	useTmp, err := getEnvBool("VL_TMP_STORAGE", os.Getenv("VERCEL") != "")
	if err != nil {
		return nil, fmt.Errorf("VL_TMP_STORAGE: %w", err)
	}
	if useTmp {
		cfg.DataDir = os.TempDir()
	} else {
		cfg.DataDir = getEnvDefault("VL_DATA_DIR", ".")
	}

	cfg.DataFile = getEnvDefault("VL_DATA_FILE", "data.json")
	cfg.SQLiteFile = getEnvDefault("VL_SQLITE_FILE", "records.db")

	// --- PostgreSQL ---

	if cfg.StorageBackend == BackendPostgres {
		if cfg.DBHost, err = getEnvRequired("VL_DB_HOST"); err != nil {
			return nil, err
		}
		if cfg.DBName, err = getEnvRequired("VL_DB_NAME"); err != nil {
			return nil, err
		}
		if cfg.DBUser, err = getEnvRequired("VL_DB_USER"); err != nil {
			return nil, err
		}
		if cfg.DBPassword, err = getEnvRequired("VL_DB_PASSWORD"); err != nil {
			return nil, err
		}
	}

	cfg.DBPort, err = getEnvInt("VL_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("VL_DB_PORT: %w", err)
	}

	// Managed Postgres (Supabase и т.п.) принимает только TLS
	cfg.DBSSLMode = getEnvDefault("VL_DB_SSL_MODE", "require")
	validSSLModes := map[string]bool{
		"disable": true, "require": true, "verify-ca": true, "verify-full": true,
	}
	if !validSSLModes[cfg.DBSSLMode] {
		return nil, fmt.Errorf("VL_DB_SSL_MODE: недопустимое значение %q, допустимые: disable, require, verify-ca, verify-full", cfg.DBSSLMode)
	}

	// --- Администратор и сессии ---

	cfg.AdminUsername = getEnvDefault("VL_ADMIN_USERNAME", "admin")
	cfg.AdminPassword = getEnvDefault("VL_ADMIN_PASSWORD", "canurek3")

	if cfg.SessionTTL, err = getEnvDuration("VL_SESSION_TTL", 24*time.Hour); err != nil {
		return nil, fmt.Errorf("VL_SESSION_TTL: %w", err)
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("VL_SESSION_TTL: значение должно быть положительным")
	}

	cfg.SessionSecret = getEnvDefault("VL_SESSION_SECRET", "")

	if cfg.SessionSweepInterval, err = getEnvDuration("VL_SESSION_SWEEP_INTERVAL", 10*time.Minute); err != nil {
		return nil, fmt.Errorf("VL_SESSION_SWEEP_INTERVAL: %w", err)
	}
	if cfg.SessionSweepInterval <= 0 {
		return nil, fmt.Errorf("VL_SESSION_SWEEP_INTERVAL: значение должно быть положительным")
	}

	if cfg.RecordsAuth, err = getEnvBool("VL_RECORDS_AUTH", true); err != nil {
		return nil, fmt.Errorf("VL_RECORDS_AUTH: %w", err)
	}
	if cfg.TrustClientIP, err = getEnvBool("VL_TRUST_CLIENT_IP", true); err != nil {
		return nil, fmt.Errorf("VL_TRUST_CLIENT_IP: %w", err)
	}

	cfg.LoginMaxAttempts, err = getEnvInt("VL_LOGIN_MAX_ATTEMPTS", 5)
	if err != nil {
		return nil, fmt.Errorf("VL_LOGIN_MAX_ATTEMPTS: %w", err)
	}
	if cfg.LoginMaxAttempts < 1 {
		return nil, fmt.Errorf("VL_LOGIN_MAX_ATTEMPTS: значение %d должно быть >= 1", cfg.LoginMaxAttempts)
	}
	if cfg.LoginLockout, err = getEnvDuration("VL_LOGIN_LOCKOUT", 15*time.Minute); err != nil {
		return nil, fmt.Errorf("VL_LOGIN_LOCKOUT: %w", err)
	}
	if cfg.LoginLockout <= 0 {
		return nil, fmt.Errorf("VL_LOGIN_LOCKOUT: значение должно быть положительным")
	}

	// --- Мониторинг зависимостей ---

	cfg.DephealthGroup = getEnvDefault("VL_DEPHEALTH_GROUP", "visitor-log")
	if cfg.DephealthCheckInterval, err = getEnvDuration("VL_DEPHEALTH_CHECK_INTERVAL", 15*time.Second); err != nil {
		return nil, fmt.Errorf("VL_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}
	if cfg.DephealthCheckInterval <= 0 {
		return nil, fmt.Errorf("VL_DEPHEALTH_CHECK_INTERVAL: значение должно быть положительным")
	}

	// --- Graceful shutdown ---

	if cfg.ShutdownTimeout, err = getEnvDuration("VL_SHUTDOWN_TIMEOUT", 5*time.Second); err != nil {
		return nil, fmt.Errorf("VL_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// DataFilePath возвращает полный путь к JSON-файлу записей.
func (c *Config) DataFilePath() string {
	return filepath.Join(c.DataDir, c.DataFile)
}

// SQLitePath возвращает полный путь к файлу SQLite.
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, c.SQLiteFile)
}

// DatabaseDSN возвращает строку подключения к PostgreSQL.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode,
	)
}

// DatabaseURL возвращает URL PostgreSQL без пароля (для лейблов метрик и логов).
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%d/%s", c.DBHost, c.DBPort, c.DBName)
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	return setupLogger(cfg, os.Stdout)
}

func setupLogger(cfg *Config, w io.Writer) *slog.Logger {
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: cfg.LogLevel})
	} else {
		// text — цветной вывод для локальной разработки
		handler = tint.NewHandler(w, &tint.Options{
			Level:      cfg.LogLevel,
			TimeFormat: time.DateTime,
		})
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvBool возвращает булево значение переменной окружения или значение по умолчанию.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("некорректное булево значение: %q", val)
	}
	return b, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}

// parseCSV разбирает строку, разделённую запятыми, на срез строк.
// Пробелы вокруг элементов убираются, пустые элементы игнорируются.
func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
