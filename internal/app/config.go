package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/vladislavdragonenkov/elmorders/internal/filter"
)

const (
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"

	LogFormatText = "text"
	LogFormatJSON = "json"

	envPrefix = "OMS"
)

// Config описывает настройки запуска приложения.
type Config struct {
	HTTPAddr    string
	MetricsAddr string

	StorageDriver       string
	PostgresDSN         string
	PostgresAutoMigrate bool

	// MemorySeedUsers — учётные записи "username:password:ROLE|ROLE",
	// которые создаются при старте in-memory хранилища.
	MemorySeedUsers []string

	// FilterRedact — поля заказа, которые скрываются в ответах.
	FilterRedact []string

	LogLevel  string
	LogFormat string

	HealthCheckTimeout time.Duration
	ShutdownTimeout    time.Duration
}

// DefaultConfig возвращает конфигурацию для локального запуска без внешних зависимостей.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:            ":8080",
		MetricsAddr:         ":9090",
		StorageDriver:       StorageDriverMemory,
		PostgresAutoMigrate: true,
		FilterRedact:        append([]string(nil), filter.DefaultFields...),
		LogLevel:            "info",
		LogFormat:           LogFormatText,
		HealthCheckTimeout:  2 * time.Second,
		ShutdownTimeout:     5 * time.Second,
	}
}

// LoadConfig читает конфигурацию: значения по умолчанию, затем файл
// (если path задан или рядом лежит config.yaml), затем переменные OMS_*.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		HTTPAddr:            v.GetString("http.addr"),
		MetricsAddr:         v.GetString("metrics.addr"),
		StorageDriver:       strings.ToLower(strings.TrimSpace(v.GetString("storage.driver"))),
		PostgresDSN:         strings.TrimSpace(v.GetString("postgres.dsn")),
		PostgresAutoMigrate: v.GetBool("postgres.auto_migrate"),
		MemorySeedUsers:     splitList(v.GetStringSlice("memory.seed_users")),
		FilterRedact:        splitList(v.GetStringSlice("order.filter.redact")),
		LogLevel:            v.GetString("log.level"),
		LogFormat:           strings.ToLower(v.GetString("log.format")),
		HealthCheckTimeout:  v.GetDuration("health.check_timeout"),
		ShutdownTimeout:     v.GetDuration("shutdown.timeout"),
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("http.addr", cfg.HTTPAddr)
	v.SetDefault("metrics.addr", cfg.MetricsAddr)
	v.SetDefault("storage.driver", cfg.StorageDriver)
	v.SetDefault("postgres.dsn", cfg.PostgresDSN)
	v.SetDefault("postgres.auto_migrate", cfg.PostgresAutoMigrate)
	v.SetDefault("memory.seed_users", cfg.MemorySeedUsers)
	v.SetDefault("order.filter.redact", cfg.FilterRedact)
	v.SetDefault("log.level", cfg.LogLevel)
	v.SetDefault("log.format", cfg.LogFormat)
	v.SetDefault("health.check_timeout", cfg.HealthCheckTimeout)
	v.SetDefault("shutdown.timeout", cfg.ShutdownTimeout)
}

// splitList принимает как YAML-список, так и строку "a,b" из окружения.
// Пустой результат равен nil.
func splitList(items []string) []string {
	var out []string
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate проверяет согласованность настроек.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.HTTPAddr) == "" {
		errs = append(errs, errors.New("http.addr is required"))
	}
	if strings.TrimSpace(c.MetricsAddr) == "" {
		errs = append(errs, errors.New("metrics.addr is required"))
	}

	switch c.StorageDriver {
	case StorageDriverMemory:
		for _, entry := range c.MemorySeedUsers {
			if _, err := parseSeedUser(entry); err != nil {
				errs = append(errs, fmt.Errorf("memory.seed_users: %w", err))
			}
		}
	case StorageDriverPostgres:
		if c.PostgresDSN == "" {
			errs = append(errs, errors.New("postgres.dsn is required for postgres storage"))
		}
		if len(c.MemorySeedUsers) > 0 {
			errs = append(errs, errors.New("memory.seed_users is only supported by memory storage, use cmd/useradd for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported storage driver: %q", c.StorageDriver))
	}

	if _, err := filter.NewPolicy(c.FilterRedact); err != nil {
		errs = append(errs, fmt.Errorf("order.filter.redact: %w", err))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.LogFormat != LogFormatText && c.LogFormat != LogFormatJSON {
		errs = append(errs, fmt.Errorf("log.format must be %q or %q, got %q", LogFormatText, LogFormatJSON, c.LogFormat))
	}
	if c.HealthCheckTimeout <= 0 {
		errs = append(errs, errors.New("health.check_timeout must be positive"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("shutdown.timeout must be positive"))
	}

	return errors.Join(errs...)
}

// NewLogger настраивает logrus по конфигурации.
func NewLogger(c Config) (*log.Logger, error) {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	logger := log.New()
	logger.SetLevel(level)
	if c.LogFormat == LogFormatJSON {
		logger.SetFormatter(&log.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return logger, nil
}
