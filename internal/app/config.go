package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Поддерживаемые бэкенды хранилища заказов.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// Config описывает настройки запуска приложения. Значения читаются из
// переменных окружения с префиксом ORDERLIFE_.
type Config struct {
	HTTPAddr       string
	MetricsAddr    string
	StorageBackend string
	PostgresDSN    string
	SweepInterval  time.Duration
}

// DefaultConfig возвращает базовые адреса и настройки.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:       ":8080",
		MetricsAddr:    ":9090",
		StorageBackend: BackendMemory,
		SweepInterval:  5 * time.Minute,
	}
}

// LoadConfig собирает конфигурацию из окружения поверх значений по умолчанию.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ORDERLIFE")
	v.AutomaticEnv()

	defaults := DefaultConfig()
	v.SetDefault("HTTP_ADDR", defaults.HTTPAddr)
	v.SetDefault("METRICS_ADDR", defaults.MetricsAddr)
	v.SetDefault("STORAGE_BACKEND", defaults.StorageBackend)
	v.SetDefault("POSTGRES_DSN", "")
	v.SetDefault("SWEEP_INTERVAL", defaults.SweepInterval.String())

	cfg := Config{
		HTTPAddr:       v.GetString("HTTP_ADDR"),
		MetricsAddr:    v.GetString("METRICS_ADDR"),
		StorageBackend: strings.ToLower(v.GetString("STORAGE_BACKEND")),
		PostgresDSN:    v.GetString("POSTGRES_DSN"),
		SweepInterval:  v.GetDuration("SWEEP_INTERVAL"),
	}
	return cfg, cfg.Validate()
}

// Validate проверяет согласованность конфигурации.
func (c Config) Validate() error {
	switch c.StorageBackend {
	case BackendMemory:
	case BackendPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("postgres backend requires ORDERLIFE_POSTGRES_DSN")
		}
	default:
		return fmt.Errorf("unknown storage backend %q (expected %s or %s)",
			c.StorageBackend, BackendMemory, BackendPostgres)
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("sweep interval must be positive, got %s", c.SweepInterval)
	}
	return nil
}
