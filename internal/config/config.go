// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all sync-core configuration loaded from environment variables.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	API      APIConfig
	Sync     SyncConfig
	Log      LogConfig
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"diiwaan-sync"`
	Environment string `envconfig:"APP_ENV" default:"development"`
}

// DatabaseConfig holds local SQLite settings.
type DatabaseConfig struct {
	Dir  string `envconfig:"DIIWAAN_DATA_DIR" default:"./data"`
	File string `envconfig:"DIIWAAN_DB_FILE" default:"diiwaan.db"`
}

// APIConfig holds remote REST API settings.
type APIConfig struct {
	BaseURL string        `envconfig:"DIIWAAN_API_BASE_URL" default:"https://api.diiwaan.app"`
	Timeout time.Duration `envconfig:"DIIWAAN_API_TIMEOUT" default:"30s"`
}

// SyncConfig holds reconciliation and outbox tuning.
type SyncConfig struct {
	CustomerPageSize int           `envconfig:"SYNC_CUSTOMER_PAGE_SIZE" default:"100"`
	SummaryLimit     int           `envconfig:"SYNC_SUMMARY_LIMIT" default:"200"`
	PruneMaxAgeDays  int           `envconfig:"SYNC_PRUNE_MAX_AGE_DAYS" default:"7"`
	Interval         time.Duration `envconfig:"SYNC_INTERVAL" default:"15m"`
	PassTimeout      time.Duration `envconfig:"SYNC_PASS_TIMEOUT" default:"5m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"console"`
}

// IsDevelopment returns true if running in development mode.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
