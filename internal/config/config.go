package config

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/caarlos0/env/v11"
)

// Storage backends selectable through STORE_BACKEND.
const (
	BackendLibSQL   = "libsql"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

var ValidBackends = []string{BackendLibSQL, BackendFile, BackendRedis, BackendPostgres, BackendMemory}

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	EditKey        string   `env:"EDIT_KEY"`
	EditKeyHash    string   `env:"EDIT_KEY_HASH"`

	StoreBackend   string `env:"STORE_BACKEND" envDefault:"libsql"`
	StoreKey       string `env:"STORE_KEY" envDefault:"resultats"`
	StoreNamespace string `env:"STORE_NAMESPACE" envDefault:"bracket"`
	DBPath         string `env:"DB_PATH" envDefault:"data/bracket.db"`
	DataDir        string `env:"DATA_DIR" envDefault:"data"`
	RedisURL       string `env:"REDIS_URL"`
	DatabaseURL    string `env:"DATABASE_URL"`

	LevelsPath  string `env:"LEVELS_PATH"`
	WatchLevels bool   `env:"WATCH_LEVELS" envDefault:"false"`
	StaticDir   string `env:"STATIC_DIR"`

	WriteRatePerSec float64 `env:"WRITE_RATE_PER_SEC" envDefault:"0"`
	WriteBurst      int     `env:"WRITE_BURST" envDefault:"5"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the selected backend has what it needs to open.
func (c *Config) Validate() error {
	if !slices.Contains(ValidBackends, c.StoreBackend) {
		return fmt.Errorf("invalid STORE_BACKEND %q (valid: %v)", c.StoreBackend, ValidBackends)
	}
	if c.StoreKey == "" {
		return fmt.Errorf("STORE_KEY must not be empty")
	}

	switch c.StoreBackend {
	case BackendLibSQL:
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH required for the %s backend", c.StoreBackend)
		}
	case BackendFile:
		if c.DataDir == "" {
			return fmt.Errorf("DATA_DIR required for the %s backend", c.StoreBackend)
		}
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL required for the %s backend", c.StoreBackend)
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL required for the %s backend", c.StoreBackend)
		}
	}

	if c.WriteRatePerSec < 0 {
		return fmt.Errorf("WRITE_RATE_PER_SEC must not be negative")
	}
	if c.WriteRatePerSec > 0 && c.WriteBurst < 1 {
		return fmt.Errorf("WRITE_BURST must be at least 1 when rate limiting is on")
	}
	if c.WatchLevels && c.LevelsPath == "" {
		return fmt.Errorf("WATCH_LEVELS requires LEVELS_PATH")
	}
	return nil
}

// EditingEnabled reports whether any edit key is configured. Without one
// every write is rejected.
func (c *Config) EditingEnabled() bool {
	return c.EditKey != "" || c.EditKeyHash != ""
}
