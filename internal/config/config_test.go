package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, BackendLibSQL, cfg.StoreBackend)
	assert.Equal(t, "resultats", cfg.StoreKey)
	assert.Equal(t, "data/bracket.db", cfg.DBPath)
	assert.Zero(t, cfg.WriteRatePerSec)
	assert.False(t, cfg.EditingEnabled())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example/")
	t.Setenv("EDIT_KEY", "s3cret")
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("WRITE_RATE_PER_SEC", "2.5")
	t.Setenv("WRITE_BURST", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, []string{"https://a.example", "https://b.example/"}, cfg.AllowedOrigins)
	assert.Equal(t, BackendRedis, cfg.StoreBackend)
	assert.Equal(t, 2.5, cfg.WriteRatePerSec)
	assert.Equal(t, 10, cfg.WriteBurst)
	assert.True(t, cfg.EditingEnabled())
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{StoreBackend: BackendMemory, StoreKey: "resultats", WriteBurst: 5}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"memory ok", func(c *Config) {}, ""},
		{"unknown backend", func(c *Config) { c.StoreBackend = "mongo" }, "invalid STORE_BACKEND"},
		{"empty key", func(c *Config) { c.StoreKey = "" }, "STORE_KEY"},
		{"redis without url", func(c *Config) { c.StoreBackend = BackendRedis }, "REDIS_URL"},
		{"postgres without url", func(c *Config) { c.StoreBackend = BackendPostgres }, "DATABASE_URL"},
		{"file without dir", func(c *Config) { c.StoreBackend = BackendFile }, "DATA_DIR"},
		{"libsql without path", func(c *Config) { c.StoreBackend = BackendLibSQL }, "DB_PATH"},
		{"negative rate", func(c *Config) { c.WriteRatePerSec = -1 }, "WRITE_RATE_PER_SEC"},
		{"rate without burst", func(c *Config) { c.WriteRatePerSec = 1; c.WriteBurst = 0 }, "WRITE_BURST"},
		{"watch without path", func(c *Config) { c.WatchLevels = true }, "LEVELS_PATH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadRejectsBadBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "postgres")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}
