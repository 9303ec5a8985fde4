package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alvinwquach/sculptql-sub000/internal/querystate"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	for _, name := range []string{
		"LISTEN_ADDR", "DATA_DRIVER", "SQL_DIALECT", "HISTORY_SWEEP_SPEC",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "HISTORY_RETENTION", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(name, "")
	}

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "duckdb", cfg.DataDriver)
	assert.Equal(t, "postgres", cfg.DialectName)
	assert.Equal(t, "@hourly", cfg.HistorySweepSpec)
	assert.Equal(t, 30*24*time.Hour, cfg.HistoryRetention)
	assert.InDelta(t, 100, cfg.RateLimitRPS, 1e-9)
	assert.Equal(t, 200, cfg.RateLimitBurst)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Empty(t, cfg.Warnings)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9090")
	t.Setenv("DATA_DRIVER", "sqlite3")
	t.Setenv("SQL_DIALECT", "mysql")
	t.Setenv("RATE_LIMIT_RPS", "5")
	t.Setenv("HISTORY_RETENTION", "72h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "sqlite3", cfg.DataDriver)
	assert.InDelta(t, 5, cfg.RateLimitRPS, 1e-9)
	assert.Equal(t, 72*time.Hour, cfg.HistoryRetention)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)

	d, err := cfg.Dialect()
	require.NoError(t, err)
	assert.Equal(t, querystate.MySQL, d)
}

func TestLoadFromEnv_InvalidDriver(t *testing.T) {
	t.Setenv("DATA_DRIVER", "oracle")
	_, err := LoadFromEnv()
	assert.Error(t, err)
}

func TestLoadFromEnv_InvalidDialect(t *testing.T) {
	t.Setenv("SQL_DIALECT", "mssql")
	_, err := LoadFromEnv()
	assert.Error(t, err)
}

func TestLoadFromEnv_InvalidNumbersWarnInsteadOfFailing(t *testing.T) {
	t.Setenv("RATE_LIMIT_RPS", "banana")
	t.Setenv("RATE_LIMIT_BURST", "-1")
	t.Setenv("HISTORY_RETENTION", "soon")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.InDelta(t, 100, cfg.RateLimitRPS, 1e-9, "invalid value keeps the default")
	assert.Equal(t, 200, cfg.RateLimitBurst)
	assert.Equal(t, 30*24*time.Hour, cfg.HistoryRetention)
	assert.Len(t, cfg.Warnings, 3)
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, (&Config{LogLevel: "debug"}).SlogLevel())
	assert.Equal(t, slog.LevelWarn, (&Config{LogLevel: "WARN"}).SlogLevel())
	assert.Equal(t, slog.LevelError, (&Config{LogLevel: "error"}).SlogLevel())
	assert.Equal(t, slog.LevelInfo, (&Config{}).SlogLevel())
}
