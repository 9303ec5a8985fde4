// Package config handles application configuration and environment loading.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alvinwquach/sculptql-sub000/internal/querystate"
)

// Config holds the configuration for the HTTP API, the data connection the
// builder introspects and executes against, and the history metastore.
type Config struct {
	ListenAddr string // HTTP listen address (default ":8080")

	// Data connection: the database queries run against and whose schema
	// feeds the builder's catalog.
	DataDriver string // "duckdb" or "sqlite3" (default "duckdb")
	DataDSN    string // DSN for the data connection ("" = in-memory)

	DialectName string // SQL dialect for the sync engine (default "postgres")

	HistoryDBPath    string        // path to the SQLite history metastore ("" disables history)
	HistoryRetention time.Duration // drop history entries older than this (default 30d)
	HistorySweepSpec string        // cron spec for the retention sweep (default hourly)

	LogLevel  string // debug, info, warn, error (default "info")
	JWTSecret string // HS256 shared secret; empty disables auth

	RateLimitRPS   float64 // sustained requests per second (default 100)
	RateLimitBurst int     // burst capacity (default 200)

	CORSAllowedOrigins []string // allowed origins for CORS (default: ["*"])

	// Warnings collects non-fatal problems found during loading. They are
	// logged by the caller once the logger exists.
	Warnings []string
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Dialect resolves the configured dialect name.
func (c *Config) Dialect() (querystate.Dialect, error) {
	return querystate.ParseDialect(strings.ToLower(c.DialectName))
}

// LoadFromEnv loads configuration from environment variables, applying
// defaults and collecting warnings for values it had to ignore.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		ListenAddr:       os.Getenv("LISTEN_ADDR"),
		DataDriver:       os.Getenv("DATA_DRIVER"),
		DataDSN:          os.Getenv("DATA_DSN"),
		DialectName:      os.Getenv("SQL_DIALECT"),
		HistoryDBPath:    os.Getenv("HISTORY_DB_PATH"),
		HistorySweepSpec: os.Getenv("HISTORY_SWEEP_SPEC"),
		LogLevel:         os.Getenv("LOG_LEVEL"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		RateLimitRPS:     100,
		RateLimitBurst:   200,
		HistoryRetention: 30 * 24 * time.Hour,
	}

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.DataDriver == "" {
		cfg.DataDriver = "duckdb"
	}
	switch cfg.DataDriver {
	case "duckdb", "sqlite3":
	default:
		return nil, fmt.Errorf("unsupported DATA_DRIVER %q", cfg.DataDriver)
	}
	if cfg.DialectName == "" {
		cfg.DialectName = "postgres"
	}
	if _, err := cfg.Dialect(); err != nil {
		return nil, fmt.Errorf("SQL_DIALECT: %w", err)
	}
	if cfg.HistorySweepSpec == "" {
		cfg.HistorySweepSpec = "@hourly"
	}

	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("ignoring invalid RATE_LIMIT_RPS %q", v))
		} else {
			cfg.RateLimitRPS = f
		}
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("ignoring invalid RATE_LIMIT_BURST %q", v))
		} else {
			cfg.RateLimitBurst = n
		}
	}
	if v := os.Getenv("HISTORY_RETENTION"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("ignoring invalid HISTORY_RETENTION %q", v))
		} else {
			cfg.HistoryRetention = d
		}
	}

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
			}
		}
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}

	return cfg, nil
}
