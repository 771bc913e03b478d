package logging

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Format selects the log output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Config holds logging configuration loaded from environment variables.
type Config struct {
	Level  string `env:"LOG_LEVEL"  envDefault:"info"`
	Format Format `env:"LOG_FORMAT" envDefault:"json"`
}

// LoadConfig loads logging configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse logging config: %w", err)
	}
	if _, err := cfg.SlogLevel(); err != nil {
		return nil, err
	}
	switch cfg.Format {
	case FormatJSON, FormatText:
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
	return cfg, nil
}

// SlogLevel parses Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", c.Level)
	}
}
