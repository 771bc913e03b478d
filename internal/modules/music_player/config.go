package music_player

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the music player module configuration.
type Config struct {
	LavalinkAddress  string `env:"LAVALINK_ADDRESS,notEmpty"`
	LavalinkPassword string `env:"LAVALINK_PASSWORD,notEmpty"`
	LavalinkSecure   bool   `env:"LAVALINK_SECURE" envDefault:"false"`

	// SearchPrefix is prepended to queries that are not URLs.
	SearchPrefix   string        `env:"SEARCH_PREFIX" envDefault:"dzsearch"`
	ResolveTimeout time.Duration `env:"RESOLVE_TIMEOUT" envDefault:"10s"`

	FallbackEnabled bool    `env:"FALLBACK_ENABLED" envDefault:"true"`
	FallbackRate    float64 `env:"FALLBACK_RATE" envDefault:"2"`
	FallbackBurst   int     `env:"FALLBACK_BURST" envDefault:"4"`

	// Zero keeps player.DefaultMailboxSize and infrastructure.DefaultEventBufferSize.
	MailboxSize     int `env:"MAILBOX_SIZE"`
	EventBufferSize int `env:"EVENT_BUFFER_SIZE"`
}

// LoadConfig parses the music player configuration from the environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.ResolveTimeout <= 0 {
		errs = append(errs, fmt.Errorf("RESOLVE_TIMEOUT must be positive, got %s", c.ResolveTimeout))
	}
	if c.FallbackEnabled && (c.FallbackRate <= 0 || c.FallbackBurst <= 0) {
		errs = append(errs, errors.New("FALLBACK_RATE and FALLBACK_BURST must be positive"))
	}
	if c.MailboxSize < 0 {
		errs = append(errs, fmt.Errorf("MAILBOX_SIZE must not be negative, got %d", c.MailboxSize))
	}
	if c.EventBufferSize < 0 {
		errs = append(errs, fmt.Errorf("EVENT_BUFFER_SIZE must not be negative, got %d", c.EventBufferSize))
	}
	return errors.Join(errs...)
}
