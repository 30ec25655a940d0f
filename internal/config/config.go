// Package config loads server configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds application configuration. REDIS_URL is optional: when empty
// the live-state mirror is disabled and rooms exist only in process memory.
type Config struct {
	Port     string `env:"PORT" envDefault:"3001"`
	RedisURL string `env:"REDIS_URL"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// RoundGrace is added to every planning deadline to tolerate last-moment
	// order delivery latency.
	RoundGrace time.Duration `env:"ROUND_GRACE" envDefault:"2s"`

	// ResolvePause is the gap between broadcasting a round result and
	// starting the next planning round, so clients can play the resolution
	// animation.
	ResolvePause time.Duration `env:"RESOLVE_PAUSE" envDefault:"3s"`
}

// Load parses configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}
	return cfg, nil
}
