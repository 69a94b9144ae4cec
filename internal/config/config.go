// Package config provides configuration management for the application
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration, loaded from environment
// variables.
type Config struct {
	Port         string `env:"PORT" envDefault:"8080"`
	TemplatesDir string `env:"TEMPLATES_DIR" envDefault:"./internal/web/templates"`

	// Departments is the selectable department list for the visit form. The
	// last entry doubles as the fallback for unknown values.
	Departments []string `env:"DEPARTMENTS" envDefault:"Sales,Marketing,Engineering,HR,Finance,Other"`

	// RateLimitPerSecond bounds per-client API request rates
	RateLimitPerSecond float64 `env:"RATE_LIMIT_PER_SECOND" envDefault:"10"`
	RateLimitBurst     int     `env:"RATE_LIMIT_BURST" envDefault:"20"`

	Redis RedisConfig `envPrefix:"REDIS_"`
}

// RedisConfig holds Redis/Valkey configuration for the optional Redis-backed
// repository.
type RedisConfig struct {
	Enabled bool `env:"ENABLED" envDefault:"false"`
	// URI is prioritized if provided, otherwise individual connection
	// parameters are used
	URI       string `env:"URI"`
	Host      string `env:"HOST" envDefault:"localhost"`
	Port      string `env:"PORT" envDefault:"6379"`
	Username  string `env:"USERNAME"`
	Password  string `env:"PASSWORD"`
	DB        int    `env:"DB" envDefault:"0"`
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"visitdesk:"`
	// VisitTTL bounds how long visit records live in Redis (0 means no
	// expiration)
	VisitTTL time.Duration `env:"VISIT_TTL" envDefault:"168h"`
}

// Load parses configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks configuration invariants that tags cannot express
func (c *Config) Validate() error {
	if len(c.Departments) == 0 {
		return fmt.Errorf("DEPARTMENTS must list at least one department")
	}
	if c.RateLimitPerSecond <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_SECOND must be positive, got %v", c.RateLimitPerSecond)
	}
	return nil
}

// DefaultDepartment returns the fallback department for unknown form values
func (c *Config) DefaultDepartment() string {
	return c.Departments[len(c.Departments)-1]
}
