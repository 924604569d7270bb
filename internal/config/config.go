package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds server configuration, loaded from the environment.
type Config struct {
	// Port is the listen port for the HTTP server (REST + Socket.IO).
	Port int `envconfig:"PORT" default:"5000"`
	// DatabasePath is the sqlite database file.
	DatabasePath string `envconfig:"DATABASE_PATH" default:"./parley.db"`
	// MasterSecret seeds the token signing key. Required.
	MasterSecret string `envconfig:"PARLEY_MASTER_SECRET"`
	// ClientURL is the allowed CORS origin for the web client.
	ClientURL string `envconfig:"CLIENT_URL" default:"http://localhost:3000"`
	Debug     bool   `envconfig:"DEBUG" default:"false"`
}

// Overrides optionally replaces values loaded from the environment.
//
// A nil pointer means "use the environment/default value".
type Overrides struct {
	Port         *int
	DatabasePath *string
	MasterSecret *string
}

// Load reads configuration from a .env file (if present) and the environment,
// then applies explicit overrides.
func Load(overrides Overrides) (*Config, error) {
	// Missing .env is fine; the environment is authoritative.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if overrides.Port != nil {
		cfg.Port = *overrides.Port
	}
	if overrides.DatabasePath != nil {
		cfg.DatabasePath = *overrides.DatabasePath
	}
	if overrides.MasterSecret != nil {
		cfg.MasterSecret = *overrides.MasterSecret
	}

	if cfg.MasterSecret == "" {
		return nil, fmt.Errorf("PARLEY_MASTER_SECRET environment variable is required")
	}

	return &cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
