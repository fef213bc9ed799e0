// Package config reads the site server settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the server settings. A .env file is loaded into the
// environment before parsing.
type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	GinMode string `env:"GIN_MODE"`

	// ContentPath overrides the embedded site content when set.
	ContentPath string `env:"PORTFOLIO_CONTENT"`
	StaticDir   string `env:"PORTFOLIO_STATIC_DIR" envDefault:"./static"`
	ImagesDir   string `env:"PORTFOLIO_IMAGES_DIR" envDefault:"./images"`
	// WASM serves the client engine from StaticDir/app.wasm.
	WASM bool `env:"PORTFOLIO_WASM" envDefault:"true"`

	VisitsDB       string        `env:"PORTFOLIO_VISITS_DB" envDefault:"portfolio.db"`
	TrackVisits    bool          `env:"PORTFOLIO_TRACK_VISITS" envDefault:"true"`
	VisitRetention time.Duration `env:"PORTFOLIO_VISIT_RETENTION" envDefault:"8760h"`

	AdminUsername string `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"admin123"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses a Config from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Addr is the listen address for Port.
func (c Config) Addr() string { return ":" + c.Port }

// DefaultCredentials reports whether the admin login still uses the
// development defaults.
func (c Config) DefaultCredentials() bool {
	return c.AdminUsername == "admin" || c.AdminPassword == "admin123"
}
