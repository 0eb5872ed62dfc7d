// Package config loads runtime settings from the environment. A `.env` file
// in the working directory is read first, if present.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds server and terminal client settings.
type Config struct {
	Port     string `env:"PORT"      envDefault:"5175"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`

	// Catalog source: CATALOG_DB wins over CATALOG_FILE; neither means the embedded catalog.
	CatalogFile string `env:"CATALOG_FILE"`
	CatalogDB   string `env:"CATALOG_DB"`

	HintBudget int      `env:"HINT_BUDGET" envDefault:"3"`
	HintOrder  []string `env:"HINT_ORDER"  envSeparator:","`

	JWTSecret    string `env:"JWT_SECRET"    envDefault:"dev_secret_change_me"`
	CookieName   string `env:"COOKIE_NAME"   envDefault:"pokedetective_session"`
	ClientOrigin string `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	DailySalt    string `env:"DAILY_SALT"    envDefault:"local_dev_salt"`
	Environment  string `env:"NODE_ENV"      envDefault:"development"`
}

// Load reads `.env` (ignored when missing) and parses the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads the process environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	for i, name := range cfg.HintOrder {
		cfg.HintOrder[i] = strings.TrimSpace(name)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	if c.HintBudget < 0 {
		return fmt.Errorf("HINT_BUDGET must be >= 0, got %d", c.HintBudget)
	}
	if strings.TrimSpace(c.Port) == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.Production() && c.JWTSecret == "dev_secret_change_me" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	return nil
}

// Production reports whether cookies must be Secure/SameSite=None.
func (c *Config) Production() bool { return c.Environment == "production" }
