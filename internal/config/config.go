package config

import (
	"fmt"
	"os"
)

// Config holds everything the process reads from the environment. The
// database location is always supplied out-of-band, never hardcoded.
type Config struct {
	DatabaseDriver string
	DatabaseURL    string
	CookieSecret   string
}

func Load() (*Config, error) {
	cfg := &Config{
		DatabaseDriver: os.Getenv("DATABASE_DRIVER"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		CookieSecret:   os.Getenv("COOKIE_SECRET"),
	}

	if cfg.DatabaseDriver == "" {
		cfg.DatabaseDriver = "postgres"
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	return cfg, nil
}
