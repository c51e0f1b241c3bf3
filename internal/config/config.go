package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// devSecret is the deterministic fallback signing secret used when JWT_SECRET
// is unset. It exists so a fresh checkout runs without setup; Load refuses it
// outright when APP_ENV=production.
const devSecret = "dev-secret"

const (
	defaultListenAddr = ":8080"
	defaultDBPath     = "timetrac.db"
	defaultTokenTTL   = 24 * time.Hour
)

// Config holds the immutable process configuration. It is constructed once at
// startup and passed by reference; request-handling code never reads env state.
type Config struct {
	ListenAddr   string        // HTTP listen address
	DatabasePath string        // sqlite database file, ":memory:" for tests
	JWTSecret    string        // HMAC signing secret
	TokenTTL     time.Duration // credential lifetime
	Env          string        // "development" or "production"
	DevSecret    bool          // true when the fallback secret is in use
}

// Load builds the configuration from the environment. A .env file in the
// working directory is merged in first when present (it never overrides
// variables already set in the environment).
func Load() (*Config, error) {
	// Missing .env is fine; only a malformed one is an error.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		ListenAddr:   envOr("LISTEN_ADDR", defaultListenAddr),
		DatabasePath: envOr("DATABASE_PATH", defaultDBPath),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		TokenTTL:     defaultTokenTTL,
		Env:          envOr("APP_ENV", "development"),
	}

	if h := os.Getenv("JWT_EXPIRES_HOURS"); h != "" {
		hours, err := strconv.Atoi(h)
		if err != nil || hours <= 0 {
			return nil, fmt.Errorf("invalid JWT_EXPIRES_HOURS %q", h)
		}
		cfg.TokenTTL = time.Duration(hours) * time.Hour
	}

	if cfg.JWTSecret == "" {
		if cfg.Env == "production" {
			return nil, fmt.Errorf("JWT_SECRET must be set when APP_ENV=production")
		}
		cfg.JWTSecret = devSecret
		cfg.DevSecret = true
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
