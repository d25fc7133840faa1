package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Environment   string
	DataPath      string
	SessionSecret string
	SessionTTL    time.Duration
	PageSize      int
}

// Defaults applied when the environment does not say otherwise.
const (
	defaultSessionTTL = 30 * 24 * time.Hour
	defaultPageSize   = 10
)

// Load loads configuration from environment variables, reading a .env file
// first when not in production. Missing values fall back to defaults; the
// database file's directory is created if needed.
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}
	if env != "production" {
		// In production we rely on real environment variables only.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Environment:   env,
		DataPath:      os.Getenv("EVENTBOOK_DB"),
		SessionSecret: os.Getenv("EVENTBOOK_SESSION_SECRET"),
		SessionTTL:    defaultSessionTTL,
		PageSize:      defaultPageSize,
	}

	if cfg.DataPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.DataPath = filepath.Join(home, ".eventbook", "eventbook.db")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.DataPath), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	if cfg.SessionSecret == "" {
		// Local single-user tool: the token guards against accidental
		// corruption of the session record, not against an attacker with
		// file access.
		cfg.SessionSecret = "eventbook-local-session"
	}

	if s := os.Getenv("EVENTBOOK_SESSION_TTL"); s != "" {
		ttl, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("invalid EVENTBOOK_SESSION_TTL %q: %w", s, err)
		}
		cfg.SessionTTL = ttl
	}

	return cfg, nil
}
