package config

import (
	"os"
	"strings"
	"time"
)

// Config keeps runtime settings for the tracker.
type Config struct {
	DatabaseURL       string
	ReconcileInterval time.Duration
}

// Load reads configuration from environment variables with sane defaults.
// RECONCILE_INTERVAL_HOURS=0 disables the background progress reconciler.
func Load() (Config, error) {
	cfg := Config{
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "tracker.db"
	}

	raw := strings.TrimSpace(os.Getenv("RECONCILE_INTERVAL_HOURS"))
	if raw == "" {
		cfg.ReconcileInterval = 6 * time.Hour
	} else {
		cfg.ReconcileInterval = parseInterval(raw)
	}

	return cfg, nil
}

func parseInterval(raw string) time.Duration {
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours < 0 {
		return 0
	}
	return hours
}
