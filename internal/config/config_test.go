package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("RECONCILE_INTERVAL_HOURS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "tracker.db", cfg.DatabaseURL)
	assert.Equal(t, 6*time.Hour, cfg.ReconcileInterval)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "/var/data/tracker.db")
	t.Setenv("RECONCILE_INTERVAL_HOURS", "12")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/var/data/tracker.db", cfg.DatabaseURL)
	assert.Equal(t, 12*time.Hour, cfg.ReconcileInterval)
}

func TestLoadDisabledReconciler(t *testing.T) {
	t.Setenv("RECONCILE_INTERVAL_HOURS", "0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.ReconcileInterval)
}

func TestLoadMalformedInterval(t *testing.T) {
	t.Setenv("RECONCILE_INTERVAL_HOURS", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.ReconcileInterval)
}
