package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"SECRET", "HTTP_PORT", "DATABASE_DSN", "LOG_LEVEL", "LOG_DEV", "EXPORTED_BY", "APP_VERSION", "LOCK_FILE"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "dev_secret", cfg.Secret)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, defaultDSN, cfg.DatabaseDSN)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LogDev)
	assert.Equal(t, "PharmaStore", cfg.ExportedBy)
	assert.Equal(t, "1.0.0", cfg.AppVersion)
	assert.Equal(t, "pharmastore.lock", cfg.LockFile)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("EXPORTED_BY", "Branch Office")
	t.Setenv("LOG_DEV", "true")

	cfg := Load()

	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, "Branch Office", cfg.ExportedBy)
	assert.True(t, cfg.LogDev)
}

func TestLoadRejectsNonNumericPort(t *testing.T) {
	t.Setenv("HTTP_PORT", "eighty")

	cfg := Load()

	assert.Equal(t, "8080", cfg.HTTPPort)
}
