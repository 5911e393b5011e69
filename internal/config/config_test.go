package config_test

import (
	"testing"
	"time"

	"backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/app")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "")
	t.Setenv("SESSION_TTL_MINUTES", "")
	t.Setenv("ADMIN_PASSWORD", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "postgres://localhost/app", cfg.DatabaseURL)
	assert.Empty(t, cfg.AdminPassword)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/app")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "9001")
	t.Setenv("SESSION_TTL_MINUTES", "30")
	t.Setenv("ADMIN_PASSWORD", "bootstrap")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 9001, cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "bootstrap", cfg.AdminPassword)
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "secret")
	_, err := config.Load()
	assert.Error(t, err)

	t.Setenv("DATABASE_URL", "postgres://localhost/app")
	t.Setenv("JWT_SECRET", "")
	_, err = config.Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/app")
	t.Setenv("JWT_SECRET", "secret")

	t.Setenv("PORT", "not-a-port")
	_, err := config.Load()
	assert.Error(t, err)

	t.Setenv("PORT", "8080")
	t.Setenv("SESSION_TTL_MINUTES", "-5")
	_, err = config.Load()
	assert.Error(t, err)
}
