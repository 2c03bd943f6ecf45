package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CAISSE_DB_PATH", filepath.Join(t.TempDir(), "caisse.db"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("CAISSE_DB_PATH", filepath.Join(t.TempDir(), "caisse.db"))
	t.Setenv("CAISSE_ENV", "production")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("CAISSE_JWT_SECRET", "super-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "super-secret", cfg.JWTSecret)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CAISSE_DB_PATH", filepath.Join(t.TempDir(), "caisse.db"))
	t.Setenv("CAISSE_HTTP_PORT", "9090")
	t.Setenv("CAISSE_ADMIN_CODE", "4242")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, "4242", cfg.AdminAccessCode)
}
