package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ADMIN_EMAILS", "")
	t.Setenv("APP_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.AdminEmails)
	assert.Equal(t, "http://localhost:3000", cfg.AppURL)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadRejectsBadPort(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "not-a-number")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadParsesAdminEmails(t *testing.T) {
	setRequired(t)
	t.Setenv("ADMIN_EMAILS", "admin@x.com, ops@example.com ,,  ")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"admin@x.com", "ops@example.com"}, cfg.AdminEmails)
}

func TestLoadKeepsAdminEmailCase(t *testing.T) {
	setRequired(t)
	t.Setenv("ADMIN_EMAILS", "Admin@X.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"Admin@X.com"}, cfg.AdminEmails)
}
