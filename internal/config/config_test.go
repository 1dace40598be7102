package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	cfg := NewConfig()

	assert.Equal(t, int32(8080), cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Empty(t, cfg.HTTP.TrustedProxies)
	assert.Equal(t, DatabaseDriverSQLite, cfg.Database.Driver)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, DefaultAdminPassword, cfg.Bootstrap.AdminPassword)
	assert.False(t, cfg.Bootstrap.RegistrationDisabled)
	assert.Equal(t, KeyStoragePlain, cfg.Auth.KeyStorage)
	assert.False(t, cfg.Auth.SelfMatchIgnoreCase)
	assert.Equal(t, 15*time.Minute, cfg.Auth.RateLimitWindow)
	assert.True(t, cfg.Audit.Enabled)
	assert.Equal(t, "0 3 * * *", cfg.Audit.CleanupSchedule)
}

func TestNewConfig_FromEnvironment(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("PORT", "7200")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1, 10.0.0.2,")
	t.Setenv("DATABASE_DRIVER", "Postgres")
	t.Setenv("ADMIN_PASSWORD", "s3cret")
	t.Setenv("REGISTRATION_DISABLED", "true")
	t.Setenv("AUTH_KEY_STORAGE", "BCRYPT")
	t.Setenv("AUTH_SELF_MATCH_IGNORE_CASE", "true")

	cfg := NewConfig()

	assert.Equal(t, int32(7200), cfg.HTTP.Port)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.HTTP.TrustedProxies)
	assert.Equal(t, DatabaseDriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "s3cret", cfg.Bootstrap.AdminPassword)
	assert.True(t, cfg.Bootstrap.RegistrationDisabled)
	assert.Equal(t, KeyStorageBcrypt, cfg.Auth.KeyStorage)
	assert.True(t, cfg.Auth.SelfMatchIgnoreCase)
}

func TestNewConfig_RegistrationDisabledNeedsLiteralTrue(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	tests := []struct {
		value    string
		expected bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", false},
		{"t", false},
		{"T", false},
		{"yes", false},
		{" true", false},
	}
	for _, tt := range tests {
		t.Run("value "+tt.value, func(t *testing.T) {
			t.Setenv("REGISTRATION_DISABLED", tt.value)
			assert.Equal(t, tt.expected, NewConfig().Bootstrap.RegistrationDisabled)
		})
	}
}

func TestNewConfig_LoadsEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("ADMIN_EMAIL=ops@example.com\n"), 0o600))
	t.Setenv("ENV_FILE", envFile)
	// godotenv does not override variables that are already set, so make
	// sure the key is absent and restored afterwards.
	t.Setenv("ADMIN_EMAIL", "")
	require.NoError(t, os.Unsetenv("ADMIN_EMAIL"))

	cfg := NewConfig()

	assert.Equal(t, "ops@example.com", cfg.Bootstrap.AdminEmail)
}
