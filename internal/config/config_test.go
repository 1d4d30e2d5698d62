package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, MinSessionTokenBytes, cfg.Auth.SessionTokenBytes)
	assert.Equal(t, 10, cfg.RateLimit.VerifyAttempts)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, "invoices", cfg.Supabase.InvoiceBucket)
	assert.False(t, cfg.Database.AutoMigrate)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("SESSION_TOKEN_BYTES", "64")
	t.Setenv("RATE_LIMIT_VERIFY_ATTEMPTS", "3")
	t.Setenv("DB_AUTO_MIGRATE", "true")
	t.Setenv("SERVER_ENV", "production")
	t.Setenv("SUPABASE_STORAGE_ENDPOINT", "https://project.supabase.co/storage/v1/s3")
	t.Setenv("SUPABASE_ACCESS_KEY_ID", "key")
	t.Setenv("SUPABASE_SECRET_ACCESS_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, 64, cfg.Auth.SessionTokenBytes)
	assert.Equal(t, 3, cfg.RateLimit.VerifyAttempts)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.StorageEnabled())
}

func TestSessionTokenBytesIsClamped(t *testing.T) {
	t.Setenv("SESSION_TOKEN_BYTES", "16")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, MinSessionTokenBytes, cfg.Auth.SessionTokenBytes)
}

func TestInvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("SESSION_TTL", "tomorrow")
	t.Setenv("RATE_LIMIT_VERIFY_ATTEMPTS", "many")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, 10, cfg.RateLimit.VerifyAttempts)
}

func TestTrustedProxies(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Server.TrustedProxies)

	t.Setenv("TRUSTED_PROXIES", " 10.0.0.0/8, ,192.168.1.10")
	t.Setenv("TRUSTED_PLATFORM", "CF-Connecting-IP")

	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.10"}, cfg.Server.TrustedProxies)
	assert.Equal(t, "CF-Connecting-IP", cfg.Server.TrustedPlatform)
}
