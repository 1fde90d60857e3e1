package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("RETRY_ATTEMPTS", "")
	t.Setenv("TIMEZONE", "")

	cfg := Load()
	require.Equal(t, "3000", cfg.Port)
	require.Equal(t, 24*time.Hour, cfg.SessionTTL)
	require.Equal(t, 3, cfg.RetryAttempts)
	require.Equal(t, "America/Lima", cfg.Timezone)
	require.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_TTL", "15m")
	t.Setenv("FETCH_LIMIT", "250")
	t.Setenv("APP_ENV", "production")

	cfg := Load()
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, 15*time.Minute, cfg.CacheTTL)
	require.Equal(t, 250, cfg.FetchLimit)
	require.True(t, cfg.IsProduction())
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("RETRY_ATTEMPTS", "many")
	t.Setenv("HTTP_TIMEOUT", "soon")

	cfg := Load()
	require.Equal(t, 3, cfg.RetryAttempts)
	require.Equal(t, 30*time.Second, cfg.HTTPTimeout)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Load()
	cfg.RetryAttempts = 0
	require.ErrorContains(t, cfg.Validate(), "RetryAttempts")

	cfg = Load()
	cfg.Timezone = "Mars/Olympus"
	require.ErrorContains(t, cfg.Validate(), "Timezone")

	cfg = Load()
	cfg.NocoDBURL = "not a url"
	require.ErrorContains(t, cfg.Validate(), "NocoDBURL")
}

func TestNocoDBConfigured(t *testing.T) {
	cfg := &Config{NocoDBURL: "https://noco.example.com/api/v2/tables/x/records"}
	require.False(t, cfg.NocoDBConfigured())
	cfg.NocoDBToken = "tok"
	require.True(t, cfg.NocoDBConfigured())
}

func TestLocationFallsBackToLocal(t *testing.T) {
	cfg := &Config{Timezone: "Nowhere/Special"}
	require.Equal(t, time.Local, cfg.Location())

	cfg.Timezone = "UTC"
	require.Equal(t, "UTC", cfg.Location().String())
}

func TestLoadAcceptsLegacyNames(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("NODE_ENV", "production")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("JWT_SECRET", "legacy-secret")

	cfg := Load()
	require.True(t, cfg.IsProduction())
	require.Equal(t, "legacy-secret", cfg.SessionSecret)
}
