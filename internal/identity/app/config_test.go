package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()

	require.Equal(t, "ridesafe-identity", cfg.Issuer)
	require.Equal(t, "identity.db", cfg.DatabaseFile)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 5*time.Second, cfg.StoreTimeout)
	require.Equal(t, time.Hour, cfg.HousekeepingInterval)
	require.Contains(t, cfg.AllowedEmailDomains, "gmail.com")
	require.NotContains(t, cfg.AllowedEmailDomains, "evil-domain.test")
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("IDENTITY_ALLOWED_EMAIL_DOMAINS", " ridesafe.io, @example.com ,,")
	t.Setenv("IDENTITY_SESSION_TTL", "2h")
	t.Setenv("HOUSEKEEPING_INTERVAL", "15")
	t.Setenv("PORT", "not-a-port")

	cfg := LoadConfig()

	require.Equal(t, []string{"ridesafe.io", "@example.com"}, cfg.AllowedEmailDomains)
	require.Equal(t, 2*time.Hour, cfg.SessionTTL)
	require.Equal(t, 15*time.Minute, cfg.HousekeepingInterval)
	require.Equal(t, 8080, cfg.Port)
}

func TestConfig_Validate(t *testing.T) {
	cfg := LoadConfig()
	cfg.Env = "prod"
	require.ErrorContains(t, cfg.Validate(), "IDENTITY_JWT_SECRET is required")

	cfg.JWTSecret = "too-short"
	require.ErrorContains(t, cfg.Validate(), "at least 32 bytes")

	cfg.JWTSecret = "0123456789abcdef0123456789abcdef"
	cfg.ResendAPIKey = "re_123"
	require.ErrorContains(t, cfg.Validate(), "IDENTITY_MAIL_FROM")

	cfg.MailFrom = "RideSafe <no-reply@ridesafe.io>"
	require.NoError(t, cfg.Validate())
}

func TestConfig_ValidateRequiresEmailDomains(t *testing.T) {
	cfg := LoadConfig()
	cfg.JWTSecret = "0123456789abcdef0123456789abcdef"
	cfg.AllowedEmailDomains = nil

	cfg.Env = "prod"
	require.ErrorContains(t, cfg.Validate(), "IDENTITY_ALLOWED_EMAIL_DOMAINS")

	cfg.Env = "dev"
	require.NoError(t, cfg.Validate())
}
