package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesEnvironmentOverDefaults(t *testing.T) {
	t.Setenv("BRIGHTSCOPE_APP_PORT", "9090")
	t.Setenv("BRIGHTSCOPE_DATABASE_URL", "postgres://u:p@db:5432/brightscope?sslmode=disable")
	t.Setenv("BRIGHTSCOPE_AUTH_ACCESS_TOKEN_MINUTES", "15")
	t.Setenv("BRIGHTSCOPE_PAYTABS_SERVER_KEY", "server-key")
	t.Setenv("BRIGHTSCOPE_BOOKING_LIST_REQUIRES_AUTH", "true")
	t.Setenv("BRIGHTSCOPE_CORS_ALLOWED_ORIGINS", "https://brightscope.ae, https://www.brightscope.ae")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.True(t, cfg.Database.IsPostgres())
	assert.Equal(t, 15, cfg.Auth.AccessTokenMinutes)
	assert.Equal(t, 7, cfg.Auth.RefreshTokenDays)
	assert.Equal(t, "server-key", cfg.PayTabs.ServerKey)
	assert.Equal(t, "https://secure.paytabs.com", cfg.PayTabs.BaseURL)
	assert.True(t, cfg.Booking.ListRequiresAuth)
	assert.Equal(t, []string{"https://brightscope.ae", "https://www.brightscope.ae"}, cfg.CORS.Origins())
}

func TestValidateRejectsUnknownEmailProvider(t *testing.T) {
	cfg := Default()
	cfg.Email.Provider = "carrier-pigeon"
	assert.Error(t, Validate(cfg))
}

func TestValidateResendNeedsKey(t *testing.T) {
	cfg := Default()
	cfg.Email.Provider = "resend"
	assert.Error(t, Validate(cfg))

	cfg.Email.ResendAPIKey = "re_123"
	assert.NoError(t, Validate(cfg))
}

func TestValidateSecrets(t *testing.T) {
	cfg := Default()
	assert.Error(t, ValidateSecrets(cfg))

	cfg.Auth.SecretKey = "short"
	assert.Error(t, ValidateSecrets(cfg))

	cfg.Auth.SecretKey = "0123456789abcdef0123456789abcdef"
	assert.NoError(t, ValidateSecrets(cfg))
}

func TestSQLitePath(t *testing.T) {
	db := DatabaseConfig{URL: "sqlite:///./brightscope.db"}
	assert.False(t, db.IsPostgres())
	assert.Equal(t, "./brightscope.db", db.GetSQLitePath())
}
