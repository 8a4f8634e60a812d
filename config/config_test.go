package config_test

import (
	"testing"
	"time"

	"github.com/nippoapp/nippo/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseConfigValidate(t *testing.T) {
	cfg := &config.BaseConfig{
		Auth:        config.Auth{SigningKey: "secret"},
		Persistence: config.Persistence{DSN: "file:nippo.db"},
	}
	require.NoError(t, cfg.Validate())

	t.Run("requires a signing key", func(t *testing.T) {
		broken := &config.BaseConfig{
			Persistence: config.Persistence{DSN: "file:nippo.db"},
		}
		assert.ErrorContains(t, broken.Validate(), "auth.signing_key")
	})

	t.Run("requires a dsn", func(t *testing.T) {
		broken := &config.BaseConfig{
			Auth: config.Auth{SigningKey: "secret"},
		}
		assert.ErrorContains(t, broken.Validate(), "persistence.dsn")
	})
}

func TestConfigDefaults(t *testing.T) {
	cfg := &config.BaseConfig{}

	assert.Equal(t, ":8787", cfg.GetServer().GetAddr())
	assert.Equal(t, "session", cfg.GetAuth().GetContextKey())
	assert.Equal(t, "auth_token", cfg.GetAuth().GetCookieName())
	assert.Equal(t, 168, cfg.GetAuth().GetTokenExpiration())
	assert.Equal(t, "sqlite", cfg.GetPersistence().GetDriver())
	assert.Equal(t, 5*time.Second, cfg.GetPersistence().GetPingTimeout())
}

func TestConfigOverrides(t *testing.T) {
	cfg := &config.BaseConfig{
		Server: config.Server{Addr: ":3000"},
		Auth: config.Auth{
			CookieName:           "nippo_session",
			TokenExpirationHours: 24,
		},
		Persistence: config.Persistence{PingTimeoutExpression: "30s"},
	}

	assert.Equal(t, ":3000", cfg.GetServer().GetAddr())
	assert.Equal(t, "nippo_session", cfg.GetAuth().GetCookieName())
	assert.Equal(t, 24, cfg.GetAuth().GetTokenExpiration())
	assert.Equal(t, 30*time.Second, cfg.GetPersistence().GetPingTimeout())
}
