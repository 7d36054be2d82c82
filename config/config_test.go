package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Env: EnvDev,
		GoogleConfig: GoogleConfig{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
		},
		JWTConfig: JWTConfig{
			SecretKey:        strings.Repeat("a", 32),
			RefreshSecretKey: strings.Repeat("b", 32),
		},
		StoreConfig: StoreConfig{Driver: StoreSQLite},
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "id")
	t.Setenv("STORE_DRIVER", " SQLite ")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "id", cfg.GoogleConfig.ClientID)
	assert.Equal(t, StoreSQLite, cfg.StoreConfig.Driver)
	assert.Equal(t, "https://oauth2.googleapis.com/token", cfg.GoogleConfig.ExchangeURL)
	assert.Equal(t, "https://www.googleapis.com/oauth2/v2/userinfo", cfg.GoogleConfig.UserInfoURL)
	assert.Equal(t, 10*time.Second, cfg.GoogleConfig.Timeout)
	assert.Equal(t, 15*time.Minute, cfg.JWTConfig.AccessTTL)
	assert.Equal(t, ":8080", cfg.GatewayAddr)
	assert.Equal(t, 100, cfg.RateLimitConfig.Limit)
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	t.Setenv("GOOGLE_HTTP_TIMEOUT", "soon")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidateAllSecrets(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing client id", mutate: func(c *Config) { c.GoogleConfig.ClientID = "" }, wantErr: "GOOGLE_CLIENT_ID"},
		{name: "missing client secret", mutate: func(c *Config) { c.GoogleConfig.ClientSecret = "" }, wantErr: "GOOGLE_CLIENT_SECRET"},
		{name: "short jwt secret", mutate: func(c *Config) { c.JWTConfig.SecretKey = "short" }, wantErr: "JWT_SECRET_KEY"},
		{name: "same secrets", mutate: func(c *Config) { c.JWTConfig.RefreshSecretKey = c.JWTConfig.SecretKey }, wantErr: "must differ"},
		{name: "postgres without url", mutate: func(c *Config) { c.StoreConfig.Driver = StorePostgres }, wantErr: "DATABASE_URL"},
		{name: "unknown driver", mutate: func(c *Config) { c.StoreConfig.Driver = "mongo" }, wantErr: "unknown STORE_DRIVER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.ValidateAllSecrets()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLogValue_RedactsSecrets(t *testing.T) {
	cfg := validConfig()

	out := cfg.LogValue().String()
	assert.NotContains(t, out, "client-secret")
	assert.NotContains(t, out, cfg.JWTConfig.SecretKey)
	assert.NotContains(t, out, cfg.GoogleConfig.ClientID)
	assert.Contains(t, out, "google_configured=true")
}
