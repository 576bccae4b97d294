package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", " secret ")

	cfg := LoadConfig()

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.False(t, cfg.Auth.CookieSecure)
	assert.Equal(t, StorageBackendNone, cfg.Storage.Backend)
	assert.Equal(t, MQBackendNone, cfg.MQ.Backend)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("TOKEN_TTL", "0")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("DB_USE_SSL", "yes-please")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("MEDIA_BASE_URL", "https://cdn.example/")

	cfg := LoadConfig()

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, time.Duration(0), cfg.Auth.TokenTTL)
	assert.True(t, cfg.Auth.CookieSecure)
	assert.False(t, cfg.Database.UseSSL, "unparsable bool falls back to default")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, "https://cdn.example", cfg.Storage.MediaBaseURL)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing secret",
			mutate:  func(c *Config) { c.Auth.JWTSecret = "" },
			wantErr: "JWT_SECRET is required",
		},
		{
			name:    "negative ttl",
			mutate:  func(c *Config) { c.Auth.TokenTTL = -time.Second },
			wantErr: "TOKEN_TTL",
		},
		{
			name:    "minio without keys",
			mutate:  func(c *Config) { c.Storage.Backend = StorageBackendMinio },
			wantErr: "MINIO_ACCESS_KEY",
		},
		{
			name:    "gcs without bucket",
			mutate:  func(c *Config) { c.Storage.Backend = StorageBackendGCS },
			wantErr: "GCS_BUCKET",
		},
		{
			name:    "unknown storage",
			mutate:  func(c *Config) { c.Storage.Backend = "ftp" },
			wantErr: "unknown STORAGE_BACKEND",
		},
		{
			name:    "pubsub without project",
			mutate:  func(c *Config) { c.MQ.Backend = MQBackendPubSub },
			wantErr: "PUBSUB_PROJECT_ID",
		},
		{
			name:    "unknown mq",
			mutate:  func(c *Config) { c.MQ.Backend = "kafka" },
			wantErr: "unknown MQ_BACKEND",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{Auth: AuthConfig{JWTSecret: "secret"}}
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
