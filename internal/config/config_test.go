package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func TestBuild_DefaultsAndEnvOverrides(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "access")
	t.Setenv("JWT_REFRESH_SECRET", "refresh")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("DB_USER", "apt")

	cfg, err := build(newViper())
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, ":5000", cfg.Server.Addr())
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "apt", cfg.Database.User)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTTL)
	assert.Equal(t, EventsNoop, cfg.Events.Driver)
	assert.Equal(t, "Sorry, we are currently experiencing high traffic.", cfg.Maintenance.Message)
	assert.False(t, cfg.RateLimit.TrustForwarded)
}

func TestBuild_TrustForwardedFromEnv(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "access")
	t.Setenv("JWT_REFRESH_SECRET", "refresh")
	t.Setenv("RATE_LIMIT_TRUST_FORWARDED", "true")

	cfg, err := build(newViper())
	require.NoError(t, err)
	assert.True(t, cfg.RateLimit.TrustForwarded)
}

func TestBuild_ReadsYAML(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "access")
	t.Setenv("JWT_REFRESH_SECRET", "refresh")

	v := newViper()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
server:
  port: "8080"
auth:
  access_ttl: 5m
maintenance:
  disabled_writes: [tasks.create, reviews.create]
events:
  driver: nats
`)))

	cfg, err := build(v)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 5*time.Minute, cfg.Auth.AccessTTL)
	assert.Equal(t, []string{"tasks.create", "reviews.create"}, cfg.Maintenance.DisabledWrites)
	assert.Equal(t, EventsNATS, cfg.Events.Driver)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Storage: StorageConfig{Driver: StorageMemory},
			Events:  EventsConfig{Driver: EventsNoop},
			Auth: AuthConfig{
				AccessSecret:  "a",
				RefreshSecret: "b",
				AccessTTL:     time.Minute,
				RefreshTTL:    time.Hour,
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing access secret", func(c *Config) { c.Auth.AccessSecret = "" }, "auth.access_secret is required"},
		{"equal secrets", func(c *Config) { c.Auth.RefreshSecret = "a" }, "must differ"},
		{"unknown storage", func(c *Config) { c.Storage.Driver = "mongo" }, `unknown storage.driver "mongo"`},
		{"unknown events", func(c *Config) { c.Events.Driver = "sqs" }, `unknown events.driver "sqs"`},
		{"kafka without brokers", func(c *Config) { c.Events.Driver = EventsKafka }, "events.kafka.brokers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
