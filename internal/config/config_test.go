package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "http://127.0.0.1:8000/api", cfg.API.BaseURL)
	assert.Equal(t, "/token/refresh/", cfg.API.RefreshPath)
	assert.Equal(t, "2", cfg.Defaults.TenantID)
	assert.Equal(t, "1", cfg.Defaults.UserID)
	assert.Equal(t, "admin@lims.com", cfg.Defaults.UserEmail)
	assert.Equal(t, 4*time.Second, cfg.Screen.BannerTTL)
	assert.Equal(t, 5*time.Minute, cfg.Screen.SweepInterval)
	assert.Equal(t, "memory", cfg.Cache.Type)
	assert.False(t, cfg.Database.Enabled)
	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("API_BASE_URL", "https://lims.example.com/api")
	t.Setenv("API_TIMEOUT", "5s")
	t.Setenv("DEFAULTS_TENANT_ID", "17")
	t.Setenv("CACHE_TYPE", "redis")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "https://lims.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "17", cfg.Defaults.TenantID)
	assert.Equal(t, "redis", cfg.Cache.Type)
	assert.Equal(t, "0.0.0.0:9090", cfg.Addr())
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load()
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"empty base url", func(c *Config) { c.API.BaseURL = " " }, "api.base_url"},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"unknown cache", func(c *Config) { c.Cache.Type = "memcached" }, "cache.type"},
		{"database without host", func(c *Config) {
			c.Database.Enabled = true
			c.Database.Host = ""
		}, "database.host"},
		{"zero session ttl", func(c *Config) { c.Session.TTL = 0 }, "session.ttl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
