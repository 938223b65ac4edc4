package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://backend.test/api")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "http://backend.test/api", cfg.Backend.BaseURL)
	assert.Equal(t, 5*time.Minute, cfg.Cache.StaleTime)
	assert.Equal(t, "mealturn_session", cfg.Session.CookieName)
	assert.Equal(t, 10*time.Minute, cfg.Session.RevalidateAfter)
	assert.Equal(t, "Asia/Ho_Chi_Minh", cfg.Location().String())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:  ServerConfig{Timezone: "UTC"},
			Backend: BackendConfig{BaseURL: "http://localhost:5000/api"},
			Session: SessionConfig{CookieName: "s", TTL: time.Hour},
		}
	}

	require.NoError(t, valid().Validate())

	cfg := valid()
	cfg.Backend.BaseURL = "/api"
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Server.Timezone = "Mars/Olympus"
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.OTEL.Enabled = true
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Session.TTL = 0
	assert.Error(t, cfg.Validate())
}
