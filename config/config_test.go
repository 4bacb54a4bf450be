package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SUPABASE_URL", "https://abc.supabase.co/")
	t.Setenv("RATE_LIMIT_WINDOW_SECONDS", "not-a-number")
	t.Setenv("RUN_MIGRATIONS", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "https://abc.supabase.co", cfg.SupabaseUrl)
	assert.Equal(t, "https://abc.supabase.co/auth/v1/.well-known/jwks.json", cfg.JWKSURL())
	assert.Equal(t, 60*time.Second, cfg.RateLimitWindow())
	assert.False(t, cfg.RunMigrations)
}

func TestLoadClientConfig(t *testing.T) {
	t.Setenv("JOBCTL_API_URL", "http://api.local/v1/")
	t.Setenv("JOBCTL_SESSION_FILE", "/tmp/session.json")
	t.Setenv("JOBCTL_TIMEOUT_SECONDS", "3")

	cfg := LoadClientConfig()

	assert.Equal(t, "http://api.local/v1", cfg.APIURL)
	assert.Equal(t, "/tmp/session.json", cfg.SessionFile)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
}

func TestAllowedOrigins(t *testing.T) {
	cfg := &Config{FrontendURL: "https://jobs.example.com/, http://localhost:5173 ,"}
	assert.Equal(t, []string{"https://jobs.example.com", "http://localhost:5173"}, cfg.AllowedOrigins())
}
