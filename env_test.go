package goGuard_test

import (
	"net/http"
	"testing"
	"time"

	goGuard "github.com/MrEthical07/goGuard"
	"github.com/MrEthical07/goGuard/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOptionsFromEnv(t *testing.T) {
	t.Setenv("GOGUARD_STRATEGY", "in-memory")
	t.Setenv("GOGUARD_COOKIE_NAME", "app_session")
	t.Setenv("GOGUARD_COOKIE_SECRETS", "new-secret,old-secret")
	t.Setenv("GOGUARD_COOKIE_SAME_SITE", "strict")
	t.Setenv("GOGUARD_COOKIE_MAX_AGE", "2h")
	t.Setenv("GOGUARD_SESSION_TTL", "30m")
	t.Setenv("GOGUARD_SLIDING_EXPIRATION", "true")
	t.Setenv("GOGUARD_LOGIN_PATH", "/signin")
	t.Setenv("GOGUARD_METRICS_ENABLED", "true")

	opts, err := goGuard.LoadOptionsFromEnv()
	require.NoError(t, err)
	require.NoError(t, opts.Validate())

	assert.Equal(t, session.StrategyInMemory, opts.Strategy)
	assert.Equal(t, "app_session", opts.Cookie.Name)
	assert.Equal(t, []string{"new-secret", "old-secret"}, opts.Cookie.Secrets)
	assert.Equal(t, http.SameSiteStrictMode, opts.Cookie.SameSite)
	assert.Equal(t, 2*time.Hour, opts.Cookie.MaxAge)
	assert.True(t, opts.Cookie.Secure)
	assert.Equal(t, 30*time.Minute, opts.SessionTTL)
	assert.True(t, opts.SlidingExpiration)
	assert.Equal(t, "/signin", opts.LoginPath)
	assert.Equal(t, "redirectTo", opts.ReturnToParam)
	assert.True(t, opts.Metrics.Enabled)
	assert.False(t, opts.Audit.Enabled)
	assert.Equal(t, 1024, opts.Audit.BufferSize)
}

func TestLoadOptionsFromEnvDefaults(t *testing.T) {
	t.Setenv("GOGUARD_COOKIE_SECRETS", "only")

	opts, err := goGuard.LoadOptionsFromEnv()
	require.NoError(t, err)
	assert.Equal(t, session.StrategyDefault, opts.Strategy)
	assert.Equal(t, "goguard_session", opts.Cookie.Name)
	assert.Equal(t, http.SameSiteLaxMode, opts.Cookie.SameSite)
	assert.Equal(t, "/login", opts.LoginPath)
}

func TestLoadOptionsFromEnvErrors(t *testing.T) {
	t.Run("missing secrets", func(t *testing.T) {
		t.Setenv("GOGUARD_COOKIE_SECRETS", "")
		_, err := goGuard.LoadOptionsFromEnv()
		assert.ErrorIs(t, err, goGuard.ErrInvalidConfig)
	})
	t.Run("unknown strategy", func(t *testing.T) {
		t.Setenv("GOGUARD_COOKIE_SECRETS", "s")
		t.Setenv("GOGUARD_STRATEGY", "in-redis")
		_, err := goGuard.LoadOptionsFromEnv()
		assert.ErrorIs(t, err, goGuard.ErrInvalidConfig)
	})
	t.Run("unknown same-site", func(t *testing.T) {
		t.Setenv("GOGUARD_COOKIE_SECRETS", "s")
		t.Setenv("GOGUARD_COOKIE_SAME_SITE", "sometimes")
		_, err := goGuard.LoadOptionsFromEnv()
		assert.ErrorIs(t, err, goGuard.ErrInvalidConfig)
	})
}
