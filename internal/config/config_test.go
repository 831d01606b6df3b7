package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SESSION_STRATEGY", "")
	t.Setenv("SESSION_COOKIE_NAME", "")
	t.Setenv("SESSION_TTL_HOURS", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("SESSION_COOKIE_SECURE", "")
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("SESSION_BACKEND", "")
	t.Setenv("SEED_USERS", "")
	t.Setenv("POSTGRES_CONNECT_RETRIES", "")
	t.Setenv("REDIS_CONNECT_RETRIES", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.EqualValues(t, 5, cfg.Postgres.ConnectRetries)
	assert.EqualValues(t, 5, cfg.Redis.ConnectRetries)
	assert.Equal(t, StrategyStored, cfg.Session.Strategy)
	assert.Equal(t, "session_id", cfg.Session.CookieName)
	assert.Equal(t, 7*24*time.Hour, cfg.Session.TTL)
	assert.False(t, cfg.Session.CookieSecure)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, BackendMemory, cfg.Session.Backend)
	assert.Equal(t, "/login", cfg.Auth.LoginPath)
	assert.Equal(t, "/dashboard", cfg.Auth.HomePath)
	assert.Empty(t, cfg.Auth.SeedUsers)
}

func TestLoadTokenStrategyDefaults(t *testing.T) {
	t.Setenv("SESSION_STRATEGY", "token")
	t.Setenv("SESSION_COOKIE_NAME", "")
	t.Setenv("SESSION_TTL_HOURS", "")
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_COOKIE_SECURE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "token", cfg.Session.CookieName)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.True(t, cfg.Session.CookieSecure)
}

func TestLoadRejectsUnknownEnums(t *testing.T) {
	for key, val := range map[string]string{
		"SESSION_STRATEGY": "magic",
		"SESSION_BACKEND":  "etcd",
		"STORE_BACKEND":    "mysql",
	} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoadPostgresRequiresDSN(t *testing.T) {
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("POSTGRES_DSN", "")

	_, err := Load()
	require.Error(t, err)
}

func TestParseSeedUsers(t *testing.T) {
	seeds, err := ParseSeedUsers(" admin@example.com:Sup3rSecret , ops@example.com:pa:ss1Word ")
	require.NoError(t, err)
	assert.Equal(t, []SeedUser{
		{Email: "admin@example.com", Password: "Sup3rSecret"},
		{Email: "ops@example.com", Password: "pa:ss1Word"},
	}, seeds)

	seeds, err = ParseSeedUsers("")
	require.NoError(t, err)
	assert.Nil(t, seeds)

	_, err = ParseSeedUsers("missing-password")
	assert.Error(t, err)

	_, err = ParseSeedUsers("a@b.co:")
	assert.Error(t, err)
}

func TestAppConfigHelpers(t *testing.T) {
	app := AppConfig{Host: "127.0.0.1", Port: "9000", RequestTimeoutSeconds: 5}
	assert.Equal(t, "127.0.0.1:9000", app.Addr())
	assert.Equal(t, 5*time.Second, app.RequestTimeout())
	assert.Zero(t, AppConfig{}.RequestTimeout())

	assert.Equal(t, time.Minute, SessionConfig{SweepIntervalSecs: 60}.SweepInterval())
	assert.Zero(t, SessionConfig{}.SweepInterval())
}
