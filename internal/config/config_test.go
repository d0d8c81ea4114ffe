package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "memory", c.Storage.Driver)
	require.Equal(t, "memory", c.Cache.Kind)
	require.Equal(t, "sid", c.Auth.Session.CookieName)
	require.Equal(t, "Strict", c.Auth.Session.SameSite)
	require.Equal(t, 24*time.Hour, c.Auth.Session.TTL)
	require.Equal(t, 24*time.Hour, c.Auth.InviteTTL)
	require.Equal(t, 8, c.Auth.PasswordMinLength)
	require.False(t, c.CookieSecure())
}

func TestLoadYAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	yml := `
app:
  env: prod
  base_url: https://app.example.com
storage:
  driver: pg
  dsn: postgres://u:p@db/legacy
auth:
  session:
    ttl: 12h
`
	require.NoError(t, os.WriteFile(p, []byte(yml), 0o600))

	t.Setenv("INVITE_TTL_SECS", "3600")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("CACHE_KIND", "redis")
	t.Setenv("SESSION_COOKIE_SECURE", "false")

	c, err := Load(p)
	require.NoError(t, err)
	require.True(t, c.IsProd())
	require.Equal(t, "pg", c.Storage.Driver)
	require.Equal(t, 12*time.Hour, c.Auth.Session.TTL)
	require.Equal(t, time.Hour, c.Auth.InviteTTL)
	require.Equal(t, "redis:6379", c.Cache.Redis.Addr)
	require.False(t, c.CookieSecure(), "explicit env override beats prod default")
}

func TestCookieSecureDefaultsToProd(t *testing.T) {
	t.Setenv("NODE_ENV", "production")
	c, err := Load("")
	require.NoError(t, err)
	require.True(t, c.CookieSecure())
}

func TestValidateRejectsRelativeBaseURL(t *testing.T) {
	t.Setenv("APP_BASE_URL", "app.example.com")
	_, err := Load("")
	require.Error(t, err)
	require.Contains(t, err.Error(), "absolute URL")
}

func TestValidateRequiresDSNForPg(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "pg")
	_, err := Load("")
	require.Error(t, err)
	require.Contains(t, err.Error(), "storage.dsn")
}
