package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(body), 0o600))
	return dir
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, SessionStoreSQLite, cfg.Session.Store)
	require.Equal(t, time.Hour, cfg.Session.TTL)
	require.Equal(t, devSessionSecret, cfg.Session.Secret)
	require.False(t, cfg.IsProduction())
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := writeConfig(t, `
port: "9000"
db:
  path: "portal.db"
session:
  ttl: 15m
  store: redis
redis:
  addr: "redis:6379"
`)
	t.Setenv("JOBPORTAL_SESSION_SECRET", "from-env")
	t.Setenv("JOBPORTAL_PORT", "9100")

	cfg, err := Load(dir)
	require.NoError(t, err)

	require.Equal(t, "9100", cfg.Port)
	require.Equal(t, "portal.db", cfg.DB.Path)
	require.Equal(t, 15*time.Minute, cfg.Session.TTL)
	require.Equal(t, SessionStoreRedis, cfg.Session.Store)
	require.Equal(t, "redis:6379", cfg.Redis.Addr)
	require.Equal(t, "from-env", cfg.Session.Secret)
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	dir := writeConfig(t, "env: production\n")

	_, err := Load(dir)
	require.Error(t, err)
}

func TestLoad_RejectsUnknownStore(t *testing.T) {
	dir := writeConfig(t, "session:\n  store: memcached\n")

	_, err := Load(dir)
	require.ErrorContains(t, err, "memcached")
}
