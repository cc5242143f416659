package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bombardier/internal/logging"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("X_BEARER_TOKEN", "")
	path := filepath.Join(t.TempDir(), "nested", "bombardier.yaml")

	cfg := Default()
	cfg.Campaign.Filter = `tier in ["S", "A"]`
	cfg.Engagement.PerType = map[string]Budget{"dm": {MaxPerHour: 2, MaxPerDay: 10}}
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cache:\n  backend: redis\n  ttl: 90s\n"), 0o644))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, CacheRedis, got.Cache.Backend)
	assert.Equal(t, 90*time.Second, got.Cache.TTL)
	assert.Equal(t, Default().Server.Addr, got.Server.Addr)
	assert.Equal(t, 4, got.Analysis.Workers)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Storage, got.Storage)
}

func TestResolveEnvOverrides(t *testing.T) {
	t.Setenv("X_BEARER_TOKEN", "tok")
	t.Setenv("BOMBARDIER_ADDR", ":7000")
	t.Setenv("BOMBARDIER_LOG_LEVEL", "debug")
	t.Setenv("BOMBARDIER_DB", "/tmp/b.db")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("METRICS_ADDR", ":9100")

	cfg := Default()
	cfg.ResolveEnv()
	assert.Equal(t, "tok", cfg.Credentials.BearerToken)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/b.db", cfg.Storage.DBPath)
	assert.Equal(t, "redis:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, ":9100", cfg.Metrics.Addr)
}

func TestSaveRejectsEmptyPath(t *testing.T) {
	assert.Error(t, Save("", Default()))
}

func TestLoadDotenv(t *testing.T) {
	var buf bytes.Buffer
	logging.SetOutput(&buf)
	t.Cleanup(func() { logging.SetOutput(os.Stderr) })

	dir := t.TempDir()
	loadDotenv(filepath.Join(dir, "missing.env"))
	assert.Empty(t, buf.String())

	good := filepath.Join(dir, "good.env")
	require.NoError(t, os.WriteFile(good, []byte("BOMBARDIER_DOTENV_TEST=yes\n"), 0o600))
	t.Setenv("BOMBARDIER_DOTENV_TEST", "")
	require.NoError(t, os.Unsetenv("BOMBARDIER_DOTENV_TEST"))
	loadDotenv(good)
	assert.Equal(t, "yes", os.Getenv("BOMBARDIER_DOTENV_TEST"))
	assert.Empty(t, buf.String())

	bad := filepath.Join(dir, "bad.env")
	require.NoError(t, os.WriteFile(bad, []byte("FOO=\"unterminated\n"), 0o600))
	loadDotenv(bad)
	assert.Contains(t, buf.String(), "config_env_error")
	assert.Contains(t, buf.String(), bad)
}
