package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Formats(t *testing.T) {
	cases := map[string]string{
		"sapgui.yaml": `
application: SAPGUI_TEST
log:
  level: debug
snapshots:
  backend: redis
redis:
  addr: redis:6379
  ttl: 10m
lock:
  enabled: true
  ttl: 45
`,
		"sapgui.json": `{
  "application": "SAPGUI_TEST",
  "log": {"level": "debug"},
  "snapshots": {"backend": "redis"},
  "redis": {"addr": "redis:6379", "ttl": "10m"},
  "lock": {"enabled": true, "ttl": 45}
}`,
		"sapgui.toml": `
application = "SAPGUI_TEST"

[log]
level = "debug"

[snapshots]
backend = "redis"

[redis]
addr = "redis:6379"
ttl = "10m"

[lock]
enabled = true
ttl = 45
`,
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, name, content))
			require.NoError(t, err)

			assert.Equal(t, "SAPGUI_TEST", cfg.Application)
			assert.Equal(t, "debug", cfg.Log.Level)
			assert.Equal(t, "text", cfg.Log.Format, "unset keys keep their default")
			assert.Equal(t, BackendRedis, cfg.Snapshots.Backend)
			assert.Equal(t, "redis:6379", cfg.Redis.Addr)
			assert.Equal(t, 10*time.Minute, cfg.Redis.TTL)
			assert.True(t, cfg.Lock.Enabled)
			assert.Equal(t, 45*time.Second, cfg.Lock.TTL)
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeFile(t, "sapgui.yaml", "http:\n  addr: \":9000\"\n")
	t.Setenv("SAPGUI_HTTP_ADDR", ":9100")
	t.Setenv("SAPGUI_MCP_PORT", "8181")
	t.Setenv("SAPGUI_LOCK_ENABLED", "true")
	t.Setenv("SAPGUI_APPLICATION", "SAPGUI_QA")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.HTTP.Addr)
	assert.Equal(t, 8181, cfg.MCP.Port)
	assert.True(t, cfg.Lock.Enabled)
	assert.Equal(t, "SAPGUI_QA", cfg.Application)
}

func TestLoad_SnapshotMaskFromEnv(t *testing.T) {
	t.Setenv("SAPGUI_SNAPSHOTS_MASK", "^user$,server")
	t.Setenv("SAPGUI_SNAPSHOTS_ENCRYPTION_KEY", "k")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"^user$", "server"}, cfg.Snapshots.Mask)
	assert.Equal(t, "k", cfg.Snapshots.EncryptionKey)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "config load failed")

	_, err = Load(writeFile(t, "sapgui.ini", "a=b"))
	assert.ErrorContains(t, err, "unsupported config format")

	_, err = Load(writeFile(t, "sapgui.json", "{"))
	assert.ErrorContains(t, err, "config parse failed")

	_, err = Load(writeFile(t, "sapgui.yaml", "snapshots:\n  backend: s3\n"))
	assert.ErrorContains(t, err, "unknown snapshot backend")

	_, err = Load(writeFile(t, "sapgui.yaml", "mcp:\n  transport: grpc\n"))
	assert.ErrorContains(t, err, "unknown mcp transport")
}

func TestFromEnv(t *testing.T) {
	got := fromEnv([]string{
		"PATH=/usr/bin",
		"SAPGUI_=ignored",
		"SAPGUI_APPLICATION=SAPGUI",
		"SAPGUI_REDIS_ADDR=localhost:6380",
		"SAPGUI_REDIS_DB=2",
	})

	assert.Equal(t, map[string]any{
		"application": "SAPGUI",
		"redis": map[string]any{
			"addr": "localhost:6380",
			"db":   "2",
		},
	}, got)
}

func TestLoadDotEnv(t *testing.T) {
	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")))

	path := writeFile(t, ".env", "SAPGUI_LOG_LEVEL=warn\n")
	t.Setenv("SAPGUI_LOG_LEVEL", "")
	os.Unsetenv("SAPGUI_LOG_LEVEL")
	require.NoError(t, LoadDotEnv(path))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
}
