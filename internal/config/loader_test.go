package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 127.0.0.1
  port: 9090
storage:
  dir: /tmp/match-data
match:
  period_duration: 20
  total_periods: 3
logger:
  env: prod
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/tmp/match-data", cfg.Storage.Dir)
	assert.Equal(t, 20, cfg.Match.PeriodDuration)
	assert.Equal(t, 3, cfg.Match.TotalPeriods)
	assert.False(t, cfg.Postgres.Enabled)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	// a near-empty file still yields a runnable config
	path := writeConfig(t, "server:\n  host: 0.0.0.0\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "data", cfg.Storage.Dir)
	assert.Equal(t, 25, cfg.Match.PeriodDuration)
	assert.Equal(t, 2, cfg.Match.TotalPeriods)
	assert.Equal(t, int32(5), cfg.Postgres.MaxConns)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 8080\n")
	t.Setenv("APP_SERVER_PORT", "9191")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Server.Port)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "zero periods", body: "match:\n  total_periods: 0\n"},
		{name: "oversized duration", body: "match:\n  period_duration: 240\n"},
		{name: "bad port", body: "server:\n  port: 70000\n"},
		{name: "bad logger env", body: "logger:\n  env: nowhere\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
		})
	}
}
