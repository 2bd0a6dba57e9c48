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
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	os.Unsetenv("PORT")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, EnvDev, cfg.Env)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, ":3000", cfg.Addr())
}

func TestLoadPortFromEnv(t *testing.T) {
	t.Setenv("PORT", "8082")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8082", cfg.Addr())
}

func TestLoadFile(t *testing.T) {
	t.Setenv("PORT", "")
	os.Unsetenv("PORT")

	path := writeConfig(t, `
env: prod
storage: sqlite
http_server:
  host: localhost
  port: "9000"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, EnvProd, cfg.Env)
	assert.Equal(t, StorageSQLite, cfg.Storage)
	assert.Equal(t, "localhost:9000", cfg.Addr())
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("PORT", "7000")

	path := writeConfig(t, "http_server:\n  port: \"9000\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, EnvDev, cfg.Env, "unset keys fall back to defaults")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("PORT", "")
	os.Unsetenv("PORT")

	tests := []struct {
		name string
		body string
	}{
		{name: "env", body: "env: qa\n"},
		{name: "storage", body: "storage: postgres\n"},
		{name: "port", body: "http_server:\n  port: \"not-a-port\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
