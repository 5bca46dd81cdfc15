package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
bridge = "sourcekit-bridge"
compiler_args = ["-sdk", "/opt/sdk"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sourcekit-bridge", cfg.Bridge)
	assert.Equal(t, []string{"-sdk", "/opt/sdk"}, cfg.CompilerArgs)
	// Keys absent from the file keep their defaults.
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, Default().TraceDB, cfg.TraceDB)
}

func TestLoadAllKeys(t *testing.T) {
	path := writeConfig(t, `
bridge = "bridge"
bridge_args = ["--stdio"]
compiler_args = ["main.swift"]
trace_db = "/var/lib/skout/trace.db"
log_level = "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "bridge", cfg.Bridge)
	assert.Equal(t, []string{"--stdio"}, cfg.BridgeArgs)
	assert.Equal(t, []string{"main.swift"}, cfg.CompilerArgs)
	assert.Equal(t, "/var/lib/skout/trace.db", cfg.TraceDB)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	path := writeConfig(t, `
bridge = "bridge"
brigde_args = ["typo"]
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config key")
	assert.Contains(t, err.Error(), "brigde_args")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestLoadMalformedTOML(t *testing.T) {
	path := writeConfig(t, `bridge = [unclosed`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestDefaultHasUsableValues(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.NotEmpty(t, cfg.TraceDB)
	assert.Empty(t, cfg.Bridge, "no bridge command is configured out of the box")
}
