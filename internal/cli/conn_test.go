package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skout-dev/skout/internal/config"
	"github.com/skout-dev/skout/internal/trace"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResolveConfigBridgeOverride(t *testing.T) {
	path := writeConfigFile(t, `
bridge = "sourcekit-bridge"
bridge_args = ["--stdio", "--quiet"]
trace_db = "/var/lib/skout/trace.db"
`)

	opts := &RootOptions{ConfigPath: path, Bridge: "other-bridge"}
	cfg, err := resolveConfig(opts)
	require.NoError(t, err)

	assert.Equal(t, "other-bridge", cfg.Bridge)
	// Args belong to the configured bridge, not the override.
	assert.Nil(t, cfg.BridgeArgs)
	assert.Equal(t, "/var/lib/skout/trace.db", cfg.TraceDB)
}

func TestResolveConfigDBOverride(t *testing.T) {
	path := writeConfigFile(t, `trace_db = "/var/lib/skout/trace.db"`)

	opts := &RootOptions{ConfigPath: path, DB: "/tmp/override.db"}
	cfg, err := resolveConfig(opts)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override.db", cfg.TraceDB)
}

func TestResolveConfigKeepsFileValues(t *testing.T) {
	path := writeConfigFile(t, `
bridge = "sourcekit-bridge"
bridge_args = ["--stdio"]
compiler_args = ["-sdk", "/opt/sdk"]
log_level = "debug"
`)

	opts := &RootOptions{ConfigPath: path}
	cfg, err := resolveConfig(opts)
	require.NoError(t, err)

	assert.Equal(t, "sourcekit-bridge", cfg.Bridge)
	assert.Equal(t, []string{"--stdio"}, cfg.BridgeArgs)
	assert.Equal(t, []string{"-sdk", "/opt/sdk"}, cfg.CompilerArgs)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestResolveConfigMissingExplicitFile(t *testing.T) {
	opts := &RootOptions{ConfigPath: "/nonexistent/skout.toml"}
	_, err := resolveConfig(opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestResolveConfigDefaultsWithoutFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := resolveConfig(&RootOptions{})
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.NotEmpty(t, cfg.TraceDB)
	assert.Empty(t, cfg.Bridge)
}

func TestOpenConnNoBridgeConfigured(t *testing.T) {
	cfg := config.Config{TraceDB: filepath.Join(t.TempDir(), "trace.db")}

	_, _, err := openConn(&RootOptions{}, cfg, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no bridge command configured")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestOpenConnReplayUnknownSession(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "trace.db")
	st, err := trace.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	opts := &RootOptions{Replay: "no-such-session"}
	cfg := config.Config{TraceDB: dbPath}

	_, _, err = openConn(opts, cfg, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load replay session")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestOpenConnReplayBadDatabasePath(t *testing.T) {
	opts := &RootOptions{Replay: "whatever"}
	cfg := config.Config{TraceDB: "/nonexistent/dir/trace.db"}

	_, _, err := openConn(opts, cfg, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open trace database")
}
