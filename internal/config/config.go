// Package config loads the skout config file, a TOML document holding the
// bridge command, default compiler arguments, the trace database path, and
// the log level. Keys present in the file override defaults; absent keys
// leave them alone, so a two-line config stays two lines.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the resolved runtime configuration. Command-line flags
// override these values after loading.
type Config struct {
	// Bridge is the helper command that speaks the service protocol on
	// stdio, with its arguments.
	Bridge     string
	BridgeArgs []string

	// CompilerArgs is the default compiler invocation for doc runs when
	// none is given on the command line.
	CompilerArgs []string

	// TraceDB is the SQLite database recording and replay use.
	TraceDB string

	// LogLevel names the zerolog level for stderr diagnostics.
	LogLevel string
}

const fileName = "config.toml"

// DefaultPath returns the conventional config location,
// $XDG_CONFIG_HOME/skout/config.toml or the platform equivalent. Empty
// when the user config dir cannot be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "skout", fileName)
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		TraceDB:  defaultTraceDB(),
		LogLevel: "warn",
	}
}

func defaultTraceDB() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "skout-trace.db"
	}
	return filepath.Join(dir, "skout", "trace.db")
}

// fileConfig maps the TOML keys. Kept separate from Config so the overlay
// below can tell "absent" from "set to zero".
type fileConfig struct {
	Bridge       string   `toml:"bridge"`
	BridgeArgs   []string `toml:"bridge_args"`
	CompilerArgs []string `toml:"compiler_args"`
	TraceDB      string   `toml:"trace_db"`
	LogLevel     string   `toml:"log_level"`
}

// Load reads the config file at path. A missing or unparsable file is an
// error; so is an unknown key, which is almost always a typo.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("unknown config key %q in %s", undecoded[0].String(), path)
	}

	if meta.IsDefined("bridge") {
		cfg.Bridge = strings.TrimSpace(raw.Bridge)
	}
	if meta.IsDefined("bridge_args") {
		cfg.BridgeArgs = raw.BridgeArgs
	}
	if meta.IsDefined("compiler_args") {
		cfg.CompilerArgs = raw.CompilerArgs
	}
	if meta.IsDefined("trace_db") {
		cfg.TraceDB = strings.TrimSpace(raw.TraceDB)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	return cfg, nil
}

// LoadDefault loads the conventional config file if one exists and falls
// back to Default when it does not. Only a file that exists but fails to
// parse is an error.
func LoadDefault() (Config, error) {
	path := DefaultPath()
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); err != nil {
		return Default(), nil
	}
	return Load(path)
}
