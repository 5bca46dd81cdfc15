// Package logging builds the process logger. Diagnostics go to stderr so
// stdout stays clean for the serialized document a command prints.
package logging

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// EnvLogLevel overrides the configured log level when set.
const EnvLogLevel = "SKOUT_LOG_LEVEL"

// New returns a console logger at the given level. An unparsable level
// falls back to warn; the SKOUT_LOG_LEVEL environment variable wins over
// the argument.
func New(level string) zerolog.Logger {
	lvl, ok := ParseLevel(level)
	if !ok {
		lvl = zerolog.WarnLevel
	}
	if env, ok := ParseLevel(os.Getenv(EnvLogLevel)); ok {
		lvl = env
	}

	out := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(out).With().Timestamp().Str("app", "skout").Logger().Level(lvl)
}

// ParseLevel maps a level name to its zerolog level. The second return
// reports whether raw named a level at all.
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.WarnLevel, false
	}
}
