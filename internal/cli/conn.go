package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/skout-dev/skout/internal/config"
	"github.com/skout-dev/skout/internal/logging"
	"github.com/skout-dev/skout/internal/service"
	"github.com/skout-dev/skout/internal/trace"
)

// resolveConfig loads the config file and applies flag overrides.
func resolveConfig(opts *RootOptions) (config.Config, error) {
	var cfg config.Config
	var err error
	if opts.ConfigPath != "" {
		cfg, err = config.Load(opts.ConfigPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "failed to load config", err)
	}

	if opts.Bridge != "" {
		cfg.Bridge = opts.Bridge
		cfg.BridgeArgs = nil
	}
	if opts.DB != "" {
		cfg.TraceDB = opts.DB
	}
	return cfg, nil
}

// openConn assembles the service connection the global flags describe:
// a replay connection, a live bridge, or a live bridge wrapped in a
// recorder. The returned cleanup closes everything in the right order and
// is safe to defer immediately.
func openConn(opts *RootOptions, cfg config.Config, log zerolog.Logger) (service.Conn, func(), error) {
	ctx := context.Background()

	if opts.Replay != "" {
		st, err := trace.Open(cfg.TraceDB)
		if err != nil {
			return nil, nil, WrapExitError(ExitCommandError, "failed to open trace database", err)
		}
		conn, err := trace.NewReplay(ctx, st, opts.Replay)
		if err != nil {
			st.Close()
			return nil, nil, WrapExitError(ExitCommandError, "failed to load replay session", err)
		}
		return conn, func() {
			if n := conn.Remaining(); n > 0 {
				log.Debug().Int("remaining", n).Msg("replay session has unconsumed exchanges")
			}
			conn.Close()
			st.Close()
		}, nil
	}

	if cfg.Bridge == "" {
		return nil, nil, NewExitError(ExitCommandError,
			"no bridge command configured (set bridge in the config file or pass --bridge)")
	}
	conn, err := service.StartBridge(cfg.Bridge, cfg.BridgeArgs, log)
	if err != nil {
		return nil, nil, WrapExitError(ExitFailure, "failed to start bridge", err)
	}

	if !opts.Record {
		return conn, func() { conn.Close() }, nil
	}

	st, err := trace.Open(cfg.TraceDB)
	if err != nil {
		conn.Close()
		return nil, nil, WrapExitError(ExitCommandError, "failed to open trace database", err)
	}
	session, err := st.CreateSession(ctx, opts.Label)
	if err != nil {
		conn.Close()
		st.Close()
		return nil, nil, WrapExitError(ExitFailure, "failed to create trace session", err)
	}
	// The id is what replays this run later; stderr keeps it out of the
	// JSON document on stdout.
	fmt.Fprintf(os.Stderr, "recording session %s\n", session)

	rec := trace.NewRecording(conn, st, session, log)
	return rec, func() {
		rec.Close()
		st.Close()
	}, nil
}

// setup resolves config and opens the connection, with a logger built from
// the resolved level.
func setup(opts *RootOptions) (service.Conn, func(), error) {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return nil, nil, err
	}
	level := cfg.LogLevel
	if opts.Verbose {
		level = "debug"
	}
	log := logging.New(level)
	return openConn(opts, cfg, log)
}
