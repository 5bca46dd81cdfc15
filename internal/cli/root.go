// Package cli wires the analysis pipeline, the trace store, and the bridge
// connection into the skout command tree.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
	Format     string // "json" | "text", trace output only

	// Connection overrides. Empty means "use the config file".
	Bridge string
	DB     string

	// Record starts a new trace session around the live connection;
	// Replay serves everything from an existing one. Mutually exclusive.
	Record bool
	Label  string
	Replay string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the skout CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "skout",
		Short: "skout - source analysis over the SourceKit protocol",
		Long: `skout queries a source-analysis service and renders its responses as
JSON documents: structure dumps, syntax token streams, and declaration
documentation. Exchanges can be recorded into a trace database and
replayed later without the service.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.Record && opts.Replay != "" {
				return fmt.Errorf("--record and --replay are mutually exclusive")
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.config/skout/config.toml)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "trace output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Bridge, "bridge", "", "bridge command speaking the service protocol on stdio")
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "", "trace database path")
	cmd.PersistentFlags().BoolVar(&opts.Record, "record", false, "record every exchange into a new trace session")
	cmd.PersistentFlags().StringVar(&opts.Label, "label", "", "label for the recorded session")
	cmd.PersistentFlags().StringVar(&opts.Replay, "replay", "", "replay responses from the given session id")

	// Add subcommands
	cmd.AddCommand(NewStructureCommand(opts))
	cmd.AddCommand(NewSyntaxCommand(opts))
	cmd.AddCommand(NewDocCommand(opts))
	cmd.AddCommand(NewRequestCommand(opts))
	cmd.AddCommand(NewTraceCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
