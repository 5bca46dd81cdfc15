package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/skout-dev/skout/internal/pipeline"
	"github.com/skout-dev/skout/internal/variant"
)

// StructureOptions holds flags for the structure command.
type StructureOptions struct {
	*RootOptions
	File string
	Text string
}

// NewStructureCommand creates the structure command.
func NewStructureCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StructureOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "structure",
		Short: "Print a document's structure tree",
		Long: `Open a document and print its structure as pretty JSON: declaration
nodes, ranges, and resolved kinds, with the packed syntax map stripped.

Examples:
  skout structure --file main.swift
  skout structure --text 'func add() {}'
  skout structure --file main.swift --record --label baseline`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStructure(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.File, "file", "", "source file to open")
	cmd.Flags().StringVar(&opts.Text, "text", "", "inline source text instead of a file")

	return cmd
}

func runStructure(opts *StructureOptions, cmd *cobra.Command) error {
	name, err := documentName(opts.File, opts.Text)
	if err != nil {
		return err
	}

	conn, cleanup, err := setup(opts.RootOptions)
	if err != nil {
		return err
	}
	defer cleanup()

	p := pipeline.New(conn)
	tree, err := p.Structure(name, opts.File, opts.Text)
	if err != nil {
		return WrapExitError(ExitFailure, "structure request failed", err)
	}

	return printDocument(cmd, tree)
}

// documentName validates the file/text flags and picks the document name
// the service sees.
func documentName(file, text string) (string, error) {
	switch {
	case file == "" && text == "":
		return "", NewExitError(ExitCommandError, "one of --file or --text is required")
	case file != "" && text != "":
		return "", NewExitError(ExitCommandError, "--file and --text are mutually exclusive")
	case file != "":
		return filepath.Base(file), nil
	default:
		return "inline", nil
	}
}

// printDocument renders v as the command's stdout document.
func printDocument(cmd *cobra.Command, v variant.Value) error {
	out, err := variant.MarshalPretty(v)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to serialize response", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
