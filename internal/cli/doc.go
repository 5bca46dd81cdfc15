package cli

import (
	"github.com/spf13/cobra"

	"github.com/skout-dev/skout/internal/pipeline"
)

// DocOptions holds flags for the doc command.
type DocOptions struct {
	*RootOptions
	File string
}

// NewDocCommand creates the doc command.
func NewDocCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DocOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "doc --file FILE [-- compiler-args...]",
		Short: "Print declaration documentation for a source file",
		Long: `Open a source file and print its fully enriched structure: resolved
kinds, per-declaration cursor info (USR, type signature), MARK comment
text, and the cursor replies for documentation comments under
key.doc.comments.

Compiler arguments for the file go after --; when omitted, the
compiler_args config value is used, and failing that the file itself.

Examples:
  skout doc --file main.swift
  skout doc --file main.swift -- main.swift -sdk /opt/sdk`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoc(opts, cmd, args)
		},
	}

	cmd.Flags().StringVar(&opts.File, "file", "", "source file to document (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runDoc(opts *DocOptions, cmd *cobra.Command, compilerArgs []string) error {
	cfg, err := resolveConfig(opts.RootOptions)
	if err != nil {
		return err
	}
	if len(compilerArgs) == 0 {
		compilerArgs = cfg.CompilerArgs
	}
	if len(compilerArgs) == 0 {
		compilerArgs = []string{opts.File}
	}

	conn, cleanup, err := setup(opts.RootOptions)
	if err != nil {
		return err
	}
	defer cleanup()

	p := pipeline.New(conn)
	tree, err := p.Doc(opts.File, compilerArgs)
	if err != nil {
		return WrapExitError(ExitFailure, "doc request failed", err)
	}

	return printDocument(cmd, tree)
}
