package cli

import (
	"github.com/spf13/cobra"

	"github.com/skout-dev/skout/internal/pipeline"
	"github.com/skout-dev/skout/internal/service"
	"github.com/skout-dev/skout/internal/syntaxmap"
	"github.com/skout-dev/skout/internal/variant"
)

// SyntaxOptions holds flags for the syntax command.
type SyntaxOptions struct {
	*RootOptions
	File string
	Text string
}

// NewSyntaxCommand creates the syntax command.
func NewSyntaxCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SyntaxOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "syntax",
		Short: "Print a document's syntax token stream",
		Long: `Open a document and print its syntax-highlighting tokens as pretty
JSON, in source order: kind, byte offset, and length per token.

Examples:
  skout syntax --file main.swift
  skout syntax --text 'let x = 1'`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSyntax(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.File, "file", "", "source file to open")
	cmd.Flags().StringVar(&opts.Text, "text", "", "inline source text instead of a file")

	return cmd
}

func runSyntax(opts *SyntaxOptions, cmd *cobra.Command) error {
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
	tokens, err := p.Syntax(name, opts.File, opts.Text)
	if err != nil {
		return WrapExitError(ExitFailure, "syntax request failed", err)
	}

	return printDocument(cmd, tokensToTree(tokens))
}

// tokensToTree renders the token stream as an array of dictionaries, the
// same shape the service uses elsewhere.
func tokensToTree(tokens []syntaxmap.Token) variant.Array {
	arr := make(variant.Array, len(tokens))
	for i, tok := range tokens {
		arr[i] = variant.NewDictionary(
			variant.P(service.KeyKind, variant.String(tok.Kind)),
			variant.P(service.KeyOffset, variant.Int(int64(tok.Offset))),
			variant.P(service.KeyLength, variant.Int(int64(tok.Length))),
		)
	}
	return arr
}
