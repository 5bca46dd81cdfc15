package cli

import (
	"github.com/spf13/cobra"

	"github.com/skout-dev/skout/internal/pipeline"
	"github.com/skout-dev/skout/internal/requestfile"
	"github.com/skout-dev/skout/internal/variant"
)

// RequestOptions holds flags for the request command.
type RequestOptions struct {
	*RootOptions
	File string
}

// NewRequestCommand creates the request command.
func NewRequestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RequestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "request --file REQUEST",
		Short: "Send a hand-written request file",
		Long: `Load a raw service request from a YAML or CUE file, send it untouched,
and print the reply as pretty JSON. Binary reply fields appear as
{"$binary": "<base64>"} and UID fields as {"$uid": "<decimal>"}.

Examples:
  skout request --file open.yml
  skout request --file cursor.cue --replay 0192f3a1-...`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.File, "file", "", "request file, .yml/.yaml or .cue (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runRequest(opts *RequestOptions, cmd *cobra.Command) error {
	req, err := requestfile.Load(opts.File)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load request file", err)
	}

	conn, cleanup, err := setup(opts.RootOptions)
	if err != nil {
		return err
	}
	defer cleanup()

	p := pipeline.New(conn)
	reply, err := p.Raw(req)
	if err != nil {
		return WrapExitError(ExitFailure, "request failed", err)
	}

	// Raw replies can carry binary payloads the pretty serializer
	// rejects; transport encoding makes them printable without loss.
	return printDocument(cmd, variant.EncodeTransport(reply))
}
