package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/skout-dev/skout/internal/trace"
	"github.com/skout-dev/skout/internal/variant"
)

// TraceListOptions holds flags for trace list.
type TraceListOptions struct {
	*RootOptions
	Kind  string
	Since string
	Until string
	Limit int
}

// SessionInfo is one session in trace list JSON output.
type SessionInfo struct {
	ID        string `json:"id"`
	Label     string `json:"label,omitempty"`
	CreatedAt string `json:"created_at"`
}

// ExchangeInfo is one exchange in trace show JSON output. Request and
// response are transport-encoded documents.
type ExchangeInfo struct {
	Seq         int64           `json:"seq"`
	RequestKind string          `json:"request_kind,omitempty"`
	RequestHash string          `json:"request_hash"`
	Request     json.RawMessage `json:"request"`
	Response    json.RawMessage `json:"response"`
}

// SessionDetail is the trace show JSON envelope.
type SessionDetail struct {
	Session   SessionInfo       `json:"session"`
	Exchanges []ExchangeInfo    `json:"exchanges"`
	UIDNames  map[uint64]string `json:"uid_names,omitempty"`
}

// NewTraceCommand creates the trace command group.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Inspect recorded trace sessions",
		Long: `Inspect the trace database: list recorded sessions and show the
exchanges inside one. Sessions are written by --record and consumed by
--replay.`,
	}

	cmd.AddCommand(newTraceListCommand(rootOpts))
	cmd.AddCommand(newTraceShowCommand(rootOpts))

	return cmd
}

func newTraceListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded sessions, newest first",
		Long: `List recorded sessions, newest first.

Examples:
  skout trace list --db ./trace.db
  skout trace list --kind source.request.editor.open --limit 10
  skout trace list --since 2026-08-01T00:00:00Z --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTraceList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Kind, "kind", "", "only sessions containing this request kind")
	cmd.Flags().StringVar(&opts.Since, "since", "", "only sessions created at or after this RFC 3339 time")
	cmd.Flags().StringVar(&opts.Until, "until", "", "only sessions created at or before this RFC 3339 time")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum sessions to list (0 = all)")

	return cmd
}

func runTraceList(opts *TraceListOptions, cmd *cobra.Command) error {
	filter := trace.Filter{Kind: opts.Kind, Limit: opts.Limit}
	var err error
	if filter.Since, err = parseTimeFlag(opts.Since); err != nil {
		return WrapExitError(ExitCommandError, "invalid --since", err)
	}
	if filter.Until, err = parseTimeFlag(opts.Until); err != nil {
		return WrapExitError(ExitCommandError, "invalid --until", err)
	}

	st, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer st.Close()

	sessions, err := st.ListSessions(context.Background(), filter)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to list sessions", err)
	}

	f := formatter(opts.RootOptions, cmd)
	if f.Format == "json" {
		infos := make([]SessionInfo, len(sessions))
		for i, s := range sessions {
			infos[i] = SessionInfo{
				ID:        s.ID,
				Label:     s.Label,
				CreatedAt: s.CreatedAt.UTC().Format(time.RFC3339Nano),
			}
		}
		return f.Success(infos)
	}

	if len(sessions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no recorded sessions")
		return nil
	}
	for _, s := range sessions {
		label := s.Label
		if label == "" {
			label = "-"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n",
			s.ID, s.CreatedAt.UTC().Format(time.RFC3339), label)
	}
	return nil
}

func newTraceShowCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show SESSION-ID",
		Short: "Show the exchanges recorded in a session",
		Long: `Show a session's exchanges in recorded order. The text form prints one
line per exchange; --verbose adds the full request and response
documents, --format json emits everything machine-readable.

Examples:
  skout trace show 0192f3a1-... --db ./trace.db
  skout trace show 0192f3a1-... --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTraceShow(rootOpts, cmd, args[0])
		},
	}
	return cmd
}

func runTraceShow(opts *RootOptions, cmd *cobra.Command, sessionID string) error {
	ctx := context.Background()

	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	session, err := st.GetSession(ctx, sessionID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load session", err)
	}
	exchanges, err := st.ReadExchanges(ctx, sessionID)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read exchanges", err)
	}
	uids, err := st.ReadUIDNames(ctx, sessionID)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read uid names", err)
	}

	f := formatter(opts, cmd)
	if f.Format == "json" {
		detail := SessionDetail{
			Session: SessionInfo{
				ID:        session.ID,
				Label:     session.Label,
				CreatedAt: session.CreatedAt.UTC().Format(time.RFC3339Nano),
			},
			Exchanges: make([]ExchangeInfo, len(exchanges)),
			UIDNames:  uids,
		}
		for i, ex := range exchanges {
			req, err := compactDocument(ex.Request)
			if err != nil {
				return err
			}
			resp, err := compactDocument(ex.Response)
			if err != nil {
				return err
			}
			detail.Exchanges[i] = ExchangeInfo{
				Seq:         ex.Seq,
				RequestKind: ex.RequestKind,
				RequestHash: ex.RequestHash,
				Request:     req,
				Response:    resp,
			}
		}
		return f.Success(detail)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "session %s", session.ID)
	if session.Label != "" {
		fmt.Fprintf(cmd.OutOrStdout(), " (%s)", session.Label)
	}
	fmt.Fprintf(cmd.OutOrStdout(), ", %d exchanges, %d uid names\n", len(exchanges), len(uids))

	for _, ex := range exchanges {
		fmt.Fprintf(cmd.OutOrStdout(), "%4d  %-40s %.12s\n", ex.Seq, ex.RequestKind, ex.RequestHash)
		if opts.Verbose {
			if err := printExchangeTrees(cmd, ex); err != nil {
				return err
			}
		}
	}
	return nil
}

func printExchangeTrees(cmd *cobra.Command, ex trace.Exchange) error {
	req, err := variant.MarshalPretty(variant.EncodeTransport(ex.Request))
	if err != nil {
		return WrapExitError(ExitFailure, "failed to serialize request", err)
	}
	resp, err := variant.MarshalPretty(variant.EncodeTransport(ex.Response))
	if err != nil {
		return WrapExitError(ExitFailure, "failed to serialize response", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "      request:  %s\n", string(req))
	fmt.Fprintf(cmd.OutOrStdout(), "      response: %s\n", string(resp))
	return nil
}

// compactDocument marshals a stored tree for embedding in JSON output.
func compactDocument(v variant.Value) (json.RawMessage, error) {
	out, err := variant.MarshalCompact(variant.EncodeTransport(v))
	if err != nil {
		return nil, WrapExitError(ExitFailure, "failed to serialize exchange", err)
	}
	return json.RawMessage(out), nil
}

// openStore opens the trace database named by the flags/config.
func openStore(opts *RootOptions) (*trace.Store, error) {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return nil, err
	}
	st, err := trace.Open(cfg.TraceDB)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open trace database", err)
	}
	return st, nil
}

// formatter builds the output formatter for a command invocation.
func formatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// parseTimeFlag parses an RFC 3339 timestamp, empty meaning unset.
func parseTimeFlag(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}
