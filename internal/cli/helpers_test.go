package cli

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/skout-dev/skout/internal/testutil"
	"github.com/skout-dev/skout/internal/trace"
	"github.com/skout-dev/skout/internal/variant"
)

// seedReplaySession records the given request/reply pairs and uid names
// into a fresh session at dbPath and returns the session id. Requests are
// recorded through the real recording path so hashes match what a later
// replay computes.
func seedReplaySession(t *testing.T, dbPath string, label string, requests []*variant.Dictionary, replies []variant.Value, uids map[uint64]string) string {
	t.Helper()

	st, err := trace.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	session, err := st.CreateSession(context.Background(), label)
	require.NoError(t, err)

	scripted := &testutil.ScriptedConn{Replies: replies, UIDs: uids}
	rec := trace.NewRecording(scripted, st, session, zerolog.Nop())
	for _, req := range requests {
		_, err := rec.Request(req)
		require.NoError(t, err)
	}
	for id := range uids {
		_, ok := rec.ResolveUID(id)
		require.True(t, ok)
	}
	require.NoError(t, rec.Close())

	return session
}
