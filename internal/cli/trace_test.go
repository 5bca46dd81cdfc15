package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skout-dev/skout/internal/service"
	"github.com/skout-dev/skout/internal/trace"
	"github.com/skout-dev/skout/internal/variant"
)

func seedTraceSession(t *testing.T, dbPath, label string) string {
	t.Helper()
	reply := variant.NewDictionary(
		variant.P(service.KeyKind, variant.Uint(4_300_000_401)),
		variant.P(service.KeySyntaxMap, variant.Bytes{0xca, 0xfe}),
	)
	return seedReplaySession(t, dbPath, label,
		[]*variant.Dictionary{service.EditorOpen("main.swift", "/src/main.swift", "")},
		[]variant.Value{reply},
		map[uint64]string{4_300_000_401: "source.lang.swift.decl.function.free"})
}

func runTraceCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestTraceListEmptyDatabase(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	dbPath := filepath.Join(t.TempDir(), "trace.db")
	st, err := trace.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, err := runTraceCommand(t, "trace", "list", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "no recorded sessions")
}

func TestTraceListShowsSessions(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	dbPath := filepath.Join(t.TempDir(), "trace.db")
	session := seedTraceSession(t, dbPath, "baseline")

	out, err := runTraceCommand(t, "trace", "list", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, session)
	assert.Contains(t, out, "baseline")
}

func TestTraceListJSON(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	dbPath := filepath.Join(t.TempDir(), "trace.db")
	session := seedTraceSession(t, dbPath, "baseline")

	out, err := runTraceCommand(t, "--format", "json", "trace", "list", "--db", dbPath)
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   []SessionInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, session, resp.Data[0].ID)
	assert.Equal(t, "baseline", resp.Data[0].Label)
	assert.NotEmpty(t, resp.Data[0].CreatedAt)
}

func TestTraceListKindFilter(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	dbPath := filepath.Join(t.TempDir(), "trace.db")
	session := seedTraceSession(t, dbPath, "baseline")

	out, err := runTraceCommand(t, "trace", "list", "--db", dbPath,
		"--kind", "source.request.editor.open")
	require.NoError(t, err)
	assert.Contains(t, out, session)

	out, err = runTraceCommand(t, "trace", "list", "--db", dbPath,
		"--kind", "source.request.cursorinfo")
	require.NoError(t, err)
	assert.Contains(t, out, "no recorded sessions")
}

func TestTraceListInvalidSince(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	_, err := runTraceCommand(t, "trace", "list", "--since", "yesterday")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --since")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTraceShowText(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	dbPath := filepath.Join(t.TempDir(), "trace.db")
	session := seedTraceSession(t, dbPath, "baseline")

	out, err := runTraceCommand(t, "trace", "show", session, "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "session "+session)
	assert.Contains(t, out, "(baseline)")
	assert.Contains(t, out, "1 exchanges")
	assert.Contains(t, out, "1 uid names")
	assert.Contains(t, out, "source.request.editor.open")
}

func TestTraceShowJSON(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	dbPath := filepath.Join(t.TempDir(), "trace.db")
	session := seedTraceSession(t, dbPath, "baseline")

	out, err := runTraceCommand(t, "--format", "json", "trace", "show", session, "--db", dbPath)
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Session   SessionInfo `json:"session"`
			Exchanges []struct {
				Seq         int64           `json:"seq"`
				RequestKind string          `json:"request_kind"`
				RequestHash string          `json:"request_hash"`
				Request     json.RawMessage `json:"request"`
				Response    json.RawMessage `json:"response"`
			} `json:"exchanges"`
			UIDNames map[string]string `json:"uid_names"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, session, resp.Data.Session.ID)

	require.Len(t, resp.Data.Exchanges, 1)
	ex := resp.Data.Exchanges[0]
	assert.Equal(t, int64(1), ex.Seq)
	assert.Equal(t, "source.request.editor.open", ex.RequestKind)
	assert.Len(t, ex.RequestHash, 64)
	assert.Contains(t, string(ex.Request), "main.swift")
	assert.Contains(t, string(ex.Response), variant.BinaryKey)
	assert.Contains(t, string(ex.Response), variant.UIDKey)

	assert.Equal(t, "source.lang.swift.decl.function.free", resp.Data.UIDNames["4300000401"])
}

func TestTraceShowUnknownSession(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	dbPath := filepath.Join(t.TempDir(), "trace.db")
	st, err := trace.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	_, err = runTraceCommand(t, "trace", "show", "no-such-session", "--db", dbPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load session")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
