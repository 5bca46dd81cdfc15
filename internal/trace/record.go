package trace

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/skout-dev/skout/internal/service"
	"github.com/skout-dev/skout/internal/variant"
)

// RecordingConn wraps a live connection and writes every successful
// exchange to the store. Failed requests are not recorded; a trace holds
// only traffic that produced a response.
//
// The pipeline is synchronous and uncancellable, so store writes run under
// context.Background rather than a caller-supplied context.
type RecordingConn struct {
	mu      sync.Mutex
	conn    service.Conn
	store   *Store
	session string
	seq     int64
	log     zerolog.Logger
}

// NewRecording wraps conn so its traffic lands in the given session.
func NewRecording(conn service.Conn, store *Store, sessionID string, log zerolog.Logger) *RecordingConn {
	return &RecordingConn{
		conn:    conn,
		store:   store,
		session: sessionID,
		log:     log.With().Str("component", "recorder").Str("session", sessionID).Logger(),
	}
}

// Request implements service.Conn. A response that cannot be recorded fails
// the call: a recording run that silently drops exchanges would replay
// wrong.
func (r *RecordingConn) Request(req *variant.Dictionary) (variant.Value, error) {
	resp, err := r.conn.Request(req)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.seq++
	seq := r.seq
	r.mu.Unlock()

	if err := r.store.WriteExchange(context.Background(), r.session, seq, req, resp); err != nil {
		return nil, fmt.Errorf("failed to record exchange %d: %w", seq, err)
	}
	return resp, nil
}

// ResolveUID implements service.Conn. Successful lookups are recorded; a
// failed write only logs, because this call has no error channel and the
// resolution itself did succeed.
func (r *RecordingConn) ResolveUID(id uint64) (string, bool) {
	name, ok := r.conn.ResolveUID(id)
	if !ok {
		return "", false
	}

	if err := r.store.WriteUIDName(context.Background(), r.session, id, name); err != nil {
		r.log.Error().Err(err).Uint64("uid", id).Msg("failed to record uid name")
	}
	return name, true
}

// Close implements service.Conn.
func (r *RecordingConn) Close() error {
	return r.conn.Close()
}
