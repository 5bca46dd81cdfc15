package trace

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/skout-dev/skout/internal/variant"
)

// ErrNoRecordedResponse reports a replayed request with no remaining match
// in the session.
var ErrNoRecordedResponse = errors.New("trace: no recorded response for request")

// ReplayConn serves a recorded session back as if it were the live service.
//
// Requests are matched by content hash and consumed in recorded order: the
// first unconsumed exchange with the same hash answers, so a run that
// repeats a request gets the successive recorded responses, in order. UID
// lookups come from the session's uid table and are never consumed.
type ReplayConn struct {
	mu        sync.Mutex
	exchanges []Exchange
	consumed  []bool
	uids      map[uint64]string
}

// NewReplay loads a session from the store into a replay connection.
func NewReplay(ctx context.Context, store *Store, sessionID string) (*ReplayConn, error) {
	if _, err := store.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}

	exchanges, err := store.ReadExchanges(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	uids, err := store.ReadUIDNames(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return &ReplayConn{
		exchanges: exchanges,
		consumed:  make([]bool, len(exchanges)),
		uids:      uids,
	}, nil
}

// Request implements service.Conn. The returned tree is a clone; callers
// mutate responses in place and must not corrupt the recording.
func (r *ReplayConn) Request(req *variant.Dictionary) (variant.Value, error) {
	hash, err := RequestHash(req)
	if err != nil {
		return nil, fmt.Errorf("replay request: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, ex := range r.exchanges {
		if r.consumed[i] || ex.RequestHash != hash {
			continue
		}
		r.consumed[i] = true
		return variant.Clone(ex.Response), nil
	}
	return nil, fmt.Errorf("%w (kind %q, hash %s)", ErrNoRecordedResponse, requestKind(req), shortHash(hash))
}

// ResolveUID implements service.Conn.
func (r *ReplayConn) ResolveUID(id uint64) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name, ok := r.uids[id]
	return name, ok
}

// Close implements service.Conn.
func (r *ReplayConn) Close() error {
	return nil
}

// Remaining returns how many recorded exchanges were never consumed. A
// faithful replay of the original run ends at zero.
func (r *ReplayConn) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, c := range r.consumed {
		if !c {
			n++
		}
	}
	return n
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
