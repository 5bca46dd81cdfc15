package testutil

import (
	"fmt"
	"sync"

	"github.com/skout-dev/skout/internal/variant"
)

// ScriptedConn is a service connection that serves canned responses.
//
// Request consumes replies in the order they were scripted, so a test can
// assert both what was sent and how many calls were made. ResolveUID serves
// a fixed table. The zero value is usable: every Request fails with "script
// exhausted" and every ResolveUID misses.
//
// Thread-safety: all methods are safe for concurrent use, though tests are
// expected to drive it from one goroutine.
type ScriptedConn struct {
	mu sync.Mutex

	// Replies are consumed front to back by Request. A reply may be
	// cloned freely by the caller; the conn hands out clones so scripted
	// trees survive in-place enrichment.
	Replies []variant.Value

	// UIDs backs ResolveUID.
	UIDs map[uint64]string

	// RequestErr, when set, fails every Request immediately.
	RequestErr error

	// Requests records every request dictionary, cloned at call time.
	Requests []*variant.Dictionary

	// UIDCalls records every ResolveUID argument in order.
	UIDCalls []uint64

	// Closed reports whether Close was called.
	Closed bool
}

// Request implements service.Conn.
func (c *ScriptedConn) Request(req *variant.Dictionary) (variant.Value, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Requests = append(c.Requests, req.Clone())

	if c.RequestErr != nil {
		return nil, c.RequestErr
	}
	if len(c.Replies) == 0 {
		return nil, fmt.Errorf("testutil: script exhausted after %d requests", len(c.Requests))
	}
	reply := c.Replies[0]
	c.Replies = c.Replies[1:]
	return variant.Clone(reply), nil
}

// ResolveUID implements service.Conn.
func (c *ScriptedConn) ResolveUID(id uint64) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.UIDCalls = append(c.UIDCalls, id)
	name, ok := c.UIDs[id]
	return name, ok
}

// Close implements service.Conn.
func (c *ScriptedConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Closed = true
	return nil
}

// RequestCount returns how many requests were issued.
func (c *ScriptedConn) RequestCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Requests)
}
