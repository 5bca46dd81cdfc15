package trace

import (
	"context"
	"fmt"

	"github.com/skout-dev/skout/internal/service"
	"github.com/skout-dev/skout/internal/variant"
)

// WriteExchange inserts one request/response pair at the given position in
// the session. Both trees are stored as order-preserving compact JSON in
// the transport encoding, so binary fields and UID shapes survive the round
// trip through the database.
func (s *Store) WriteExchange(ctx context.Context, sessionID string, seq int64, req *variant.Dictionary, resp variant.Value) error {
	hash, err := RequestHash(req)
	if err != nil {
		return fmt.Errorf("write exchange: %w", err)
	}

	reqJSON, err := encodeTree(req)
	if err != nil {
		return fmt.Errorf("write exchange: request: %w", err)
	}
	respJSON, err := encodeTree(resp)
	if err != nil {
		return fmt.Errorf("write exchange: response: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO exchanges
		(session_id, seq, request_kind, request_hash, request_json, response_json)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		sessionID,
		seq,
		requestKind(req),
		hash,
		reqJSON,
		respJSON,
	)
	if err != nil {
		return fmt.Errorf("write exchange: %w", err)
	}
	return nil
}

// WriteUIDName records a resolved (uid, name) pair for the session.
// Duplicate writes are silently ignored; the name for a UID never changes
// within a service's lifetime.
func (s *Store) WriteUIDName(ctx context.Context, sessionID string, uid uint64, name string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO uid_names (session_id, uid, name)
		VALUES (?, ?, ?)
		ON CONFLICT(session_id, uid) DO NOTHING
	`, sessionID, int64(uid), name)
	if err != nil {
		return fmt.Errorf("write uid name: %w", err)
	}
	return nil
}

// requestKind extracts the request kind for indexing. Requests without a
// textual key.request index as empty.
func requestKind(req *variant.Dictionary) string {
	v, ok := req.Get(service.KeyRequest)
	if !ok {
		return ""
	}
	s, ok := v.(variant.String)
	if !ok {
		return ""
	}
	return string(s)
}

// encodeTree renders a tree as storable JSON text: transport-encoded so no
// Bytes or Uint leaf reaches the serializer, compact so key order is kept.
func encodeTree(v variant.Value) (string, error) {
	data, err := variant.MarshalCompact(variant.EncodeTransport(v))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeTree inverts encodeTree.
func decodeTree(text string) (variant.Value, error) {
	v, err := variant.FromJSON([]byte(text))
	if err != nil {
		return nil, err
	}
	return variant.DecodeTransport(v)
}
