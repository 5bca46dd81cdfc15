package trace

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/skout-dev/skout/internal/variant"
)

// Session is one recorded run.
type Session struct {
	ID        string
	Label     string
	CreatedAt time.Time
}

// Exchange is one recorded request/response pair.
type Exchange struct {
	SessionID   string
	Seq         int64
	RequestKind string
	RequestHash string
	Request     *variant.Dictionary
	Response    variant.Value
}

// Filter narrows a session listing. The zero value matches everything.
type Filter struct {
	// Kind keeps only sessions containing at least one exchange of this
	// request kind.
	Kind string

	// Since/Until bound session creation time. Zero means unbounded.
	Since time.Time
	Until time.Time

	// Limit caps the result count; 0 means no cap.
	Limit int
}

// compile builds the WHERE clause and parameters for the filter. All values
// are parameterized, never interpolated.
func (f Filter) compile() (string, []any) {
	var conds []string
	var params []any

	if f.Kind != "" {
		conds = append(conds, `EXISTS (
			SELECT 1 FROM exchanges e
			WHERE e.session_id = sessions.id AND e.request_kind = ?
		)`)
		params = append(params, f.Kind)
	}
	if !f.Since.IsZero() {
		conds = append(conds, "created_at >= ?")
		params = append(params, f.Since.UTC().Format(timeFormat))
	}
	if !f.Until.IsZero() {
		conds = append(conds, "created_at <= ?")
		params = append(params, f.Until.UTC().Format(timeFormat))
	}

	if len(conds) == 0 {
		return "", params
	}
	return " WHERE " + strings.Join(conds, " AND "), params
}

// ListSessions returns sessions matching f, newest first. Ordering is
// deterministic: creation time, then id as tiebreaker.
func (s *Store) ListSessions(ctx context.Context, f Filter) ([]Session, error) {
	where, params := f.compile()

	query := "SELECT id, label, created_at FROM sessions" + where +
		" ORDER BY created_at DESC, id DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		params = append(params, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// GetSession returns one session by id.
func (s *Store) GetSession(ctx context.Context, id string) (Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, label, created_at FROM sessions WHERE id = ?
	`, id)

	var sess Session
	var createdAt string
	if err := row.Scan(&sess.ID, &sess.Label, &createdAt); err != nil {
		return Session{}, fmt.Errorf("get session %s: %w", id, err)
	}
	t, err := time.Parse(timeFormat, createdAt)
	if err != nil {
		return Session{}, fmt.Errorf("get session %s: bad created_at: %w", id, err)
	}
	sess.CreatedAt = t
	return sess, nil
}

// ReadExchanges returns every exchange of a session in recorded order.
func (s *Store) ReadExchanges(ctx context.Context, sessionID string) ([]Exchange, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, seq, request_kind, request_hash, request_json, response_json
		FROM exchanges
		WHERE session_id = ?
		ORDER BY seq ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("read exchanges: %w", err)
	}
	defer rows.Close()

	exchanges := []Exchange{}
	for rows.Next() {
		ex, err := scanExchange(rows)
		if err != nil {
			return nil, err
		}
		exchanges = append(exchanges, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exchanges: %w", err)
	}
	return exchanges, nil
}

// ReadUIDNames returns the session's recorded UID table.
func (s *Store) ReadUIDNames(ctx context.Context, sessionID string) (map[uint64]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT uid, name FROM uid_names WHERE session_id = ?
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("read uid names: %w", err)
	}
	defer rows.Close()

	names := make(map[uint64]string)
	for rows.Next() {
		var uid int64
		var name string
		if err := rows.Scan(&uid, &name); err != nil {
			return nil, fmt.Errorf("scan uid name: %w", err)
		}
		names[uint64(uid)] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate uid names: %w", err)
	}
	return names, nil
}

func scanSession(rows *sql.Rows) (Session, error) {
	var sess Session
	var createdAt string
	if err := rows.Scan(&sess.ID, &sess.Label, &createdAt); err != nil {
		return Session{}, fmt.Errorf("scan session: %w", err)
	}
	t, err := time.Parse(timeFormat, createdAt)
	if err != nil {
		return Session{}, fmt.Errorf("scan session: bad created_at: %w", err)
	}
	sess.CreatedAt = t
	return sess, nil
}

func scanExchange(rows *sql.Rows) (Exchange, error) {
	var ex Exchange
	var reqJSON, respJSON string
	if err := rows.Scan(&ex.SessionID, &ex.Seq, &ex.RequestKind, &ex.RequestHash, &reqJSON, &respJSON); err != nil {
		return Exchange{}, fmt.Errorf("scan exchange: %w", err)
	}

	req, err := decodeTree(reqJSON)
	if err != nil {
		return Exchange{}, fmt.Errorf("scan exchange: request: %w", err)
	}
	d, ok := req.(*variant.Dictionary)
	if !ok {
		return Exchange{}, fmt.Errorf("scan exchange: request is %T, want dictionary", req)
	}
	ex.Request = d

	resp, err := decodeTree(respJSON)
	if err != nil {
		return Exchange{}, fmt.Errorf("scan exchange: response: %w", err)
	}
	ex.Response = resp
	return ex, nil
}
