// Package enrich turns raw service responses into readable trees: UIDs
// become their symbolic names and declaration nodes absorb the result of a
// per-node cursor query. MARK comments gain their source text, which the
// service reports only by range.
//
// The walker's recursion is pure over the tree shape. Everything that
// touches the outside world, the cursor query and the source file read,
// sits behind an injectable interface, so the traversal is testable without
// a live service.
package enrich

import (
	"fmt"
	"strings"

	"github.com/skout-dev/skout/internal/service"
	"github.com/skout-dev/skout/internal/uid"
	"github.com/skout-dev/skout/internal/variant"
)

// CursorQuery carries the context for supplementary cursor queries issued
// mid-enrichment: the document and compiler invocation they run against,
// plus the offset slot the walker fills in per declaration node. One value
// serves one enrichment run.
type CursorQuery struct {
	SourceFile   string
	CompilerArgs []string

	// Offset is set by the walker to the declaration's name offset just
	// before each query.
	Offset int64
}

// CursorQuerier issues a cursor query and returns the reply node.
type CursorQuerier interface {
	CursorInfo(q *CursorQuery) (*variant.Dictionary, error)
}

// Walker enriches response trees in place.
type Walker struct {
	Resolver *uid.Resolver
	Cursor   CursorQuerier
	Source   SourceProvider
}

// Enrich walks d depth-first and resolves every UID it can, replacing the
// Uint with its name. UIDs that do not resolve stay numeric; that is not an
// error.
//
// When sup is non-nil, two kinds of nodes get extra treatment at their
// key.kind field:
//
//   - a declaration kind with a non-negative key.nameoffset triggers a
//     cursor query at that offset, and the reply's keys are merged into the
//     node. The node's own key.kind always wins; every other colliding key
//     is overwritten by the reply.
//   - a comment-mark kind causes the node's key.offset/key.length range to
//     be read from sup's source file and stored under key.name. A failed
//     read aborts the run with a SourceReadError.
//
// With sup == nil this is a pure resolution pass, idempotent on trees that
// have nothing left to resolve.
func (w *Walker) Enrich(d *variant.Dictionary, sup *CursorQuery) error {
	for _, key := range d.Keys() {
		v, ok := d.Get(key)
		if !ok {
			continue
		}
		switch val := v.(type) {
		case *variant.Dictionary:
			if err := w.Enrich(val, sup); err != nil {
				return err
			}
		case variant.Array:
			if err := w.enrichArray(val, sup); err != nil {
				return err
			}
		case variant.Uint:
			if err := w.enrichUID(d, key, uint64(val), sup); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *Walker) enrichArray(a variant.Array, sup *CursorQuery) error {
	for _, el := range a {
		switch v := el.(type) {
		case *variant.Dictionary:
			if err := w.Enrich(v, sup); err != nil {
				return err
			}
		case variant.Array:
			if err := w.enrichArray(v, sup); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *Walker) enrichUID(node *variant.Dictionary, key string, id uint64, sup *CursorQuery) error {
	name, ok := w.Resolver.Resolve(id)
	if !ok {
		return nil
	}
	node.Set(key, variant.String(name))

	if sup == nil || key != service.KeyKind {
		return nil
	}

	switch {
	case strings.HasPrefix(name, service.DeclPrefix):
		return w.queryDeclaration(node, sup)
	case name == service.KindCommentMark:
		return w.readMarkText(node, sup)
	}
	return nil
}

// queryDeclaration issues the cursor query for a declaration node and merges
// the reply. Nodes without a usable name offset are skipped; plenty of
// declaration kinds carry none.
func (w *Walker) queryDeclaration(node *variant.Dictionary, sup *CursorQuery) error {
	v, ok := node.Get(service.KeyNameOffset)
	if !ok {
		return nil
	}
	nameOffset, ok := variant.IntValue(v)
	if !ok || nameOffset < 0 {
		return nil
	}

	sup.Offset = nameOffset
	reply, err := w.Cursor.CursorInfo(sup)
	if err != nil {
		return fmt.Errorf("cursor query at offset %d: %w", nameOffset, err)
	}
	if reply == nil {
		return nil
	}

	// Resolve the reply's own UIDs first so merged values read as text.
	if err := w.Enrich(reply, nil); err != nil {
		return err
	}

	for _, p := range reply.Pairs() {
		if p.Key == service.KeyKind {
			continue
		}
		node.Set(p.Key, p.Value)
	}
	return nil
}

// readMarkText loads the comment's byte range from the source file and
// stores it as the node's name.
func (w *Walker) readMarkText(node *variant.Dictionary, sup *CursorQuery) error {
	offset, ok := intField(node, service.KeyOffset)
	if !ok {
		return &SourceReadError{Path: sup.SourceFile, Err: fmt.Errorf("comment mark node has no %s", service.KeyOffset)}
	}
	length, ok := intField(node, service.KeyLength)
	if !ok {
		return &SourceReadError{Path: sup.SourceFile, Offset: offset, Err: fmt.Errorf("comment mark node has no %s", service.KeyLength)}
	}

	text, err := w.Source.ReadRange(sup.SourceFile, offset, length)
	if err != nil {
		return &SourceReadError{Path: sup.SourceFile, Offset: offset, Length: length, Err: err}
	}
	node.Set(service.KeyName, variant.String(text))
	return nil
}

func intField(d *variant.Dictionary, key string) (int, bool) {
	v, ok := d.Get(key)
	if !ok {
		return 0, false
	}
	n, ok := variant.IntValue(v)
	if !ok {
		return 0, false
	}
	return int(n), true
}
