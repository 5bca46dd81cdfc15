// Package pipeline composes the service round trips into the operations the
// CLI exposes: structure dumps, syntax token streams, declaration docs, and
// raw request passthrough.
//
// Every operation is synchronous and single-threaded. Service calls happen
// exactly where the control flow reaches them; nothing is batched, retried,
// or reordered, so output is deterministic for a given source and service.
package pipeline

import (
	"fmt"

	"github.com/skout-dev/skout/internal/enrich"
	"github.com/skout-dev/skout/internal/service"
	"github.com/skout-dev/skout/internal/syntaxmap"
	"github.com/skout-dev/skout/internal/uid"
	"github.com/skout-dev/skout/internal/variant"
)

// Pipeline runs analysis operations against one service connection. The
// UID cache is shared across all operations on the same Pipeline, so a
// kind resolved during a structure dump never costs a second lookup during
// a later doc run.
type Pipeline struct {
	conn service.Conn
	res  *uid.Resolver
}

// New builds a Pipeline on top of conn. UID lookups go through the
// connection, which for a replay connection means the recorded name table.
func New(conn service.Conn) *Pipeline {
	return &Pipeline{
		conn: conn,
		res:  uid.New(conn.ResolveUID),
	}
}

// Resolver returns the pipeline's shared UID cache.
func (p *Pipeline) Resolver() *uid.Resolver {
	return p.res
}

// Structure opens the document and returns its structure tree with UIDs
// resolved and the packed syntax map stripped. No cursor queries are
// issued.
func (p *Pipeline) Structure(name, path, text string) (*variant.Dictionary, error) {
	reply, err := p.open(name, path, text)
	if err != nil {
		return nil, err
	}
	reply.Delete(service.KeySyntaxMap)

	w := &enrich.Walker{Resolver: p.res}
	if err := w.Enrich(reply, nil); err != nil {
		return nil, fmt.Errorf("failed to enrich structure: %w", err)
	}
	return reply, nil
}

// Syntax opens the document and decodes its packed syntax map into the
// ordered token stream. The rest of the response is discarded.
func (p *Pipeline) Syntax(name, path, text string) ([]syntaxmap.Token, error) {
	reply, err := p.open(name, path, text)
	if err != nil {
		return nil, err
	}
	blob, err := syntaxMapBlob(reply)
	if err != nil {
		return nil, err
	}
	tokens, err := syntaxmap.Decode(blob, p.res)
	if err != nil {
		return nil, fmt.Errorf("failed to decode syntax map: %w", err)
	}
	return tokens, nil
}

// Raw sends a hand-written request untouched and returns the reply
// untouched. Callers that print the reply encode it for transport first,
// since a raw reply may still carry binary fields.
func (p *Pipeline) Raw(req *variant.Dictionary) (variant.Value, error) {
	reply, err := p.conn.Request(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return reply, nil
}

// open issues editor.open and asserts the reply is a dictionary.
func (p *Pipeline) open(name, path, text string) (*variant.Dictionary, error) {
	reply, err := p.conn.Request(service.EditorOpen(name, path, text))
	if err != nil {
		return nil, fmt.Errorf("editor.open failed: %w", err)
	}
	d, ok := reply.(*variant.Dictionary)
	if !ok {
		return nil, fmt.Errorf("editor.open reply is %T, want a dictionary", reply)
	}
	return d, nil
}

// syntaxMapBlob pulls the packed syntax map out of an editor.open reply.
func syntaxMapBlob(reply *variant.Dictionary) (variant.Bytes, error) {
	raw, ok := reply.Get(service.KeySyntaxMap)
	if !ok {
		return nil, fmt.Errorf("response has no %s field", service.KeySyntaxMap)
	}
	blob, ok := raw.(variant.Bytes)
	if !ok {
		return nil, fmt.Errorf("%s is %T, want binary", service.KeySyntaxMap, raw)
	}
	return blob, nil
}
