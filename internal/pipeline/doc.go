package pipeline

import (
	"fmt"
	"os"
	"regexp"

	"github.com/skout-dev/skout/internal/enrich"
	"github.com/skout-dev/skout/internal/service"
	"github.com/skout-dev/skout/internal/syntaxmap"
	"github.com/skout-dev/skout/internal/variant"
)

// docCommentPattern finds candidate documentation comment ends: the tail of
// a /// line or the closing of a block comment. Each candidate is tied to
// the first identifier token at or after it; adjacent candidates may land
// on the same identifier, which mirrors how the service itself associates
// docs.
var docCommentPattern = regexp.MustCompile(`(?m)(///.*$)|(\*/)`)

// Doc opens the file by path and returns its structure tree fully
// enriched: UIDs resolved, declaration nodes merged with their cursor
// query results, MARK comments carrying their source text, and a
// key.doc.comments array of cursor replies for the documentation comments
// found in the source.
//
// compilerArgs is the compiler invocation for the file, passed through to
// every cursor query.
func (p *Pipeline) Doc(path string, compilerArgs []string) (*variant.Dictionary, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file: %w", err)
	}

	reply, err := p.open(path, path, "")
	if err != nil {
		return nil, err
	}

	// Identifier offsets must come out of the syntax map before the blob
	// is stripped from the output tree.
	blob, err := syntaxMapBlob(reply)
	if err != nil {
		return nil, err
	}
	identifiers, err := syntaxmap.IdentifierOffsets(blob, p.res)
	if err != nil {
		return nil, fmt.Errorf("failed to decode syntax map: %w", err)
	}
	reply.Delete(service.KeySyntaxMap)

	querier := &enrich.ConnQuerier{Conn: p.conn}
	sup := &enrich.CursorQuery{SourceFile: path, CompilerArgs: compilerArgs}
	w := &enrich.Walker{Resolver: p.res, Cursor: querier, Source: enrich.FileSource{}}
	if err := w.Enrich(reply, sup); err != nil {
		return nil, fmt.Errorf("failed to enrich document: %w", err)
	}

	comments, err := p.collectDocComments(source, identifiers, querier, sup)
	if err != nil {
		return nil, err
	}
	if len(comments) > 0 {
		reply.Set(service.KeyDocComments, comments)
	}
	return reply, nil
}

// collectDocComments scans the source for documentation comment candidates
// and queries the declaration each one documents. Replies are resolved and
// collected in source order; empty replies are dropped.
func (p *Pipeline) collectDocComments(source []byte, identifiers []int, querier enrich.CursorQuerier, sup *enrich.CursorQuery) (variant.Array, error) {
	resolve := &enrich.Walker{Resolver: p.res}

	var comments variant.Array
	for _, loc := range docCommentPattern.FindAllIndex(source, -1) {
		offset, ok := syntaxmap.NextIdentifier(identifiers, loc[1])
		if !ok {
			continue
		}
		sup.Offset = int64(offset)
		node, err := querier.CursorInfo(sup)
		if err != nil {
			return nil, fmt.Errorf("cursor query at offset %d: %w", offset, err)
		}
		if node == nil || node.Len() == 0 {
			continue
		}
		if err := resolve.Enrich(node, nil); err != nil {
			return nil, err
		}
		comments = append(comments, node)
	}
	return comments, nil
}
