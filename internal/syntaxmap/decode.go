// Package syntaxmap decodes the packed token stream the service attaches to
// editor.open responses.
//
// The syntax map arrives as an opaque binary field rather than part of the
// JSON-shaped response tree. Its layout is fixed: a 16-byte header followed
// by 16-byte token records, all little-endian. The header stores the token
// count pre-multiplied by the record size, and each record stores its length
// doubled; both quirks come from the wire producer and are undone here.
package syntaxmap

import (
	"encoding/binary"
	"fmt"

	"github.com/skout-dev/skout/internal/uid"
)

const (
	headerSize = 16
	recordSize = 16

	// KindIdentifier is the resolved kind of identifier tokens, the ones
	// documentation comments attach to.
	KindIdentifier = "source.lang.swift.syntaxtype.identifier"
)

// Token is one decoded syntax-map entry: a resolved token kind and the byte
// range it covers in the source document.
type Token struct {
	Kind   string
	Offset int
	Length int
}

// Decode parses a syntax-map payload into its token sequence.
//
// Token kinds are resolved through r as they are decoded; a kind the service
// cannot name fails the whole decode with ErrUnresolvedKind. A payload
// shorter than its own header claims fails with ErrMalformed before any
// record is read. An empty token sequence is valid.
func Decode(data []byte, r *uid.Resolver) ([]Token, error) {
	count, err := tokenCount(data)
	if err != nil {
		return nil, err
	}

	tokens := make([]Token, 0, count)
	for i := 0; i < count; i++ {
		base := headerSize + i*recordSize
		kindID := binary.LittleEndian.Uint64(data[base : base+8])
		offset := binary.LittleEndian.Uint32(data[base+8 : base+12])
		stored := binary.LittleEndian.Uint32(data[base+12 : base+16])

		kind, ok := r.Resolve(kindID)
		if !ok {
			return nil, fmt.Errorf("%w: record %d, uid %d", ErrUnresolvedKind, i, kindID)
		}

		tokens = append(tokens, Token{
			Kind:   kind,
			Offset: int(offset),
			Length: int(stored >> 1),
		})
	}
	return tokens, nil
}

// IdentifierOffsets decodes data and returns the start offsets of identifier
// tokens only, in stream order. Stream order is source order, so the result
// is ascending.
func IdentifierOffsets(data []byte, r *uid.Resolver) ([]int, error) {
	tokens, err := Decode(data, r)
	if err != nil {
		return nil, err
	}
	var offsets []int
	for _, tok := range tokens {
		if tok.Kind == KindIdentifier {
			offsets = append(offsets, tok.Offset)
		}
	}
	return offsets, nil
}

// NextIdentifier returns the first offset in offsets at or after pos.
// offsets must be ascending, as produced by IdentifierOffsets.
func NextIdentifier(offsets []int, pos int) (int, bool) {
	for _, off := range offsets {
		if off >= pos {
			return off, true
		}
	}
	return 0, false
}

// tokenCount validates the framing and returns the declared token count.
// The header stores count*16 in bytes [8,16); the low 4 bits are always
// zero on well-formed payloads and the shift discards them either way.
func tokenCount(data []byte) (int, error) {
	if len(data) < headerSize {
		return 0, fmt.Errorf("%w: %d byte header, want %d", ErrMalformed, len(data), headerSize)
	}
	stored := binary.LittleEndian.Uint64(data[8:16])
	count := stored >> 4

	avail := uint64(len(data)-headerSize) / recordSize
	if count > avail {
		return 0, fmt.Errorf("%w: header declares %d tokens, payload holds %d", ErrMalformed, count, avail)
	}
	return int(count), nil
}
