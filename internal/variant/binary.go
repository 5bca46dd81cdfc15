package variant

import (
	"encoding/base64"
	"fmt"
	"strconv"
)

// Transport wrapper keys. JSON has neither a binary type nor a distinct
// unsigned type, so payloads crossing a JSON boundary (the trace store, the
// bridge) wrap the two shapes plain JSON cannot carry. A dictionary holding
// exactly one of these keys stands for the wrapped value; both keys are
// reserved and never appear in real service responses.
const (
	// BinaryKey wraps a Bytes payload as base64 text.
	BinaryKey = "$binary"
	// UIDKey wraps a Uint so an unresolved UID keeps its shape. Without it
	// a replayed response would come back as plain integers and the
	// enrichment pass would no longer try to resolve them.
	UIDKey = "$uid"
)

// EncodeTransport returns a copy of v in which every Bytes leaf becomes
// {"$binary": <base64>} and every Uint leaf becomes {"$uid": <number>}.
// The result contains only shapes generic JSON can round-trip. The input is
// not mutated.
func EncodeTransport(v Value) Value {
	switch val := v.(type) {
	case Bytes:
		return NewDictionary(P(BinaryKey, String(base64.StdEncoding.EncodeToString(val))))
	case Uint:
		return NewDictionary(P(UIDKey, String(strconv.FormatUint(uint64(val), 10))))
	case Array:
		out := make(Array, len(val))
		for i, el := range val {
			out[i] = EncodeTransport(el)
		}
		return out
	case *Dictionary:
		out := &Dictionary{pairs: make([]Pair, len(val.pairs))}
		for i, p := range val.pairs {
			out.pairs[i] = Pair{Key: p.Key, Value: EncodeTransport(p.Value)}
		}
		return out
	default:
		return v
	}
}

// DecodeTransport inverts EncodeTransport. A malformed wrapper payload is an
// error. The input is not mutated.
func DecodeTransport(v Value) (Value, error) {
	switch val := v.(type) {
	case Array:
		out := make(Array, len(val))
		for i, el := range val {
			dec, err := DecodeTransport(el)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			out[i] = dec
		}
		return out, nil
	case *Dictionary:
		if raw, ok := wrapperPayload(val, BinaryKey); ok {
			data, err := base64.StdEncoding.DecodeString(raw)
			if err != nil {
				return nil, fmt.Errorf("variant: invalid %s payload: %w", BinaryKey, err)
			}
			return Bytes(data), nil
		}
		if raw, ok := wrapperPayload(val, UIDKey); ok {
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("variant: invalid %s payload %q", UIDKey, raw)
			}
			return Uint(id), nil
		}
		out := &Dictionary{pairs: make([]Pair, len(val.pairs))}
		for i, p := range val.pairs {
			dec, err := DecodeTransport(p.Value)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", p.Key, err)
			}
			out.pairs[i] = Pair{Key: p.Key, Value: dec}
		}
		return out, nil
	default:
		return v, nil
	}
}

func wrapperPayload(d *Dictionary, key string) (string, bool) {
	if d.Len() != 1 || d.pairs[0].Key != key {
		return "", false
	}
	s, ok := d.pairs[0].Value.(String)
	if !ok {
		return "", false
	}
	return string(s), true
}
