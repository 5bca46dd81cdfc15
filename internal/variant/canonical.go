package variant

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical renders v as canonical JSON for content-addressed
// hashing: object keys sorted by UTF-16 code units, strings NFC-normalized,
// no HTML escaping, no insignificant whitespace. It exists so the trace
// store can derive a stable hash for a request regardless of the key order
// a caller built it in.
//
// This is a hashing serialization only. User-facing output comes from
// MarshalPretty, which preserves key order instead of sorting.
//
// Bytes values are rejected; requests never carry binary payloads.
func MarshalCanonical(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := canonicalValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func canonicalValue(buf *bytes.Buffer, v Value) error {
	switch val := v.(type) {
	case Null:
		buf.WriteString("null")
	case Bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case Int:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case Uint:
		buf.WriteString(strconv.FormatUint(uint64(val), 10))
	case Double:
		b, err := json.Marshal(float64(val))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnsupportedValue, err)
		}
		buf.Write(b)
	case String:
		s, err := canonicalString(string(val))
		if err != nil {
			return err
		}
		buf.Write(s)
	case Bytes:
		return fmt.Errorf("%w: raw binary payload in canonical form", ErrUnsupportedValue)
	case Array:
		buf.WriteByte('[')
		for i, el := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := canonicalValue(buf, el); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
	case *Dictionary:
		return canonicalDictionary(buf, val)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
	return nil
}

func canonicalDictionary(buf *bytes.Buffer, d *Dictionary) error {
	keys := d.Keys()
	slices.SortFunc(keys, compareUTF16)

	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := canonicalString(k)
		if err != nil {
			return fmt.Errorf("key %q: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		v, _ := d.Get(k)
		if err := canonicalValue(buf, v); err != nil {
			return fmt.Errorf("value for key %q: %w", k, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

// canonicalString escapes s as a JSON string with NFC normalization applied
// at the serialization boundary and HTML escaping off.
func canonicalString(s string) ([]byte, error) {
	return encodeJSONString(norm.NFC.String(s))
}

// compareUTF16 orders strings by UTF-16 code units. Go's native string
// comparison works on UTF-8 bytes, which sorts supplementary-plane
// characters differently, so the code units are compared explicitly.
func compareUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	n := min(len(a16), len(b16))
	for i := 0; i < n; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	default:
		return 0
	}
}
