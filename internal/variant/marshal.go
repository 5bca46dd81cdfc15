package variant

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrUnsupportedValue reports a value shape that must not reach a
// serializer: a raw Bytes payload that was never decoded or stripped, a nil
// Value, or a type outside the sealed union. It always indicates a logic
// error upstream, not a recoverable runtime condition.
var ErrUnsupportedValue = errors.New("variant: unsupported value in serializer")

// MarshalPretty renders v as indented JSON text. Dictionary keys appear in
// insertion order, HTML characters are not escaped, and the result ends
// without a trailing newline.
//
// Bytes values are rejected: binary payloads are decoded by syntaxmap or
// stripped by the caller before serialization.
func MarshalPretty(v Value) ([]byte, error) {
	m := marshaler{indent: "  "}
	if err := m.value(v, 0); err != nil {
		return nil, err
	}
	return m.buf.Bytes(), nil
}

// MarshalCompact renders v as JSON with no whitespace, preserving key order.
// The trace store uses it so a replayed response serializes byte-for-byte
// like the live one did.
func MarshalCompact(v Value) ([]byte, error) {
	m := marshaler{}
	if err := m.value(v, 0); err != nil {
		return nil, err
	}
	return m.buf.Bytes(), nil
}

type marshaler struct {
	buf    bytes.Buffer
	indent string // empty for compact output
}

func (m *marshaler) value(v Value, depth int) error {
	switch val := v.(type) {
	case Null:
		m.buf.WriteString("null")
	case Bool:
		if val {
			m.buf.WriteString("true")
		} else {
			m.buf.WriteString("false")
		}
	case Int:
		m.buf.WriteString(strconv.FormatInt(int64(val), 10))
	case Uint:
		m.buf.WriteString(strconv.FormatUint(uint64(val), 10))
	case Double:
		// json.Marshal owns float formatting; it also rejects NaN and Inf,
		// which have no JSON representation.
		b, err := json.Marshal(float64(val))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnsupportedValue, err)
		}
		m.buf.Write(b)
	case String:
		s, err := encodeJSONString(string(val))
		if err != nil {
			return err
		}
		m.buf.Write(s)
	case Bytes:
		return fmt.Errorf("%w: raw binary payload (%d bytes)", ErrUnsupportedValue, len(val))
	case Array:
		return m.array(val, depth)
	case *Dictionary:
		return m.dictionary(val, depth)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
	return nil
}

func (m *marshaler) array(arr Array, depth int) error {
	if len(arr) == 0 {
		m.buf.WriteString("[]")
		return nil
	}
	m.buf.WriteByte('[')
	for i, el := range arr {
		if i > 0 {
			m.buf.WriteByte(',')
		}
		m.newline(depth + 1)
		if err := m.value(el, depth+1); err != nil {
			return fmt.Errorf("array[%d]: %w", i, err)
		}
	}
	m.newline(depth)
	m.buf.WriteByte(']')
	return nil
}

func (m *marshaler) dictionary(d *Dictionary, depth int) error {
	if d.Len() == 0 {
		m.buf.WriteString("{}")
		return nil
	}
	m.buf.WriteByte('{')
	for i, p := range d.Pairs() {
		if i > 0 {
			m.buf.WriteByte(',')
		}
		m.newline(depth + 1)
		key, err := encodeJSONString(p.Key)
		if err != nil {
			return fmt.Errorf("key %q: %w", p.Key, err)
		}
		m.buf.Write(key)
		m.buf.WriteByte(':')
		if m.indent != "" {
			m.buf.WriteByte(' ')
		}
		if err := m.value(p.Value, depth+1); err != nil {
			return fmt.Errorf("value for key %q: %w", p.Key, err)
		}
	}
	m.newline(depth)
	m.buf.WriteByte('}')
	return nil
}

func (m *marshaler) newline(depth int) {
	if m.indent == "" {
		return
	}
	m.buf.WriteByte('\n')
	for i := 0; i < depth; i++ {
		m.buf.WriteString(m.indent)
	}
}

// encodeJSONString escapes s as a JSON string without HTML escaping, so
// source text containing <, >, or & renders exactly as written.
func encodeJSONString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("encode string: %w", err)
	}
	// json.Encoder appends a trailing newline; drop it.
	out := buf.Bytes()
	if n := len(out); n > 0 && out[n-1] == '\n' {
		out = out[:n-1]
	}
	return out, nil
}
