package variant

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// FromJSON parses JSON text into a Value, preserving object key order.
// Numbers are decoded without a float64 round trip: integral values that fit
// int64 become Int, with larger non-negative integers widening to Uint.
// Everything else becomes Double. Duplicate object keys are an error because
// Dictionary keys are unique.
func FromJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("variant: trailing data after JSON value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("variant: decode JSON: %w", err)
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return nil, fmt.Errorf("variant: unexpected delimiter %q", t)
		}
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		return decodeNumber(t)
	case nil:
		return Null{}, nil
	default:
		return nil, fmt.Errorf("variant: unexpected JSON token %T", tok)
	}
}

func decodeObject(dec *json.Decoder) (Value, error) {
	d := &Dictionary{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("variant: decode object key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("variant: object key is %T, want string", keyTok)
		}
		if _, exists := d.Get(key); exists {
			return nil, fmt.Errorf("variant: duplicate object key %q", key)
		}
		v, err := decodeValue(dec)
		if err != nil {
			return nil, fmt.Errorf("variant: object key %q: %w", key, err)
		}
		d.Set(key, v)
	}
	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("variant: decode object end: %w", err)
	}
	return d, nil
}

func decodeArray(dec *json.Decoder) (Value, error) {
	arr := Array{}
	for dec.More() {
		v, err := decodeValue(dec)
		if err != nil {
			return nil, fmt.Errorf("variant: array[%d]: %w", len(arr), err)
		}
		arr = append(arr, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("variant: decode array end: %w", err)
	}
	return arr, nil
}

func decodeNumber(n json.Number) (Value, error) {
	if i, err := n.Int64(); err == nil {
		return Int(i), nil
	}
	if u, err := strconv.ParseUint(n.String(), 10, 64); err == nil {
		return Uint(u), nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("variant: number %q out of range", n.String())
	}
	return Double(f), nil
}
