package variant

// Value is a sealed interface over the shapes a service response can take.
// Only Null, Bool, Int, Uint, Double, String, Bytes, Array, and *Dictionary
// implement it. Response trees are acyclic by construction: every value is
// built while decoding a single reply payload.
type Value interface {
	isValue() // sealed
}

// Null is an explicit null in a response.
type Null struct{}

func (Null) isValue() {}

// Bool is a boolean response value.
type Bool bool

func (Bool) isValue() {}

// Int is a signed 64-bit integer.
type Int int64

func (Int) isValue() {}

// Uint is an unsigned 64-bit integer. Unresolved protocol UIDs arrive in
// this shape and stay in it when resolution yields no name.
type Uint uint64

func (Uint) isValue() {}

// Double is a 64-bit float.
type Double float64

func (Double) isValue() {}

// String is a text value.
type String string

func (String) isValue() {}

// Bytes is a raw binary payload, such as a packed syntax map. It carries no
// semantics until decoded, and reaching a serializer with one is an error.
type Bytes []byte

func (Bytes) isValue() {}

// Array is an ordered sequence of values.
type Array []Value

func (Array) isValue() {}

// Pair is one key/value entry of a Dictionary.
type Pair struct {
	Key   string
	Value Value
}

// Dictionary is an ordered set of unique string keys. Keys keep the position
// they were first set at; Set on an existing key replaces the value without
// moving the key. Lookups scan linearly, which is fine at the node sizes the
// service emits (a node rarely carries more than a dozen keys).
type Dictionary struct {
	pairs []Pair
}

func (*Dictionary) isValue() {}

// NewDictionary builds a Dictionary from pairs in order. A later duplicate
// key overwrites the earlier value without changing the key's position.
func NewDictionary(pairs ...Pair) *Dictionary {
	d := &Dictionary{pairs: make([]Pair, 0, len(pairs))}
	for _, p := range pairs {
		d.Set(p.Key, p.Value)
	}
	return d
}

// P is a shorthand pair constructor for building dictionaries in code.
//
// Example: NewDictionary(P("key.kind", String("source.lang.swift.decl.class")))
func P(key string, v Value) Pair {
	return Pair{Key: key, Value: v}
}

// Get returns the value stored under key.
func (d *Dictionary) Get(key string) (Value, bool) {
	for _, p := range d.pairs {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

// Set stores v under key. An existing key keeps its position; a new key is
// appended at the end.
func (d *Dictionary) Set(key string, v Value) {
	for i := range d.pairs {
		if d.pairs[i].Key == key {
			d.pairs[i].Value = v
			return
		}
	}
	d.pairs = append(d.pairs, Pair{Key: key, Value: v})
}

// Delete removes key and reports whether it was present. The order of the
// remaining pairs is preserved.
func (d *Dictionary) Delete(key string) bool {
	for i := range d.pairs {
		if d.pairs[i].Key == key {
			d.pairs = append(d.pairs[:i], d.pairs[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of keys.
func (d *Dictionary) Len() int {
	return len(d.pairs)
}

// Keys returns the keys in insertion order.
func (d *Dictionary) Keys() []string {
	keys := make([]string, len(d.pairs))
	for i, p := range d.pairs {
		keys[i] = p.Key
	}
	return keys
}

// Pairs returns the ordered entries. The returned slice is the dictionary's
// backing storage; callers must treat it as read-only and use Set/Delete for
// mutation.
func (d *Dictionary) Pairs() []Pair {
	return d.pairs
}

// IntValue extracts a signed integer from an Int or Uint value. Uints above
// MaxInt64 report false, as do all other shapes.
func IntValue(v Value) (int64, bool) {
	switch n := v.(type) {
	case Int:
		return int64(n), true
	case Uint:
		if uint64(n) > 1<<63-1 {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}
