package variant

import "bytes"

// Equal reports deep structural equality of two values. Dictionary
// comparison is order-sensitive: the same keys in a different order are not
// equal, because serialized output depends on key order.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Int:
		bv, ok := b.(Int)
		return ok && av == bv
	case Uint:
		bv, ok := b.(Uint)
		return ok && av == bv
	case Double:
		bv, ok := b.(Double)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Bytes:
		bv, ok := b.(Bytes)
		return ok && bytes.Equal(av, bv)
	case Array:
		bv, ok := b.(Array)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *Dictionary:
		bv, ok := b.(*Dictionary)
		if !ok || len(av.pairs) != len(bv.pairs) {
			return false
		}
		for i := range av.pairs {
			if av.pairs[i].Key != bv.pairs[i].Key {
				return false
			}
			if !Equal(av.pairs[i].Value, bv.pairs[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Clone returns a deep copy of v. Mutating the copy never affects the
// original, including Bytes payloads and nested containers.
func Clone(v Value) Value {
	switch cv := v.(type) {
	case Bytes:
		out := make(Bytes, len(cv))
		copy(out, cv)
		return out
	case Array:
		out := make(Array, len(cv))
		for i, el := range cv {
			out[i] = Clone(el)
		}
		return out
	case *Dictionary:
		out := &Dictionary{pairs: make([]Pair, len(cv.pairs))}
		for i, p := range cv.pairs {
			out.pairs[i] = Pair{Key: p.Key, Value: Clone(p.Value)}
		}
		return out
	default:
		// Null, Bool, Int, Uint, Double, and String are immutable values.
		return v
	}
}

// Clone returns a deep copy of the dictionary.
func (d *Dictionary) Clone() *Dictionary {
	return Clone(d).(*Dictionary)
}
