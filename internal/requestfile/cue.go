package requestfile

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/skout-dev/skout/internal/variant"
)

// parseCUE evaluates a CUE file into a request dictionary. Fields come out
// in declaration order, every value must be concrete.
func parseCUE(data []byte, filename string) (*variant.Dictionary, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("failed to compile CUE: %w", err)
	}
	if v.Kind() != cue.StructKind {
		return nil, fmt.Errorf("request must be a struct, got %v", v.IncompleteKind())
	}
	return cueStruct(v)
}

func cueStruct(v cue.Value) (*variant.Dictionary, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate fields: %w", err)
	}
	d := variant.NewDictionary()
	for iter.Next() {
		val, err := cueValue(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", iter.Label(), err)
		}
		d.Set(iter.Label(), val)
	}
	return d, nil
}

func cueValue(v cue.Value) (variant.Value, error) {
	if err := v.Err(); err != nil {
		return nil, err
	}
	switch v.Kind() {
	case cue.NullKind:
		return variant.Null{}, nil
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, err
		}
		return variant.Bool(b), nil
	case cue.IntKind:
		if i, err := v.Int64(); err == nil {
			return variant.Int(i), nil
		}
		u, err := v.Uint64()
		if err != nil {
			return nil, fmt.Errorf("integer out of range: %w", err)
		}
		return variant.Uint(u), nil
	case cue.FloatKind, cue.NumberKind:
		f, err := v.Float64()
		if err != nil {
			return nil, err
		}
		return variant.Double(f), nil
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, err
		}
		return variant.String(s), nil
	case cue.ListKind:
		li, err := v.List()
		if err != nil {
			return nil, err
		}
		arr := variant.Array{}
		for li.Next() {
			elem, err := cueValue(li.Value())
			if err != nil {
				return nil, err
			}
			arr = append(arr, elem)
		}
		return arr, nil
	case cue.StructKind:
		return cueStruct(v)
	default:
		// Kind() is BottomKind for values that never became concrete.
		return nil, fmt.Errorf("value is not concrete (want %v)", v.IncompleteKind())
	}
}
