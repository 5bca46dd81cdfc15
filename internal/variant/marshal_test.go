package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalPrettyPreservesKeyOrder(t *testing.T) {
	tree := NewDictionary(
		P("key.kind", String("source.lang.swift.decl.function.free")),
		P("key.offset", Int(0)),
		P("key.substructure", Array{
			NewDictionary(P("key.name", String("x"))),
		}),
	)

	out, err := MarshalPretty(tree)
	require.NoError(t, err)

	expected := `{
  "key.kind": "source.lang.swift.decl.function.free",
  "key.offset": 0,
  "key.substructure": [
    {
      "key.name": "x"
    }
  ]
}`
	assert.Equal(t, expected, string(out))
}

func TestMarshalPrettyEmptyContainers(t *testing.T) {
	out, err := MarshalPretty(NewDictionary(
		P("key.substructure", Array{}),
		P("key.attributes", NewDictionary()),
	))
	require.NoError(t, err)

	expected := `{
  "key.substructure": [],
  "key.attributes": {}
}`
	assert.Equal(t, expected, string(out))
}

func TestMarshalPrettyScalars(t *testing.T) {
	out, err := MarshalPretty(Array{
		Null{}, Bool(true), Int(-9), Uint(18446744073709551615), Double(1.5), String("fn"),
	})
	require.NoError(t, err)

	expected := `[
  null,
  true,
  -9,
  18446744073709551615,
  1.5,
  "fn"
]`
	assert.Equal(t, expected, string(out))
}

func TestMarshalPrettyDoesNotEscapeHTML(t *testing.T) {
	out, err := MarshalPretty(NewDictionary(P("key.typename", String("Array<Int> & P"))))
	require.NoError(t, err)
	assert.Contains(t, string(out), `"Array<Int> & P"`)
}

func TestMarshalPrettyRejectsBytes(t *testing.T) {
	tree := NewDictionary(P("key.syntaxmap", Bytes{0xde, 0xad}))

	_, err := MarshalPretty(tree)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedValue)

	// The same contract applies to binary leaves buried in arrays.
	_, err = MarshalPretty(Array{Array{Bytes{0x01}}})
	assert.ErrorIs(t, err, ErrUnsupportedValue)
}

func TestMarshalPrettyRejectsNilValue(t *testing.T) {
	_, err := MarshalPretty(nil)
	assert.ErrorIs(t, err, ErrUnsupportedValue)
}

func TestMarshalCompact(t *testing.T) {
	tree := NewDictionary(
		P("key.kind", String("source.lang.swift.syntaxtype.keyword")),
		P("key.offset", Int(0)),
		P("key.length", Int(4)),
	)

	out, err := MarshalCompact(tree)
	require.NoError(t, err)
	assert.Equal(t, `{"key.kind":"source.lang.swift.syntaxtype.keyword","key.offset":0,"key.length":4}`, string(out))
}

func TestSerializeRoundTrip(t *testing.T) {
	// A tree free of Bytes leaves must survive serialize -> parse intact,
	// including key order, numeric shape, and nesting. The Uint leaf sits
	// above MaxInt64 so the parser has to give it back as Uint.
	tree := NewDictionary(
		P("key.diagnostic_stage", String("source.diagnostic.stage.swift.parse")),
		P("key.offset", Int(0)),
		P("key.kind", Uint(18_446_744_073_709_551_615)),
		P("key.ratio", Double(0.25)),
		P("key.enabled", Bool(false)),
		P("key.unset", Null{}),
		P("key.substructure", Array{
			NewDictionary(P("key.name", String("greet(name:)")), P("key.namelength", Int(12))),
		}),
	)

	for _, marshal := range []func(Value) ([]byte, error){MarshalPretty, MarshalCompact} {
		out, err := marshal(tree)
		require.NoError(t, err)

		back, err := FromJSON(out)
		require.NoError(t, err)
		assert.True(t, Equal(tree, back))
	}
}

func TestTransportEncodeDecodeRoundTrip(t *testing.T) {
	tree := NewDictionary(
		P("key.offset", Int(0)),
		P("key.kind", Uint(4_300_000_123)),
		P("key.syntaxmap", Bytes{0x10, 0x00, 0x00, 0xff}),
		P("key.substructure", Array{Bytes{}, Uint(7)}),
	)

	encoded := EncodeTransport(tree)

	// The encoded form has no Bytes or Uint leaves and is serializable.
	out, err := MarshalCompact(encoded)
	require.NoError(t, err)
	assert.Contains(t, string(out), BinaryKey)
	assert.Contains(t, string(out), UIDKey)

	back, err := DecodeTransport(encoded)
	require.NoError(t, err)
	assert.True(t, Equal(tree, back))
}

func TestTransportSurvivesJSON(t *testing.T) {
	// Uint shape must survive serialize -> parse -> decode even for values
	// that plain JSON would hand back as Int.
	tree := NewDictionary(P("key.kind", Uint(4_300_000_123)))

	out, err := MarshalCompact(EncodeTransport(tree))
	require.NoError(t, err)

	parsed, err := FromJSON(out)
	require.NoError(t, err)

	back, err := DecodeTransport(parsed)
	require.NoError(t, err)
	assert.True(t, Equal(tree, back))
}

func TestEncodeTransportLeavesInputAlone(t *testing.T) {
	tree := NewDictionary(P("key.syntaxmap", Bytes{0x01}), P("key.kind", Uint(9)))
	_ = EncodeTransport(tree)

	v, ok := tree.Get("key.syntaxmap")
	require.True(t, ok)
	_, isBytes := v.(Bytes)
	assert.True(t, isBytes)

	v, ok = tree.Get("key.kind")
	require.True(t, ok)
	_, isUint := v.(Uint)
	assert.True(t, isUint)
}

func TestDecodeTransportRejectsBadBase64(t *testing.T) {
	wrapper := NewDictionary(P(BinaryKey, String("not base64!")))
	_, err := DecodeTransport(wrapper)
	require.Error(t, err)
}

func TestDecodeTransportRejectsBadUID(t *testing.T) {
	wrapper := NewDictionary(P(UIDKey, String("-4")))
	_, err := DecodeTransport(wrapper)
	require.Error(t, err)
}
