package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skout-dev/skout/internal/variant"
)

func TestEditorOpenByPath(t *testing.T) {
	req := EditorOpen("main.swift", "/tmp/main.swift", "")

	kind, _ := req.Get(KeyRequest)
	assert.Equal(t, variant.String(RequestEditorOpen), kind)
	path, ok := req.Get(KeySourceFile)
	require.True(t, ok)
	assert.Equal(t, variant.String("/tmp/main.swift"), path)
	_, ok = req.Get(KeySourceText)
	assert.False(t, ok)
}

func TestEditorOpenInlineTextWins(t *testing.T) {
	req := EditorOpen("main.swift", "/tmp/main.swift", "func f() {}")

	text, ok := req.Get(KeySourceText)
	require.True(t, ok)
	assert.Equal(t, variant.String("func f() {}"), text)
	_, ok = req.Get(KeySourceFile)
	assert.False(t, ok)
}

func TestCursorInfoTemplate(t *testing.T) {
	req := CursorInfoTemplate("/tmp/main.swift", []string{"/tmp/main.swift", "-sdk", "/sdk"})

	kind, _ := req.Get(KeyRequest)
	assert.Equal(t, variant.String(RequestCursorInfo), kind)
	args, ok := req.Get(KeyCompilerArgs)
	require.True(t, ok)
	assert.Equal(t, variant.Array{
		variant.String("/tmp/main.swift"),
		variant.String("-sdk"),
		variant.String("/sdk"),
	}, args)
	_, ok = req.Get(KeyOffset)
	assert.False(t, ok, "offset is filled per query, not in the template")
}
