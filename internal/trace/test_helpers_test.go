package trace

import (
	"path/filepath"
	"testing"

	"github.com/skout-dev/skout/internal/service"
	"github.com/skout-dev/skout/internal/variant"
)

// createTestStore creates a file-backed store in a test temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trace.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// openRequest builds a minimal editor.open request for path.
func openRequest(path string) *variant.Dictionary {
	return service.EditorOpen(filepath.Base(path), path, "")
}

// structureReply builds a small response tree with a UID-typed kind and a
// binary syntax map, the two shapes storage must not mangle.
func structureReply() *variant.Dictionary {
	return variant.NewDictionary(
		variant.P(service.KeyKind, variant.Uint(4_300_000_123)),
		variant.P(service.KeyOffset, variant.Int(0)),
		variant.P(service.KeyLength, variant.Int(21)),
		variant.P(service.KeySyntaxMap, variant.Bytes{0x01, 0x02, 0xff}),
		variant.P(service.KeySubstructure, variant.Array{}),
	)
}
