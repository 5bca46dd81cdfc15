package trace

import (
	"testing"

	"github.com/skout-dev/skout/internal/variant"
)

func TestRequestHashDeterminism(t *testing.T) {
	req := openRequest("/tmp/a.swift")

	h1, err := RequestHash(req)
	if err != nil {
		t.Fatalf("RequestHash() failed: %v", err)
	}
	h2, err := RequestHash(req)
	if err != nil {
		t.Fatalf("RequestHash() failed: %v", err)
	}
	if h1 != h2 {
		t.Errorf("hash not deterministic: %s vs %s", h1, h2)
	}
	if len(h1) != 64 {
		t.Errorf("len(hash) = %d, want 64 (SHA-256 hex)", len(h1))
	}
}

func TestRequestHashIgnoresKeyOrder(t *testing.T) {
	a := variant.NewDictionary()
	a.Set("key.request", variant.String("source.request.editor.open"))
	a.Set("key.name", variant.String("a.swift"))

	b := variant.NewDictionary()
	b.Set("key.name", variant.String("a.swift"))
	b.Set("key.request", variant.String("source.request.editor.open"))

	ha, err := RequestHash(a)
	if err != nil {
		t.Fatalf("RequestHash(a) failed: %v", err)
	}
	hb, err := RequestHash(b)
	if err != nil {
		t.Fatalf("RequestHash(b) failed: %v", err)
	}
	if ha != hb {
		t.Error("key order changed the hash")
	}
}

func TestRequestHashChangesWithContent(t *testing.T) {
	ha, err := RequestHash(openRequest("/tmp/a.swift"))
	if err != nil {
		t.Fatalf("RequestHash() failed: %v", err)
	}
	hb, err := RequestHash(openRequest("/tmp/b.swift"))
	if err != nil {
		t.Fatalf("RequestHash() failed: %v", err)
	}
	if ha == hb {
		t.Error("different requests produced the same hash")
	}
}

func TestHashWithDomainSeparation(t *testing.T) {
	data := []byte(`{"key.name":"a"}`)

	h1 := hashWithDomain("skout/request/v1", data)
	h2 := hashWithDomain("skout/request/v2", data)
	if h1 == h2 {
		t.Error("different domains produced the same digest")
	}

	// The null separator keeps domain and data from bleeding together:
	// ("ab" + 0x00 + "c") and ("a" + 0x00 + "bc") must differ.
	if hashWithDomain("ab", []byte("c")) == hashWithDomain("a", []byte("bc")) {
		t.Error("domain/data boundary is ambiguous")
	}
}

func TestRequestHashRejectsBinary(t *testing.T) {
	req := variant.NewDictionary()
	req.Set("key.blob", variant.Bytes{0x01})

	if _, err := RequestHash(req); err == nil {
		t.Fatal("expected error for binary payload in request")
	}
}
