package trace

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/skout-dev/skout/internal/variant"
)

// DomainRequest is the domain prefix for request content hashes. The
// version suffix leaves room for an algorithm change without colliding with
// old traces.
const DomainRequest = "skout/request/v1"

// RequestHash computes the content-addressed identity of a request: SHA-256
// over the domain prefix, a null separator, and the request's canonical
// JSON. Two requests that differ only in key order hash the same, which is
// what lets replay match them.
func RequestHash(req *variant.Dictionary) (string, error) {
	canonical, err := variant.MarshalCanonical(req)
	if err != nil {
		return "", fmt.Errorf("RequestHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRequest, canonical), nil
}

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data); the null byte prevents domain/data
// boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
