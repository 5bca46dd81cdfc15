// Package service defines the boundary to the external source-analysis
// service: the request/response connection interface, the protocol
// vocabulary, and the bridge transport that carries both over a helper
// process's stdio.
package service

import "github.com/skout-dev/skout/internal/variant"

// Conn is a synchronous connection to the analysis service.
//
// Both calls block until the service replies; the pipeline never overlaps
// them. Implementations must be safe for use from multiple goroutines even
// so, because nothing in the type system stops a caller from sharing one.
type Conn interface {
	// Request sends a request dictionary and returns the response tree.
	Request(req *variant.Dictionary) (variant.Value, error)

	// ResolveUID asks for the symbolic name behind a UID. ok is false
	// when the service has no name for it; transport failures also
	// surface as a miss, since the protocol gives this call no error
	// channel.
	ResolveUID(id uint64) (name string, ok bool)

	// Close tears the connection down. Calls after Close fail.
	Close() error
}
