// Package uid resolves SourceKit UIDs to their symbolic names.
//
// A UID is a process-lifetime handle the service hands out for interned
// strings such as "source.lang.swift.decl.function.free". The numeric value
// is meaningless outside the service process, so every UID that should read
// as text has to go back through a lookup call. Lookups are comparatively
// expensive (a full round trip), while the set of distinct UIDs a service
// instance ever emits is tiny, so the resolver memoizes aggressively.
package uid

import "sync"

// MinResolvable is the smallest UID value that can name an interned string.
// Values below it are protocol-reserved scalars (offsets, lengths, flags)
// that happen to share the integer type; asking the service about them is
// wasted traffic and, on some service builds, a crash.
const MinResolvable = 4_300_000_000

// LookupFunc asks the external service for the name behind id. ok is false
// when the service has no string for it, which is a normal outcome: many
// UIDs are structural markers with no name.
type LookupFunc func(id uint64) (name string, ok bool)

// Resolver memoizes UID lookups for the lifetime of a process.
//
// The cache is append-only and never evicted. Growth is bounded by the
// number of distinct UIDs the service emits, in practice a few hundred.
// Misses are not cached: the service may intern new strings at any time,
// and re-asking is the only way to see them.
type Resolver struct {
	mu     sync.RWMutex
	names  map[uint64]string
	lookup LookupFunc
}

// New creates a Resolver backed by lookup.
func New(lookup LookupFunc) *Resolver {
	return &Resolver{
		names:  make(map[uint64]string),
		lookup: lookup,
	}
}

// Resolve returns the symbolic name for id.
//
// IDs below MinResolvable return ("", false) without touching the service.
// A successful lookup is cached, so resolving the same id again is a map
// read.
//
// Safe for concurrent use. Two goroutines racing on an uncached id may both
// issue the lookup; the result is identical either way and the first write
// wins.
func (r *Resolver) Resolve(id uint64) (string, bool) {
	if id < MinResolvable {
		return "", false
	}

	r.mu.RLock()
	name, ok := r.names[id]
	r.mu.RUnlock()
	if ok {
		return name, true
	}

	name, ok = r.lookup(id)
	if !ok {
		return "", false
	}

	r.mu.Lock()
	r.names[id] = name
	r.mu.Unlock()
	return name, true
}

// Size returns the number of cached names.
func (r *Resolver) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.names)
}
