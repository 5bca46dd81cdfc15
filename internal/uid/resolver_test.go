package uid

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingLookup wraps a fixed table and counts how often it is consulted.
type countingLookup struct {
	names map[uint64]string
	calls int
}

func (c *countingLookup) lookup(id uint64) (string, bool) {
	c.calls++
	name, ok := c.names[id]
	return name, ok
}

func TestResolveBelowThresholdNeverCallsService(t *testing.T) {
	stub := &countingLookup{names: map[uint64]string{}}
	r := New(stub.lookup)

	for _, id := range []uint64{0, 1, 44, 9001, 4_299_999_999} {
		t.Run(fmt.Sprintf("id_%d", id), func(t *testing.T) {
			name, ok := r.Resolve(id)
			assert.False(t, ok)
			assert.Empty(t, name)
		})
	}
	assert.Zero(t, stub.calls)
}

func TestResolveCachesSuccessfulLookup(t *testing.T) {
	stub := &countingLookup{names: map[uint64]string{
		4_300_000_123: "source.lang.swift.decl.function.free",
	}}
	r := New(stub.lookup)

	name, ok := r.Resolve(4_300_000_123)
	require.True(t, ok)
	assert.Equal(t, "source.lang.swift.decl.function.free", name)
	assert.Equal(t, 1, stub.calls)

	name, ok = r.Resolve(4_300_000_123)
	require.True(t, ok)
	assert.Equal(t, "source.lang.swift.decl.function.free", name)
	assert.Equal(t, 1, stub.calls, "second resolve must be a cache hit")
}

func TestResolveMissIsNotAnError(t *testing.T) {
	stub := &countingLookup{names: map[uint64]string{}}
	r := New(stub.lookup)

	name, ok := r.Resolve(4_300_000_777)
	assert.False(t, ok)
	assert.Empty(t, name)
	assert.Equal(t, 1, stub.calls)

	// Misses are not cached; the service may intern the string later.
	stub.names[4_300_000_777] = "source.lang.swift.syntaxtype.identifier"
	name, ok = r.Resolve(4_300_000_777)
	require.True(t, ok)
	assert.Equal(t, "source.lang.swift.syntaxtype.identifier", name)
	assert.Equal(t, 2, stub.calls)
}

func TestResolveConcurrent(t *testing.T) {
	stub := &countingLookup{names: map[uint64]string{
		4_300_000_001: "source.lang.swift.syntaxtype.keyword",
		4_300_000_002: "source.lang.swift.syntaxtype.comment",
	}}
	var mu sync.Mutex
	lookup := func(id uint64) (string, bool) {
		mu.Lock()
		defer mu.Unlock()
		return stub.lookup(id)
	}
	r := New(lookup)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := uint64(4_300_000_001 + n%2)
			name, ok := r.Resolve(id)
			assert.True(t, ok)
			assert.NotEmpty(t, name)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 2, r.Size())
}
