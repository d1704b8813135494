package events

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopSender(Event) error { return nil }

// TestRegistryRegisterUnregister tests the basic subscriber lifecycle
func TestRegistryRegisterUnregister(t *testing.T) {
	r := NewRegistry()

	unregA := r.Register("user-1", "client-a", noopSender)
	r.Register("user-1", "client-b", noopSender)
	r.Register("user-2", "client-c", noopSender)

	assert.Equal(t, 2, r.Count("user-1"))
	assert.Equal(t, 1, r.Count("user-2"))
	assert.Equal(t, 3, r.TotalCount())

	unregA()
	assert.Equal(t, 1, r.Count("user-1"))

	subs := r.Subscribers("user-1")
	assert.Len(t, subs, 1)
	assert.Equal(t, "client-b", subs[0].ClientID)
}

// TestRegistryLastRegisterWins tests that re-registering the same key
// replaces the previous sender
func TestRegistryLastRegisterWins(t *testing.T) {
	r := NewRegistry()

	first := 0
	second := 0
	r.Register("user-1", "client-a", func(Event) error { first++; return nil })
	r.Register("user-1", "client-a", func(Event) error { second++; return nil })

	assert.Equal(t, 1, r.Count("user-1"))

	subs := r.Subscribers("user-1")
	assert.Len(t, subs, 1)
	assert.NoError(t, subs[0].Send(Event{}))
	assert.Equal(t, 0, first, "replaced sender must not be invoked")
	assert.Equal(t, 1, second)
}

// TestRegistryUnregisterIdempotent tests that double unregister is a no-op
func TestRegistryUnregisterIdempotent(t *testing.T) {
	r := NewRegistry()

	unreg := r.Register("user-1", "client-a", noopSender)
	unreg()
	unreg()

	assert.Equal(t, 0, r.Count("user-1"))
	assert.Empty(t, r.Subscribers("user-1"))
}

// TestRegistryStaleUnregisterKeepsReplacement tests that a replaced
// registration's cleanup leaves the live successor in place: a tab that
// reconnects with the same client id must keep receiving events after the
// old connection finishes tearing down
func TestRegistryStaleUnregisterKeepsReplacement(t *testing.T) {
	r := NewRegistry()

	stale := r.Register("user-1", "tab-1", noopSender)

	fresh := 0
	r.Register("user-1", "tab-1", func(Event) error { fresh++; return nil })

	stale()
	assert.Equal(t, 1, r.Count("user-1"), "stale cleanup must not evict the replacement")

	subs := r.Subscribers("user-1")
	require.Len(t, subs, 1)
	assert.NoError(t, subs[0].Send(Event{}))
	assert.Equal(t, 1, fresh)
}

// TestRegistryRejectsMalformedKeys tests that empty keys never reach the map
func TestRegistryRejectsMalformedKeys(t *testing.T) {
	r := NewRegistry()

	unregs := []func(){
		r.Register("", "client-a", noopSender),
		r.Register("user-1", "", noopSender),
		r.Register("user-1", "client-a", nil),
	}

	assert.Equal(t, 0, r.TotalCount())
	for _, unreg := range unregs {
		unreg()
	}
	assert.Equal(t, 0, r.TotalCount())
}

// TestRegistrySnapshotIsolation tests that a snapshot is not affected by
// later mutations
func TestRegistrySnapshotIsolation(t *testing.T) {
	r := NewRegistry()

	unreg := r.Register("user-1", "client-a", noopSender)
	subs := r.Subscribers("user-1")

	unreg()
	r.Register("user-1", "client-b", noopSender)

	assert.Len(t, subs, 1)
	assert.Equal(t, "client-a", subs[0].ClientID)
}

// TestRegistryConcurrentAccess exercises the registry from many goroutines;
// run with -race
func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			clientID := string(rune('a' + n))
			for j := 0; j < 100; j++ {
				unreg := r.Register("user-1", clientID, noopSender)
				r.Subscribers("user-1")
				unreg()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 0, r.Count("user-1"))
}
