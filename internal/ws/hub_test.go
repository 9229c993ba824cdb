package ws

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubBroadcastRegistrationOrder(t *testing.T) {
	hub := NewHub()
	first := &fakePeer{}
	second := &fakePeer{}
	third := &fakePeer{}
	hub.Register("42", first)
	hub.Register("42", second)
	hub.Register("42", third)

	delivered := hub.Broadcast("42", []byte(`{"content":"hi"}`))
	assert.Equal(t, 3, delivered)

	for _, p := range []*fakePeer{first, second, third} {
		require.Len(t, p.received(), 1)
		assert.Equal(t, `{"content":"hi"}`, string(p.received()[0]))
	}
}

func TestHubBroadcastSkipsFailedPeer(t *testing.T) {
	hub := NewHub()
	healthy := &fakePeer{}
	closed := &fakePeer{fail: true}
	trailing := &fakePeer{}
	hub.Register("7", healthy)
	hub.Register("7", closed)
	hub.Register("7", trailing)

	delivered := hub.Broadcast("7", []byte("x"))

	// The closed peer is skipped without aborting delivery to the rest.
	assert.Equal(t, 2, delivered)
	assert.Len(t, healthy.received(), 1)
	assert.Empty(t, closed.received())
	assert.Len(t, trailing.received(), 1)
}

func TestHubBroadcastUnknownKey(t *testing.T) {
	hub := NewHub()
	assert.Equal(t, 0, hub.Broadcast("missing", []byte("x")))
}

func TestHubUnregisterIdempotent(t *testing.T) {
	hub := NewHub()
	p := &fakePeer{}
	hub.Register("1", p)
	hub.Unregister("1", p)
	hub.Unregister("1", p)
	hub.Unregister("never-registered", p)

	assert.Equal(t, 0, hub.Subscribers("1"))
	assert.Equal(t, 0, hub.Broadcast("1", []byte("x")))
	assert.Empty(t, p.received())
}

func TestHubEmptySetDeleted(t *testing.T) {
	hub := NewHub()
	a := &fakePeer{}
	b := &fakePeer{}
	hub.Register("9", a)
	hub.Register("9", b)
	hub.Unregister("9", a)
	assert.Equal(t, 1, hub.Subscribers("9"))

	hub.Unregister("9", b)
	hub.mu.RLock()
	_, exists := hub.conversations["9"]
	hub.mu.RUnlock()
	assert.False(t, exists, "empty subscriber set must be removed entirely")
}

func TestHubConcurrentRegisterUnregister(t *testing.T) {
	hub := NewHub()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := &fakePeer{}
			key := fmt.Sprintf("conv-%d", i%5)
			hub.Register(key, p)
			hub.Broadcast(key, []byte("m"))
			hub.Unregister(key, p)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 5; i++ {
		assert.Equal(t, 0, hub.Subscribers(fmt.Sprintf("conv-%d", i)))
	}
}
