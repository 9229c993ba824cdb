package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirectorySendToRegisteredPeer(t *testing.T) {
	dir := NewDirectory()
	p := &fakePeer{}
	dir.Register("P1", p)

	ok := dir.Send("P1", []byte(`{"message":"hi"}`))
	assert.True(t, ok)
	assert.Len(t, p.received(), 1)
}

func TestDirectorySendAbsentIsNoOp(t *testing.T) {
	dir := NewDirectory()
	assert.False(t, dir.Send("nobody", []byte("x")))
}

func TestDirectoryLastConnectWins(t *testing.T) {
	dir := NewDirectory()
	old := &fakePeer{}
	replacement := &fakePeer{}
	dir.Register("C1", old)
	dir.Register("C1", replacement)

	dir.Send("C1", []byte("m"))
	assert.Empty(t, old.received(), "replaced connection must not receive")
	assert.Len(t, replacement.received(), 1)
}

func TestDirectoryStaleUnregisterKeepsReplacement(t *testing.T) {
	dir := NewDirectory()
	old := &fakePeer{}
	replacement := &fakePeer{}
	dir.Register("C1", old)
	dir.Register("C1", replacement)

	// The old connection's teardown races the reconnect; it must not evict
	// the replacement.
	dir.Unregister("C1", old)
	assert.True(t, dir.Online("C1"))
	assert.True(t, dir.Send("C1", []byte("m")))
}

func TestDirectoryUnregisterIdempotent(t *testing.T) {
	dir := NewDirectory()
	p := &fakePeer{}
	dir.Register("C1", p)
	dir.Unregister("C1", p)
	dir.Unregister("C1", p)
	dir.Unregister("unknown", p)
	assert.False(t, dir.Online("C1"))
}

func TestDirectorySendFailedPeer(t *testing.T) {
	dir := NewDirectory()
	p := &fakePeer{fail: true}
	dir.Register("C1", p)
	assert.False(t, dir.Send("C1", []byte("m")))
	// The entry stays until the connection's own teardown unregisters it.
	assert.True(t, dir.Online("C1"))
}
