package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/support-chat/chat-service/internal/model"
)

func TestRouterTicketFramePersistsThenBroadcasts(t *testing.T) {
	store := newFakeStore()
	hub := NewHub()
	r := NewRouter(store, hub, NewDirectory(), nil)

	sender := &fakePeer{}
	other := &fakePeer{}
	hub.Register("1", sender)
	hub.Register("1", other)

	ident := Identity{ID: 10, Username: "alice"}
	r.HandleTicketFrame(context.Background(), ident, 1, []byte(`{"content":"hello"}`))

	msgs := store.list(model.ConversationTicket, "1")
	require.Len(t, msgs, 1)
	assert.Equal(t, "hello", msgs[0].Content)
	assert.Equal(t, "10", msgs[0].SenderID)
	assert.Equal(t, model.MessageKindText, msgs[0].Kind)

	// Both subscribers receive the echo, sender included, with the
	// server-confirmed timestamp.
	for _, p := range []*fakePeer{sender, other} {
		require.Len(t, p.received(), 1)
		var ev TicketEvent
		require.NoError(t, json.Unmarshal(p.received()[0], &ev))
		assert.Equal(t, "hello", ev.Content)
		assert.Equal(t, uint64(10), ev.UserID)
		assert.Equal(t, "alice", ev.Username)
		assert.Equal(t, msgs[0].CreatedAt.UTC().Format(time.RFC3339), ev.Timestamp)
	}
}

func TestRouterTicketTimestampsMonotonic(t *testing.T) {
	store := newFakeStore()
	hub := NewHub()
	r := NewRouter(store, hub, NewDirectory(), nil)
	ident := Identity{ID: 10, Username: "alice"}

	for _, content := range []string{"one", "two", "three"} {
		r.HandleTicketFrame(context.Background(), ident, 5, []byte(`{"content":"`+content+`"}`))
	}

	msgs := store.list(model.ConversationTicket, "5")
	require.Len(t, msgs, 3)
	for i := 1; i < len(msgs); i++ {
		assert.True(t, !msgs[i].CreatedAt.Before(msgs[i-1].CreatedAt),
			"timestamps must be non-decreasing in append order")
	}
}

func TestRouterMalformedTicketFrameDropped(t *testing.T) {
	store := newFakeStore()
	hub := NewHub()
	r := NewRouter(store, hub, NewDirectory(), nil)
	p := &fakePeer{}
	hub.Register("1", p)

	r.HandleTicketFrame(context.Background(), Identity{ID: 10}, 1, []byte(`{not json`))

	assert.Empty(t, store.list(model.ConversationTicket, "1"))
	assert.Empty(t, p.received())
}

func TestRouterPersistFailureAbandonsDelivery(t *testing.T) {
	store := newFakeStore()
	store.failNext = true
	hub := NewHub()
	r := NewRouter(store, hub, NewDirectory(), nil)
	p := &fakePeer{}
	hub.Register("1", p)

	ident := Identity{ID: 10, Username: "alice"}
	r.HandleTicketFrame(context.Background(), ident, 1, []byte(`{"content":"lost"}`))
	assert.Empty(t, p.received(), "no fan-out when the store rejects the frame")

	// The connection keeps processing subsequent frames.
	r.HandleTicketFrame(context.Background(), ident, 1, []byte(`{"content":"kept"}`))
	msgs := store.list(model.ConversationTicket, "1")
	require.Len(t, msgs, 1)
	assert.Equal(t, "kept", msgs[0].Content)
	assert.Len(t, p.received(), 1)
}

func TestRouterOrderFrameForwardsVerbatim(t *testing.T) {
	store := newFakeStore()
	dir := NewDirectory()
	r := NewRouter(store, NewHub(), dir, nil)

	customer := &fakePeer{}
	provider := &fakePeer{}
	dir.Register("20", customer)
	dir.Register("30", provider)

	raw := []byte(`{"receiver_id":"30","message":"hi","message_type":"text"}`)
	r.HandleOrderFrame(context.Background(), Identity{ID: 20, Username: "c"}, "O1", raw)

	msgs := store.list(model.ConversationOrder, "O1")
	require.Len(t, msgs, 1)
	assert.Equal(t, "20", msgs[0].SenderID)
	assert.Equal(t, "30", msgs[0].ReceiverID)
	assert.Equal(t, "hi", msgs[0].Content)

	// The receiver gets the original payload untouched; the sender gets
	// nothing back.
	require.Len(t, provider.received(), 1)
	assert.Equal(t, string(raw), string(provider.received()[0]))
	assert.Empty(t, customer.received())
}

func TestRouterOrderFrameAbsentReceiver(t *testing.T) {
	store := newFakeStore()
	dir := NewDirectory()
	r := NewRouter(store, NewHub(), dir, nil)

	r.HandleOrderFrame(context.Background(), Identity{ID: 20}, "O1",
		[]byte(`{"receiver_id":"99","message":"into the void"}`))

	// Persisted for later history, delivered to nobody, no error.
	require.Len(t, store.list(model.ConversationOrder, "O1"), 1)
}

func TestRouterOrderFrameDefaultsKind(t *testing.T) {
	store := newFakeStore()
	r := NewRouter(store, NewHub(), NewDirectory(), nil)

	r.HandleOrderFrame(context.Background(), Identity{ID: 20}, "O1",
		[]byte(`{"receiver_id":"30","message":"hi"}`))

	msgs := store.list(model.ConversationOrder, "O1")
	require.Len(t, msgs, 1)
	assert.Equal(t, model.MessageKindText, msgs[0].Kind)
}

func TestRouterOrderFrameMissingReceiverDropped(t *testing.T) {
	store := newFakeStore()
	r := NewRouter(store, NewHub(), NewDirectory(), nil)

	r.HandleOrderFrame(context.Background(), Identity{ID: 20}, "O1", []byte(`{"message":"no addressee"}`))
	assert.Empty(t, store.list(model.ConversationOrder, "O1"))
}

func TestRouterNotifyTicketLeave(t *testing.T) {
	hub := NewHub()
	r := NewRouter(newFakeStore(), hub, NewDirectory(), nil)
	remaining := &fakePeer{}
	hub.Register("3", remaining)

	r.NotifyTicketLeave(Identity{ID: 10, Username: "alice"}, 3)

	require.Len(t, remaining.received(), 1)
	var ev TicketEvent
	require.NoError(t, json.Unmarshal(remaining.received()[0], &ev))
	assert.Equal(t, "disconnect", ev.Type)
	assert.Equal(t, uint64(10), ev.UserID)
	assert.Equal(t, "alice", ev.Username)
}
