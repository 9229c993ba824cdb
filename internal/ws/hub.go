package ws

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Peer is a live connection a registry can deliver payloads to. Send
// returns an error when the peer can no longer accept writes; registries
// treat that as a skip, never as a fault.
type Peer interface {
	Send(payload []byte) error
}

// Hub is the broadcast-mode connection registry: conversation key to the
// ordered set of subscribed peers. Ticket chat uses one entry per ticket.
type Hub struct {
	mu            sync.RWMutex
	conversations map[string][]Peer
}

func NewHub() *Hub {
	return &Hub{conversations: make(map[string][]Peer)}
}

// Register appends p to the conversation's subscriber set, creating the
// set on first subscribe. Registration order is delivery order.
func (h *Hub) Register(key string, p Peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conversations[key] = append(h.conversations[key], p)
	log.Debug().Str("conversation", key).Int("subscribers", len(h.conversations[key])).Msg("ws: peer subscribed")
}

// Unregister removes p from the conversation's set. Removing the last peer
// deletes the key entirely so empty sets never accumulate. Unregistering a
// peer that is not present is a no-op.
func (h *Hub) Unregister(key string, p Peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	peers, ok := h.conversations[key]
	if !ok {
		return
	}
	for i, existing := range peers {
		if existing == p {
			peers = append(peers[:i], peers[i+1:]...)
			break
		}
	}
	if len(peers) == 0 {
		delete(h.conversations, key)
		return
	}
	h.conversations[key] = peers
}

// Broadcast delivers payload to every peer currently subscribed to the
// conversation, in registration order. A peer that fails to receive is
// skipped; delivery continues to the rest. Returns the number of
// successful deliveries.
func (h *Hub) Broadcast(key string, payload []byte) int {
	h.mu.RLock()
	peers := make([]Peer, len(h.conversations[key]))
	copy(peers, h.conversations[key])
	h.mu.RUnlock()

	delivered := 0
	for _, p := range peers {
		if err := p.Send(payload); err != nil {
			log.Debug().Err(err).Str("conversation", key).Msg("ws: skipping unreachable peer")
			continue
		}
		delivered++
	}
	return delivered
}

// Subscribers returns the current subscriber count for a conversation.
func (h *Hub) Subscribers(key string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conversations[key])
}
