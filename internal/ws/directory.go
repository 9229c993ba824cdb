package ws

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Directory is the direct-mode connection registry: participant identity to
// its single live connection. Order chat uses one entry per participant.
type Directory struct {
	mu    sync.RWMutex
	peers map[string]Peer
}

func NewDirectory() *Directory {
	return &Directory{peers: make(map[string]Peer)}
}

// Register makes p the participant's live connection. A reconnect replaces
// the previous entry; the replaced connection is not closed here; it stays
// open until its own transport terminates.
func (d *Directory) Register(participantID string, p Peer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.peers[participantID] = p
	log.Debug().Str("participant", participantID).Msg("ws: participant online")
}

// Unregister removes the participant's entry only if it still maps to p,
// so a stale disconnect cannot evict a replacement connection. Idempotent.
func (d *Directory) Unregister(participantID string, p Peer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if current, ok := d.peers[participantID]; ok && current == p {
		delete(d.peers, participantID)
	}
}

// Send delivers payload to the participant if connected. An absent or
// unreachable participant is a silent no-op: the message is already
// persisted and the receiver polls history over REST.
func (d *Directory) Send(participantID string, payload []byte) bool {
	d.mu.RLock()
	p, ok := d.peers[participantID]
	d.mu.RUnlock()
	if !ok {
		return false
	}
	if err := p.Send(payload); err != nil {
		log.Debug().Err(err).Str("participant", participantID).Msg("ws: direct send failed")
		return false
	}
	return true
}

// Online reports whether the participant currently has a live connection.
func (d *Directory) Online(participantID string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.peers[participantID]
	return ok
}
