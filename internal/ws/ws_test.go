package ws

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/support-chat/chat-service/internal/errs"
	"github.com/support-chat/chat-service/internal/model"
)

// fakePeer records delivered payloads; with fail set it refuses every send,
// standing in for an already-closed connection.
type fakePeer struct {
	mu       sync.Mutex
	payloads [][]byte
	fail     bool
}

func (p *fakePeer) Send(payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("peer closed")
	}
	cp := make([]byte, len(payload))
	copy(cp, payload)
	p.payloads = append(p.payloads, cp)
	return nil
}

func (p *fakePeer) received() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][]byte, len(p.payloads))
	copy(out, p.payloads)
	return out
}

// fakeStore is an in-memory append-only message log with monotonically
// increasing timestamps.
type fakeStore struct {
	mu       sync.Mutex
	messages []model.Message
	nextID   uint64
	now      time.Time
	failNext bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (s *fakeStore) Append(_ context.Context, m *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext {
		s.failNext = false
		return errors.New("store unavailable")
	}
	s.nextID++
	s.now = s.now.Add(time.Second)
	m.ID = s.nextID
	m.CreatedAt = s.now
	if m.Kind == "" {
		m.Kind = model.MessageKindText
	}
	s.messages = append(s.messages, *m)
	return nil
}

func (s *fakeStore) list(kind model.ConversationKind, key string) []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Message
	for _, m := range s.messages {
		if m.ConversationKind == kind && m.ConversationKey == key {
			out = append(out, m)
		}
	}
	return out
}

// fakeConversations backs the guard with fixed tickets and orders.
type fakeConversations struct {
	tickets map[uint64]*model.Ticket
	orders  map[string]*model.Order
}

func (f *fakeConversations) TicketByID(_ context.Context, id uint64) (*model.Ticket, error) {
	if t, ok := f.tickets[id]; ok {
		return t, nil
	}
	return nil, errs.ErrTicketNotFound
}

func (f *fakeConversations) OrderByKey(_ context.Context, orderID string) (*model.Order, error) {
	if o, ok := f.orders[orderID]; ok {
		return o, nil
	}
	return nil, errs.ErrOrderNotFound
}
