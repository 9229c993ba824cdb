package ws

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/support-chat/chat-service/internal/model"
)

// MessageStore is the persistence seam the router writes through. The
// store assigns the message timestamp; the router never invents one.
type MessageStore interface {
	Append(ctx context.Context, m *model.Message) error
}

// EventSink receives best-effort domain events. May be nil.
type EventSink interface {
	EmitAsync(event string, payload map[string]interface{})
}

// ticketFrame is the inbound shape on ticket connections.
type ticketFrame struct {
	Content string `json:"content"`
}

// orderFrame is the inbound shape on order connections. OrderID may repeat
// the path's conversation key; the path wins.
type orderFrame struct {
	OrderID     string `json:"order_id"`
	ReceiverID  string `json:"receiver_id"`
	Message     string `json:"message"`
	MessageType string `json:"message_type"`
}

// TicketEvent is the outbound shape broadcast on ticket conversations.
type TicketEvent struct {
	Type      string `json:"type,omitempty"`
	Content   string `json:"content,omitempty"`
	UserID    uint64 `json:"user_id"`
	Username  string `json:"username"`
	Timestamp string `json:"timestamp,omitempty"`
}

const eventTypeDisconnect = "disconnect"

// Router takes inbound frames from authenticated connections, persists
// them, and fans them out. Persistence comes first: a frame that cannot be
// stored is never delivered, and neither failure closes the connection.
type Router struct {
	store     MessageStore
	hub       *Hub
	directory *Directory
	events    EventSink
}

func NewRouter(store MessageStore, hub *Hub, directory *Directory, events EventSink) *Router {
	return &Router{store: store, hub: hub, directory: directory, events: events}
}

// HandleTicketFrame processes one inbound frame on a ticket connection:
// persist, then broadcast the server-confirmed message to every subscriber
// including the sender.
func (r *Router) HandleTicketFrame(ctx context.Context, ident Identity, ticketID uint64, raw []byte) {
	var frame ticketFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		log.Warn().Err(err).Uint64("ticket_id", ticketID).Msg("ws: dropping malformed ticket frame")
		return
	}

	key := strconv.FormatUint(ticketID, 10)
	msg := &model.Message{
		ConversationKind: model.ConversationTicket,
		ConversationKey:  key,
		SenderID:         ident.Key(),
		Content:          frame.Content,
		Kind:             model.MessageKindText,
	}
	if err := r.store.Append(ctx, msg); err != nil {
		log.Error().Err(err).Uint64("ticket_id", ticketID).Msg("ws: persist failed, frame abandoned")
		return
	}
	r.emitPersisted(msg)

	out, err := json.Marshal(TicketEvent{
		Content:   msg.Content,
		UserID:    ident.ID,
		Username:  ident.Username,
		Timestamp: msg.CreatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		log.Error().Err(err).Msg("ws: marshal outbound ticket event")
		return
	}
	r.hub.Broadcast(key, out)
}

// HandleOrderFrame processes one inbound frame on an order connection:
// persist, then forward the original payload verbatim to the receiver if
// currently connected. No queuing for absent receivers.
func (r *Router) HandleOrderFrame(ctx context.Context, ident Identity, orderID string, raw []byte) {
	var frame orderFrame
	if err := json.Unmarshal(raw, &frame); err != nil || frame.ReceiverID == "" {
		log.Warn().Str("order_id", orderID).Msg("ws: dropping malformed order frame")
		return
	}

	kind := model.MessageKind(frame.MessageType)
	if kind == "" {
		kind = model.MessageKindText
	}
	msg := &model.Message{
		ConversationKind: model.ConversationOrder,
		ConversationKey:  orderID,
		SenderID:         ident.Key(),
		ReceiverID:       frame.ReceiverID,
		Content:          frame.Message,
		Kind:             kind,
	}
	if err := r.store.Append(ctx, msg); err != nil {
		log.Error().Err(err).Str("order_id", orderID).Msg("ws: persist failed, frame abandoned")
		return
	}
	r.emitPersisted(msg)

	r.directory.Send(frame.ReceiverID, raw)
}

// NotifyTicketLeave broadcasts a synthetic presence notice to a ticket's
// remaining subscribers after one of them disconnects. The notice is not
// persisted.
func (r *Router) NotifyTicketLeave(ident Identity, ticketID uint64) {
	out, err := json.Marshal(TicketEvent{
		Type:     eventTypeDisconnect,
		UserID:   ident.ID,
		Username: ident.Username,
	})
	if err != nil {
		log.Error().Err(err).Msg("ws: marshal disconnect notice")
		return
	}
	r.hub.Broadcast(strconv.FormatUint(ticketID, 10), out)
}

func (r *Router) emitPersisted(m *model.Message) {
	if r.events == nil {
		return
	}
	r.events.EmitAsync("message.persisted", map[string]interface{}{
		"message_id":        m.ID,
		"conversation_kind": string(m.ConversationKind),
		"conversation_key":  m.ConversationKey,
		"sender_id":         m.SenderID,
	})
}
