package ws

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/support-chat/chat-service/internal/auth"
)

// SessionHandler upgrades incoming requests to live connections. The
// lifecycle per connection: upgrade, authenticate, authorize, register,
// then block reading frames until the transport terminates. Every
// authentication and authorization failure closes with the same policy
// violation code; the client is not told which check failed.
type SessionHandler struct {
	secret    string
	guard     *Guard
	hub       *Hub
	directory *Directory
	router    *Router
	upgrader  websocket.Upgrader
}

func NewSessionHandler(secret string, guard *Guard, hub *Hub, directory *Directory, router *Router, allowAnyOrigin bool) *SessionHandler {
	h := &SessionHandler{
		secret:    secret,
		guard:     guard,
		hub:       hub,
		directory: directory,
		router:    router,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
	if allowAnyOrigin {
		h.upgrader.CheckOrigin = func(_ *http.Request) bool { return true }
	}
	return h
}

// Ticket handles GET /ws/tickets/:id. Broadcast mode: every subscriber of
// the ticket receives every message, sender included.
func (h *SessionHandler) Ticket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	ident, ok := h.identify(conn, c)
	if !ok {
		return
	}
	ticketID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		closePolicyViolation(conn)
		return
	}
	if err := h.guard.AuthorizeTicket(c.Request.Context(), ident, ticketID); err != nil {
		closePolicyViolation(conn)
		return
	}

	key := strconv.FormatUint(ticketID, 10)
	client := NewClient(conn)
	h.hub.Register(key, client)
	log.Info().Uint64("ticket_id", ticketID).Uint64("user_id", ident.ID).Msg("ws: ticket session started")

	client.ReadLoop(func(raw []byte) {
		h.router.HandleTicketFrame(c.Request.Context(), ident, ticketID, raw)
	})

	h.hub.Unregister(key, client)
	h.router.NotifyTicketLeave(ident, ticketID)
	log.Info().Uint64("ticket_id", ticketID).Uint64("user_id", ident.ID).Msg("ws: ticket session ended")
}

// Order handles GET /ws/orders/:order_id. Direct mode: the connection is
// registered under the participant's own key and frames name an explicit
// receiver. No presence notice on disconnect since there is no broadcast group
// to notify.
func (h *SessionHandler) Order(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	ident, ok := h.identify(conn, c)
	if !ok {
		return
	}
	orderID := c.Param("order_id")
	if err := h.guard.AuthorizeOrder(c.Request.Context(), ident, orderID); err != nil {
		closePolicyViolation(conn)
		return
	}

	client := NewClient(conn)
	h.directory.Register(ident.Key(), client)
	log.Info().Str("order_id", orderID).Uint64("user_id", ident.ID).Msg("ws: order session started")

	client.ReadLoop(func(raw []byte) {
		h.router.HandleOrderFrame(c.Request.Context(), ident, orderID, raw)
	})

	h.directory.Unregister(ident.Key(), client)
	log.Info().Str("order_id", orderID).Uint64("user_id", ident.ID).Msg("ws: order session ended")
}

// identify resolves the caller's identity from the carried session token.
// On failure the connection is closed with the policy violation code and
// ok is false.
func (h *SessionHandler) identify(conn *websocket.Conn, c *gin.Context) (Identity, bool) {
	tokenStr := auth.TokenFromRequest(c.Request)
	if tokenStr == "" {
		closePolicyViolation(conn)
		return Identity{}, false
	}
	claims, err := auth.ParseToken(h.secret, tokenStr)
	if err != nil {
		closePolicyViolation(conn)
		return Identity{}, false
	}
	return Identity{ID: claims.UserID, Username: claims.Username, IsAdmin: claims.IsAdmin}, true
}

func closePolicyViolation(conn *websocket.Conn) {
	msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "")
	_ = conn.WriteMessage(websocket.CloseMessage, msg)
	_ = conn.Close()
}
