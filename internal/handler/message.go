package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/support-chat/chat-service/internal/auth"
	"github.com/support-chat/chat-service/internal/errs"
	"github.com/support-chat/chat-service/internal/model"
	"github.com/support-chat/chat-service/internal/service"
)

// MessageHandler is the REST history surface for ticket conversations.
// Live delivery happens over the websocket layer; this is for catch-up.
type MessageHandler struct {
	store   *service.MessageStore
	tickets *service.TicketService
}

func NewMessageHandler(store *service.MessageStore, tickets *service.TicketService) *MessageHandler {
	return &MessageHandler{store: store, tickets: tickets}
}

type createMessageRequest struct {
	TicketID uint64 `json:"ticket_id" binding:"required"`
	Content  string `json:"content" binding:"required"`
}

func (h *MessageHandler) Create(c *gin.Context) {
	claims := auth.MustClaims(c)
	var req createMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if !h.checkTicketAccess(c, claims, req.TicketID) {
		return
	}

	msg := &model.Message{
		ConversationKind: model.ConversationTicket,
		ConversationKey:  strconv.FormatUint(req.TicketID, 10),
		SenderID:         strconv.FormatUint(claims.UserID, 10),
		Content:          req.Content,
		Kind:             model.MessageKindText,
	}
	if err := h.store.Append(c.Request.Context(), msg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create message"})
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *MessageHandler) ListByTicket(c *gin.Context) {
	claims := auth.MustClaims(c)
	ticketID, err := strconv.ParseUint(c.Param("ticket_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket id"})
		return
	}
	if !h.checkTicketAccess(c, claims, ticketID) {
		return
	}

	msgs, err := h.store.ListByConversation(c.Request.Context(), model.ConversationTicket, strconv.FormatUint(ticketID, 10))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// checkTicketAccess writes the error response itself and reports whether
// the caller may touch the ticket's conversation.
func (h *MessageHandler) checkTicketAccess(c *gin.Context, claims *auth.Claims, ticketID uint64) bool {
	t, err := h.tickets.GetByID(c.Request.Context(), ticketID)
	if err != nil {
		if errors.Is(err, errs.ErrTicketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
			return false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check ticket"})
		return false
	}
	if !claims.IsAdmin && t.UserID != claims.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized to access this ticket"})
		return false
	}
	return true
}
