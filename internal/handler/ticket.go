package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/support-chat/chat-service/internal/auth"
	"github.com/support-chat/chat-service/internal/errs"
	"github.com/support-chat/chat-service/internal/events"
	"github.com/support-chat/chat-service/internal/model"
	"github.com/support-chat/chat-service/internal/service"
)

type TicketHandler struct {
	svc    *service.TicketService
	events *events.Producer
}

func NewTicketHandler(svc *service.TicketService, producer *events.Producer) *TicketHandler {
	return &TicketHandler{svc: svc, events: producer}
}

type createTicketRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

func (h *TicketHandler) Create(c *gin.Context) {
	claims := auth.MustClaims(c)
	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	ticket := &model.Ticket{
		Title:       req.Title,
		Description: req.Description,
		Status:      model.TicketStatusOpen,
		UserID:      claims.UserID,
	}
	if err := h.svc.Create(c.Request.Context(), ticket); err != nil {
		if errors.Is(err, errs.ErrActiveTicketExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "you already have an active ticket"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create ticket"})
		return
	}
	h.events.EmitAsync(events.TicketCreated, map[string]interface{}{
		"ticket_id": ticket.ID,
		"user_id":   ticket.UserID,
		"title":     ticket.Title,
	})
	c.JSON(http.StatusCreated, ticket)
}

// List returns all tickets for admins, only the caller's own otherwise.
func (h *TicketHandler) List(c *gin.Context) {
	claims := auth.MustClaims(c)
	filter := make(map[string]interface{})
	if !claims.IsAdmin {
		filter["user_id = ?"] = claims.UserID
	}
	if v := c.Query("status"); v != "" {
		filter["status = ?"] = v
	}

	limit := 0
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	items, total, err := h.svc.List(c.Request.Context(), filter, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tickets"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tickets": items,
		"total":   total,
	})
}

func (h *TicketHandler) Get(c *gin.Context) {
	claims := auth.MustClaims(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	t, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, errs.ErrTicketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get ticket"})
		return
	}
	if !claims.IsAdmin && t.UserID != claims.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized to access this ticket"})
		return
	}
	c.JSON(http.StatusOK, t)
}

type updateStatusRequest struct {
	Status model.TicketStatus `json:"status" binding:"required"`
}

// UpdateStatus is admin-only: operators move tickets through their
// lifecycle, requesters do not.
func (h *TicketHandler) UpdateStatus(c *gin.Context) {
	claims := auth.MustClaims(c)
	if !claims.IsAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "only admins can update ticket status"})
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	switch req.Status {
	case model.TicketStatusOpen, model.TicketStatusInProgress, model.TicketStatusClosed:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}
	t, err := h.svc.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, errs.ErrTicketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update ticket"})
		return
	}
	h.events.EmitAsync(events.TicketStatusChanged, map[string]interface{}{
		"ticket_id": t.ID,
		"status":    string(req.Status),
	})
	c.JSON(http.StatusOK, t)
}
