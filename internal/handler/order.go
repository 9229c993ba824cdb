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

type OrderHandler struct {
	svc   *service.OrderService
	store *service.MessageStore
}

func NewOrderHandler(svc *service.OrderService, store *service.MessageStore) *OrderHandler {
	return &OrderHandler{svc: svc, store: store}
}

type createOrderRequest struct {
	OrderID           string `json:"order_id"`
	CustomerID        string `json:"customer_id" binding:"required"`
	ServiceProviderID string `json:"service_provider_id" binding:"required"`
	ServiceType       string `json:"service_type"`
	Status            string `json:"status"`
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	order := &model.Order{
		OrderID:           req.OrderID,
		CustomerID:        req.CustomerID,
		ServiceProviderID: req.ServiceProviderID,
		ServiceType:       req.ServiceType,
		Status:            req.Status,
	}
	if err := h.svc.Create(c.Request.Context(), order); err != nil {
		if errors.Is(err, errs.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "order id already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create order"})
		return
	}
	c.JSON(http.StatusCreated, order)
}

// List returns the caller's orders (as customer or provider), newest
// first. Admins may pass ?user_id= to inspect another participant.
func (h *OrderHandler) List(c *gin.Context) {
	claims := auth.MustClaims(c)
	participantID := strconv.FormatUint(claims.UserID, 10)
	if v := c.Query("user_id"); v != "" && claims.IsAdmin {
		participantID = v
	}
	items, err := h.svc.ListForParticipant(c.Request.Context(), participantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": items})
}

// ChatHistory returns an order conversation's messages in timestamp order.
// Only the order's participants and admins may read it.
func (h *OrderHandler) ChatHistory(c *gin.Context) {
	claims := auth.MustClaims(c)
	orderID := c.Param("order_id")

	order, err := h.svc.GetByKey(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, errs.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get order"})
		return
	}
	participantID := strconv.FormatUint(claims.UserID, 10)
	if !claims.IsAdmin && order.CustomerID != participantID && order.ServiceProviderID != participantID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized to access this order"})
		return
	}

	msgs, err := h.store.ListByConversation(c.Request.Context(), model.ConversationOrder, orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}
