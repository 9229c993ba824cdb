package service

import (
	"context"

	"github.com/support-chat/chat-service/internal/model"
)

// Conversations exposes both conversation kinds behind the lookup shape
// the access guard consumes.
type Conversations struct {
	tickets *TicketService
	orders  *OrderService
}

func NewConversations(tickets *TicketService, orders *OrderService) *Conversations {
	return &Conversations{tickets: tickets, orders: orders}
}

func (c *Conversations) TicketByID(ctx context.Context, id uint64) (*model.Ticket, error) {
	return c.tickets.GetByID(ctx, id)
}

func (c *Conversations) OrderByKey(ctx context.Context, orderID string) (*model.Order, error) {
	return c.orders.GetByKey(ctx, orderID)
}
