package ws

import (
	"context"

	"github.com/support-chat/chat-service/internal/errs"
	"github.com/support-chat/chat-service/internal/model"
)

// ConversationSource resolves conversation keys to their participants.
type ConversationSource interface {
	TicketByID(ctx context.Context, id uint64) (*model.Ticket, error)
	OrderByKey(ctx context.Context, orderID string) (*model.Order, error)
}

// Guard authorizes an identity against a conversation. Pure read: no side
// effects, so repeated checks always yield the same result. It runs once
// per connection, at upgrade time.
type Guard struct {
	src ConversationSource
}

func NewGuard(src ConversationSource) *Guard {
	return &Guard{src: src}
}

// AuthorizeTicket allows the ticket's owner and admins.
func (g *Guard) AuthorizeTicket(ctx context.Context, ident Identity, ticketID uint64) error {
	t, err := g.src.TicketByID(ctx, ticketID)
	if err != nil {
		return err
	}
	if ident.IsAdmin || t.UserID == ident.ID {
		return nil
	}
	return errs.ErrForbidden
}

// AuthorizeOrder allows the order's customer, its service provider, and
// admins.
func (g *Guard) AuthorizeOrder(ctx context.Context, ident Identity, orderID string) error {
	o, err := g.src.OrderByKey(ctx, orderID)
	if err != nil {
		return err
	}
	if ident.IsAdmin || o.CustomerID == ident.Key() || o.ServiceProviderID == ident.Key() {
		return nil
	}
	return errs.ErrForbidden
}
