package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/support-chat/chat-service/internal/errs"
	"github.com/support-chat/chat-service/internal/model"
	"gorm.io/gorm"
)

type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// Create persists a new order. A missing business key is assigned a UUID;
// a caller-supplied key that collides fails with ErrDuplicate.
func (s *OrderService) Create(ctx context.Context, o *model.Order) error {
	if o.OrderID == "" {
		o.OrderID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(o).Error; err != nil {
		if errs.IsUniqueViolation(err) {
			return errs.ErrDuplicate
		}
		return err
	}
	return nil
}

func (s *OrderService) GetByKey(ctx context.Context, orderID string) (*model.Order, error) {
	var o model.Order
	if err := s.db.WithContext(ctx).Where("order_id = ?", orderID).First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

// ListForParticipant returns orders where the given identity is either the
// customer or the service provider, newest first.
func (s *OrderService) ListForParticipant(ctx context.Context, participantID string) ([]model.Order, error) {
	var items []model.Order
	err := s.db.WithContext(ctx).
		Where("customer_id = ? OR service_provider_id = ?", participantID, participantID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}
