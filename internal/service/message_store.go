package service

import (
	"context"

	"github.com/support-chat/chat-service/internal/model"
	"gorm.io/gorm"
)

// MessageStore is the durable append-only log of conversation messages.
// Rows are never updated (except the read flag) or deleted here.
type MessageStore struct {
	db *gorm.DB
}

func NewMessageStore(db *gorm.DB) *MessageStore {
	return &MessageStore{db: db}
}

// Append persists a message. The database assigns ID and CreatedAt; GORM
// fills both back into m, so the caller sees the persisted timestamp.
func (s *MessageStore) Append(ctx context.Context, m *model.Message) error {
	if m.Kind == "" {
		m.Kind = model.MessageKindText
	}
	return s.db.WithContext(ctx).Create(m).Error
}

// ListByConversation returns a conversation's messages in timestamp order.
func (s *MessageStore) ListByConversation(ctx context.Context, kind model.ConversationKind, key string) ([]model.Message, error) {
	var items []model.Message
	err := s.db.WithContext(ctx).
		Where("conversation_kind = ? AND conversation_key = ?", kind, key).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	return items, err
}

// MarkRead flags all messages addressed to readerID in a conversation.
func (s *MessageStore) MarkRead(ctx context.Context, kind model.ConversationKind, key, readerID string) error {
	return s.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("conversation_kind = ? AND conversation_key = ? AND receiver_id = ? AND read = ?", kind, key, readerID, false).
		Update("read", true).Error
}
