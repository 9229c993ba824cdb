package model

import "time"

type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusClosed     TicketStatus = "closed"
)

// ConversationKind selects which conversation table a message belongs to.
type ConversationKind string

const (
	ConversationTicket ConversationKind = "ticket"
	ConversationOrder  ConversationKind = "order"
)

// MessageKind distinguishes user text from synthetic system notices.
type MessageKind string

const (
	MessageKindText   MessageKind = "text"
	MessageKindSystem MessageKind = "system"
)

type User struct {
	ID           uint64 `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"type:varchar(120);uniqueIndex;not null" json:"username"`
	Email        string `gorm:"type:varchar(190);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
	IsAdmin      bool   `gorm:"not null;default:false" json:"is_admin"`

	CreatedAt time.Time `json:"created_at"`
}

// LoginHistory records every login attempt, successful or not. UserID is
// nil for attempts against unknown usernames.
type LoginHistory struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    *uint64   `gorm:"index" json:"user_id,omitempty"`
	IPAddress string    `gorm:"type:varchar(64)" json:"ip_address"`
	Success   bool      `gorm:"not null;default:false" json:"success"`
	LoginTime time.Time `gorm:"autoCreateTime" json:"login_time"`
}

type Ticket struct {
	ID          uint64       `gorm:"primaryKey" json:"id"`
	Title       string       `gorm:"type:varchar(255);not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Status      TicketStatus `gorm:"type:varchar(32);index;not null" json:"status"`
	UserID      uint64       `gorm:"index;not null" json:"user_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Order links a customer and a service provider through a unique business
// key. The key is immutable after creation and is what order chat messages
// are scoped to.
type Order struct {
	ID                uint64 `gorm:"primaryKey" json:"id"`
	OrderID           string `gorm:"type:varchar(64);uniqueIndex;not null" json:"order_id"`
	CustomerID        string `gorm:"type:varchar(64);index;not null" json:"customer_id"`
	ServiceProviderID string `gorm:"type:varchar(64);index;not null" json:"service_provider_id"`
	ServiceType       string `gorm:"type:varchar(64)" json:"service_type"`
	Status            string `gorm:"type:varchar(32)" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is the single persisted shape for both conversation kinds.
// Ticket messages leave ReceiverID empty (delivery is broadcast); order
// messages address exactly one receiver. CreatedAt is assigned at
// persistence time and establishes the conversation's total order.
type Message struct {
	ID               uint64           `gorm:"primaryKey" json:"id"`
	ConversationKind ConversationKind `gorm:"type:varchar(16);index:idx_messages_conversation;not null" json:"conversation_kind"`
	ConversationKey  string           `gorm:"type:varchar(64);index:idx_messages_conversation;not null" json:"conversation_key"`
	SenderID         string           `gorm:"type:varchar(64);index;not null" json:"sender_id"`
	ReceiverID       string           `gorm:"type:varchar(64);index" json:"receiver_id,omitempty"`
	Content          string           `gorm:"type:text;not null" json:"content"`
	Kind             MessageKind      `gorm:"type:varchar(16);not null;default:text" json:"kind"`
	Read             bool             `gorm:"not null;default:false" json:"read"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
