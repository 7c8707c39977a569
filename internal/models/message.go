package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Message represents a persisted chat message in the PostgreSQL database.
// ID doubles as the room-wide ordering sequence and CreatedAt as the
// server-assigned timestamp. The bookkeeping columns are spelled out instead
// of embedding gorm.Model so the wire shape stays camelCase like every other
// field. Messages are immutable once created.
type Message struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// RoomID is the identifier of the room where the message was sent.
	RoomID string `gorm:"type:uuid;not null;index:idx_room_msg" json:"roomId"`
	// SenderID is the staff ID of the sender, or "system" for lifecycle
	// messages emitted by the router itself.
	SenderID string `gorm:"type:text;not null;index:idx_room_msg" json:"senderId"`
	// Content is the message body. Mention spans stay verbatim ("@Full Name");
	// highlighting is re-derived at render time.
	Content string `gorm:"type:text;not null" json:"content"`
	// Type is TEXT, ORDER_REFERENCE, or SYSTEM.
	Type string `gorm:"type:text;not null" json:"messageType"`

	// ReplyToMessageID references an earlier message in the same room.
	ReplyToMessageID *uint `gorm:"index" json:"replyToMessageId,omitempty"`
	// TaggedUserIDs holds ids of participants mentioned in the message.
	TaggedUserIDs pq.StringArray `gorm:"type:text[]" json:"taggedUserIds,omitempty"`

	// OrderReference is a denormalized snapshot taken at send time for
	// ORDER_REFERENCE messages. It is never refreshed from the order service.
	OrderReference OrderReference `gorm:"embedded;embeddedPrefix:order_" json:"orderReference,omitempty"`
}

// OrderReference is the frozen summary of an order attached to a message.
type OrderReference struct {
	OrderID          string  `json:"orderId,omitempty"`
	CustomerName     string  `json:"customerName,omitempty"`
	RestaurantName   string  `json:"restaurantName,omitempty"`
	TotalAmount      float64 `json:"totalAmount,omitempty"`
	UrgencyLevel     string  `json:"urgencyLevel,omitempty"`
	IssueDescription string  `json:"issueDescription,omitempty"`
}

// ReplySnapshot is the minimal denormalized view of a replied-to message,
// resolved once at read time. Old replies keep the sender name they were
// rendered with even if the sender later renames.
type ReplySnapshot struct {
	SenderName string `json:"senderName"`
	Content    string `json:"content"`
}

// EnrichedMessage is a Message decorated with resolved display data for
// delivery to clients.
type EnrichedMessage struct {
	Message
	SenderName   string         `json:"senderName,omitempty"`
	SenderAvatar string         `json:"senderAvatar,omitempty"`
	ReplyTo      *ReplySnapshot `json:"replyTo,omitempty"`
	// CorrelationID echoes the client-supplied send id so optimistic
	// messages reconcile on id rather than content equality.
	CorrelationID string `json:"correlationId,omitempty"`
}
