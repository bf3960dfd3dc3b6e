package domain

import (
	"time"

	"gorm.io/datatypes"
)

const (
	EventView         = "view"
	EventSearch       = "search"
	EventCartAdd      = "cart_add"
	EventPurchase     = "purchase"
	EventChatQuestion = "chat_question"
)

// UserEvent is an append-only interaction record used for personalization.
// ProductID may be 0 when the event has no specific product (e.g. search).
type UserEvent struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	UserID    string            `gorm:"column:user_id;index" json:"user_id,omitempty"`
	ProductID uint64            `gorm:"column:product_id;index" json:"product_id"`
	EventType string            `gorm:"column:event_type;not null" json:"event_type"`
	Metadata  datatypes.JSONMap `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Product Product `gorm:"foreignKey:ProductID;references:ID" json:"-"`
}

func (UserEvent) TableName() string {
	return "user_events"
}
