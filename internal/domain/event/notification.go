package event

import (
	"context"
	"time"
)

// Notification is the persisted form of an Event.
type Notification struct {
	ID             uint64    `gorm:"primaryKey;column:id" json:"-"`
	NotificationID string    `gorm:"size:32;uniqueIndex:ux_notifications_notification_id" json:"notification_id"`
	Type           Type      `gorm:"size:32;not null;index" json:"type"`
	Message        string    `gorm:"type:text;not null" json:"message"`
	UserID         *string   `gorm:"size:32;index" json:"user_id,omitempty"`
	Payload        string    `gorm:"type:text" json:"payload,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	// Recent returns the newest notifications first.
	Recent(ctx context.Context, limit int) ([]Notification, error)
}
