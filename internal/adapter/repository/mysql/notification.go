package mysql

import (
	"context"

	"p2p-lending-backend/internal/domain/event"

	"gorm.io/gorm"
)

type NotificationRepository struct{ db *gorm.DB }

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *event.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NotificationRepository) Recent(ctx context.Context, limit int) ([]event.Notification, error) {
	var out []event.Notification
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Limit(limit).Find(&out).Error
	return out, err
}
