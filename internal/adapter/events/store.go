package events

import (
	"context"
	"encoding/json"

	"p2p-lending-backend/internal/domain/event"
	"p2p-lending-backend/pkg/id"

	"github.com/sirupsen/logrus"
)

// MaxRecent caps how many notifications Recent returns.
const MaxRecent = 100

// Store persists events as notification rows.
type Store struct {
	repo event.NotificationRepository
	log  *logrus.Logger
}

func NewStore(repo event.NotificationRepository, log *logrus.Logger) *Store {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Store{repo: repo, log: log}
}

func (s *Store) Emit(ctx context.Context, e event.Event) {
	n := &event.Notification{
		NotificationID: id.NewID32(),
		Type:           e.Type,
		Message:        e.Message,
		CreatedAt:      e.OccurredAt,
	}
	if e.UserID != "" {
		uid := e.UserID
		n.UserID = &uid
	}
	if len(e.Payload) > 0 {
		b, err := json.Marshal(e.Payload)
		if err != nil {
			s.log.WithError(err).WithField("type", e.Type).Warn("events: payload not encodable")
		} else {
			n.Payload = string(b)
		}
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.log.WithError(err).WithField("type", e.Type).Error("events: store failed")
	}
}

// Recent returns the newest notifications first. limit is clamped to
// [1, MaxRecent]; zero means MaxRecent.
func (s *Store) Recent(ctx context.Context, limit int) ([]event.Notification, error) {
	if limit <= 0 || limit > MaxRecent {
		limit = MaxRecent
	}
	return s.repo.Recent(ctx, limit)
}
