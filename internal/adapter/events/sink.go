package events

import (
	"context"

	"p2p-lending-backend/internal/domain/event"

	"github.com/sirupsen/logrus"
)

// Fanout hands every event to each sink in order.
type Fanout []event.Sink

func (f Fanout) Emit(ctx context.Context, e event.Event) {
	for _, s := range f {
		s.Emit(ctx, e)
	}
}

// Logger writes events to the application log.
type Logger struct{ Log *logrus.Logger }

func (l Logger) Emit(_ context.Context, e event.Event) {
	log := l.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	log.WithFields(logrus.Fields{"type": e.Type, "user_id": e.UserID}).Info(e.Message)
}
