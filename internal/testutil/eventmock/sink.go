package eventmock

import (
	"context"
	"sync"

	"p2p-lending-backend/internal/domain/event"
)

var _ event.Sink = (*Recorder)(nil)

// Recorder keeps every emitted event in order.
type Recorder struct {
	mu     sync.Mutex
	events []event.Event
}

func (r *Recorder) Emit(_ context.Context, e event.Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *Recorder) Events() []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]event.Event(nil), r.events...)
}

// Types lists the recorded event types, oldest first.
func (r *Recorder) Types() []event.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]event.Type, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}
