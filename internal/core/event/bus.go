package event

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type Handler func(ctx context.Context, e Event) error

type Bus interface {
	Publish(ctx context.Context, e Event) error
	Subscribe(t EventType, h Handler) (unsubscribe func())
}

// NewBus creates an in-process event bus for analysis lifecycle events.
// Handlers run synchronously on the publishing goroutine, in subscription
// order; a handler error is logged, never propagated, so one broken
// subscriber cannot break the pipeline that published the event.
func NewBus() Bus {
	return &inProcessBus{
		subs: make(map[EventType][]subscription),
	}
}

type subscription struct {
	id uint64
	h  Handler
}

type inProcessBus struct {
	mu     sync.RWMutex
	subs   map[EventType][]subscription
	lastID uint64
}

func (b *inProcessBus) Publish(ctx context.Context, e Event) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[e.Type]))
	for _, s := range b.subs[e.Type] {
		handlers = append(handlers, s.h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := h(ctx, e); err != nil {
			log.Error().Err(err).
				Str("event", string(e.Type)).
				Str("analysis_id", e.Payload.AnalysisID).
				Msg("event handler error")
		}
	}
	return nil
}

func (b *inProcessBus) Subscribe(t EventType, h Handler) func() {
	b.mu.Lock()
	b.lastID++
	id := b.lastID
	b.subs[t] = append(b.subs[t], subscription{id: id, h: h})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs[t] {
			if s.id == id {
				b.subs[t] = append(b.subs[t][:i], b.subs[t][i+1:]...)
				return
			}
		}
	}
}
