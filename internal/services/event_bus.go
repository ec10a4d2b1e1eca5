// internal/services/event_bus.go
package services

import (
	"sync"
	"time"
)

type EventType string

const (
	EventArtisanRegistered EventType = "artisan.registered"
	EventProductCreated    EventType = "product.created"
	EventProductUpdated    EventType = "product.updated"
	EventProductRemoved    EventType = "product.removed"
	EventProductSold       EventType = "product.sold"
	EventProductVerified   EventType = "product.verified"
)

// MutationEvent is published on every registry mutation so interested parties
// (UI pushers, caches, tests) react to changes instead of polling the store.
type MutationEvent struct {
	Type      EventType `json:"type"`
	ProductID string    `json:"productId,omitempty"`
	ArtisanID string    `json:"artisanId,omitempty"`
	Actor     string    `json:"actor,omitempty"`
	At        time.Time `json:"at"`
}

// EventBus is a small in-process fan-out. Delivery is best-effort: a
// subscriber that stops draining its channel loses events rather than
// blocking mutations.
type EventBus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]chan MutationEvent
}

func NewEventBus() *EventBus {
	return &EventBus{subs: make(map[int]chan MutationEvent)}
}

// Subscribe returns a receive channel and a cancel function. The channel is
// closed on cancel.
func (b *EventBus) Subscribe(buffer int) (<-chan MutationEvent, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan MutationEvent, buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

func (b *EventBus) Publish(event MutationEvent) {
	if event.At.IsZero() {
		event.At = time.Now()
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
