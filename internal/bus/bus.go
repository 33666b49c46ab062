// Package bus provides the process-local broadcast channel carrying canonical
// threat entities to any number of independent consumers. Delivery is
// at-most-once and non-durable: a subscriber registered after a publish
// misses it, and a subscriber that cannot keep up drops entities rather than
// stalling the producer.
package bus

import (
	"sync"

	"github.com/vayustack/vayu-intel/internal/models"
)

// defaultSubscriberBuffer is sized for a dashboard consumer draining on a
// render tick; overflow drops, it never blocks ingestion.
const defaultSubscriberBuffer = 16

// Bus fans newly-ingested entities out to subscribed listeners.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan models.Threat
	closed bool
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[int]chan models.Threat)}
}

// Subscribe registers a listener and returns its delivery channel plus a
// cancel function. The channel is closed on cancel or bus close.
func (b *Bus) Subscribe() (<-chan models.Threat, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan models.Threat, defaultSubscriberBuffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish delivers t to every current subscriber, fire-and-forget.
func (b *Bus) Publish(t models.Threat) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- t:
		default:
			// Subscriber backlog full; at-most-once allows the drop.
		}
	}
}

// Close tears the bus down and closes all subscriber channels.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
