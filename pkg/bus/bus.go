// Package bus is the in-process change-notification point that keeps
// independent views of the persisted collections consistent. A component
// that mutates a collection publishes once; every subscriber re-reads the
// data it depends on and recomputes. There is no incremental payload: the
// expected data scale makes full refetch on every signal acceptable.
package bus

import "sync"

// Event describes a data change. Collection names the collection that was
// written ("models", "dealers", "customers"); subscribers should treat any
// event as "something changed" since model and dealer edits invalidate
// customer-derived views too.
type Event struct {
	Collection string
}

// Handler receives change events synchronously on the publisher's goroutine.
type Handler func(Event)

// Bus fans change events out to all subscribers.
type Bus struct {
	mu       sync.Mutex
	handlers []Handler
}

// New creates an empty bus
func New() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for all future events
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish delivers the event to every subscriber before returning. Delivery
// order is subscription order.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.Unlock()

	for _, h := range handlers {
		h(e)
	}
}
