package event

import (
	"sync"
	"sync/atomic"
)

// Handler processes a published envelope. Handlers run synchronously on
// the publisher's goroutine; a panicking handler is recovered and
// counted, and never affects the mutation that triggered the event.
type Handler func(Envelope)

// Subscription identifies a registered handler for later removal.
type Subscription struct {
	id    uint64
	topic Topic
}

// Stats reports bus activity counters.
type Stats struct {
	Published     uint64
	Delivered     uint64
	HandlerPanics uint64
	Subscribers   int
}

// Bus is a synchronous observer bus for history events. The engine
// publishes after each committed mutation; observers never reach back
// into the engine's locks.
type Bus struct {
	mu   sync.RWMutex
	subs map[Topic]map[uint64]Handler

	nextID    atomic.Uint64
	published atomic.Uint64
	delivered atomic.Uint64
	panics    atomic.Uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[Topic]map[uint64]Handler),
	}
}

// Subscribe registers a handler for a topic. Use TopicAll to observe
// every topic.
func (b *Bus) Subscribe(topic Topic, handler Handler) Subscription {
	id := b.nextID.Add(1)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[topic] == nil {
		b.subs[topic] = make(map[uint64]Handler)
	}
	b.subs[topic][id] = handler

	return Subscription{id: id, topic: topic}
}

// Unsubscribe removes a subscription. Returns false if it was not
// registered.
func (b *Bus) Unsubscribe(sub Subscription) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	handlers, ok := b.subs[sub.topic]
	if !ok {
		return false
	}
	if _, ok := handlers[sub.id]; !ok {
		return false
	}
	delete(handlers, sub.id)
	return true
}

// Publish delivers an envelope to handlers subscribed to its topic and
// to TopicAll. Delivery order across handlers is unspecified.
func (b *Bus) Publish(env Envelope) {
	b.published.Add(1)

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[env.Topic])+len(b.subs[TopicAll]))
	for _, h := range b.subs[env.Topic] {
		handlers = append(handlers, h)
	}
	if env.Topic != TopicAll {
		for _, h := range b.subs[TopicAll] {
			handlers = append(handlers, h)
		}
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		b.safeCall(h, env)
	}
}

// Stats returns current bus counters.
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	subscribers := 0
	for _, handlers := range b.subs {
		subscribers += len(handlers)
	}
	b.mu.RUnlock()

	return Stats{
		Published:     b.published.Load(),
		Delivered:     b.delivered.Load(),
		HandlerPanics: b.panics.Load(),
		Subscribers:   subscribers,
	}
}

// safeCall invokes a handler with panic recovery so a failing observer
// cannot crash the engine.
func (b *Bus) safeCall(h Handler, env Envelope) {
	defer func() {
		if recover() != nil {
			b.panics.Add(1)
		}
	}()
	h(env)
	b.delivered.Add(1)
}
