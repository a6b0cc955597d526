package events

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Handler receives events published on the bus
type Handler func(*Event)

// Bus is a synchronous in-process publish/subscribe hub.
// Handlers run on the emitting goroutine and must not block.
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType]map[uint64]Handler
	nextID   uint64
	log      zerolog.Logger
}

// NewBus creates a new event bus
func NewBus(log zerolog.Logger) *Bus {
	return &Bus{
		handlers: make(map[EventType]map[uint64]Handler),
		log:      log.With().Str("component", "event_bus").Logger(),
	}
}

// Subscribe registers a handler for one event type.
// The returned function removes the subscription.
func (b *Bus) Subscribe(eventType EventType, handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	if b.handlers[eventType] == nil {
		b.handlers[eventType] = make(map[uint64]Handler)
	}
	b.handlers[eventType][id] = handler

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers[eventType], id)
	}
}

// SubscribeMany registers the same handler for several event types.
func (b *Bus) SubscribeMany(eventTypes []EventType, handler Handler) func() {
	unsubs := make([]func(), 0, len(eventTypes))
	for _, t := range eventTypes {
		unsubs = append(unsubs, b.Subscribe(t, handler))
	}
	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}

// Emit publishes an event to every handler subscribed to its type
func (b *Bus) Emit(eventType EventType, module string, data map[string]interface{}) {
	event := &Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
		Module:    module,
	}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers[eventType]))
	for _, h := range b.handlers[eventType] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		b.dispatch(h, event)
	}
}

// SubscriberCount returns the number of handlers registered for an event type
func (b *Bus) SubscriberCount(eventType EventType) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType])
}

func (b *Bus) dispatch(h Handler, event *Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().
				Interface("panic", r).
				Str("event_type", string(event.Type)).
				Msg("Event handler panicked")
		}
	}()
	h(event)
}
