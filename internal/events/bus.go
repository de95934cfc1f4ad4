package events

import (
	"github.com/kelindar/event"
)

// Bus wraps a kelindar/event dispatcher. Delivery is asynchronous and ordered
// per subscriber, so publishers never wait on slow subscribers.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus.
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish publishes an event to all subscribers of its concrete type.
// A nil bus is a valid no-op publisher.
func (b *Bus) Publish(ev Event) {
	if b == nil {
		return
	}
	switch e := ev.(type) {
	case LEDToggledEvent:
		event.Publish(b.dispatcher, e)
	case ConnectionEvent:
		event.Publish(b.dispatcher, e)
	case ServerStatsEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe registers handler for the event type named by its parameter,
// e.g. bus.Subscribe(func(e LEDToggledEvent) { ... }).
// Returns an unsubscribe function; unknown handler types get a no-op.
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(LEDToggledEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(ConnectionEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(ServerStatsEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}

// Close stops all subscriber goroutines.
func (b *Bus) Close() error {
	return b.dispatcher.Close()
}
