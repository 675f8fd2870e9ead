package testutil

import (
	"sync"
	"testing"

	"github.com/mitchelldurbincs/CoinNim/internal/game/events"
	"github.com/rs/zerolog"
)

// NopLogger returns a no-op logger for tests
func NopLogger() zerolog.Logger {
	return zerolog.Nop()
}

// AssertPanic asserts that the given function panics
func AssertPanic(t *testing.T, f func(), msgAndArgs ...interface{}) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected panic but none occurred: %v", msgAndArgs)
		}
	}()
	f()
}

// EventRecorder is a subscriber that keeps every event it sees.
type EventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

// NewEventRecorder subscribes a recorder to bus.
func NewEventRecorder(bus events.Bus) *EventRecorder {
	r := &EventRecorder{}
	bus.Subscribe(r)
	return r
}

func (r *EventRecorder) ID() string                 { return "test-recorder" }
func (r *EventRecorder) InterestedIn(_ string) bool { return true }

func (r *EventRecorder) HandleEvent(e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns the recorded events in publish order.
func (r *EventRecorder) Events() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.Event(nil), r.events...)
}

// Types returns the recorded event types in publish order.
func (r *EventRecorder) Types() []string {
	var types []string
	for _, e := range r.Events() {
		types = append(types, e.Type())
	}
	return types
}

// OfType returns the recorded events with the given type.
func (r *EventRecorder) OfType(eventType string) []events.Event {
	var out []events.Event
	for _, e := range r.Events() {
		if e.Type() == eventType {
			out = append(out, e)
		}
	}
	return out
}
