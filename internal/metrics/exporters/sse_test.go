package exporters

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/smazurov/ledtoggle/internal/events"
	"github.com/smazurov/ledtoggle/internal/led"
)

type mockEventBus struct {
	mu        sync.Mutex
	events    []events.Event
	published chan struct{}
}

func newMockEventBus() *mockEventBus {
	return &mockEventBus{
		events:    make([]events.Event, 0),
		published: make(chan struct{}, 100),
	}
}

func (m *mockEventBus) Publish(ev events.Event) {
	m.mu.Lock()
	m.events = append(m.events, ev)
	m.mu.Unlock()
	select {
	case m.published <- struct{}{}:
	default:
	}
}

func (m *mockEventBus) getEvents() []events.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]events.Event, len(m.events))
	copy(result, m.events)
	return result
}

type fixedCounter int

func (c fixedCounter) ActiveConnections() int { return int(c) }

func TestStatsExporterPublishesStats(t *testing.T) {
	state := led.NewState()
	state.Toggle()
	state.Toggle()
	state.Toggle()

	mock := newMockEventBus()
	exporter := NewStatsExporter(mock, state, fixedCounter(2))
	exporter.interval = 20 * time.Millisecond

	exporter.Start(context.Background())

	select {
	case <-mock.published:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for stats publish")
	}
	exporter.Stop()

	evts := mock.getEvents()
	stats, ok := evts[0].(events.ServerStatsEvent)
	if !ok {
		t.Fatalf("event = %T, want ServerStatsEvent", evts[0])
	}
	if !stats.On {
		t.Error("On = false after three toggles")
	}
	if stats.Toggles != 3 {
		t.Errorf("Toggles = %d, want 3", stats.Toggles)
	}
	if stats.ActiveConnections != 2 {
		t.Errorf("ActiveConnections = %d, want 2", stats.ActiveConnections)
	}
	if stats.Timestamp == "" {
		t.Error("missing timestamp")
	}
}

func TestStatsExporterNilCounter(t *testing.T) {
	mock := newMockEventBus()
	exporter := NewStatsExporter(mock, led.NewState(), nil)
	exporter.publishStats()

	evts := mock.getEvents()
	if len(evts) != 1 {
		t.Fatalf("got %d events, want 1", len(evts))
	}
	if got := evts[0].(events.ServerStatsEvent).ActiveConnections; got != 0 {
		t.Errorf("ActiveConnections = %d, want 0", got)
	}
}

func TestStatsExporterStopIdempotent(t *testing.T) {
	mock := newMockEventBus()
	exporter := NewStatsExporter(mock, led.NewState(), nil)
	exporter.interval = 10 * time.Millisecond

	exporter.Start(context.Background())
	time.Sleep(30 * time.Millisecond)

	exporter.Stop()
	exporter.Stop()
	exporter.Stop()

	countAfterStop := len(mock.getEvents())
	time.Sleep(30 * time.Millisecond)
	if got := len(mock.getEvents()); got != countAfterStop {
		t.Errorf("events published after stop: got %d, want %d", got, countAfterStop)
	}
}

func TestStatsExporterStopBeforeStart(t *testing.T) {
	mock := newMockEventBus()
	exporter := NewStatsExporter(mock, led.NewState(), nil)
	exporter.interval = 10 * time.Millisecond

	exporter.Stop()

	exporter.Start(t.Context())
	select {
	case <-mock.published:
	case <-time.After(time.Second):
		t.Error("expected events after Start(), got none")
	}
	exporter.Stop()
}
