package exporters

import (
	"context"
	"sync"
	"time"

	"github.com/smazurov/ledtoggle/internal/events"
	"github.com/smazurov/ledtoggle/internal/led"
)

const defaultStatsInterval = 5 * time.Second

// EventPublisher interface for publishing events.
type EventPublisher interface {
	Publish(ev events.Event)
}

// ConnectionCounter reports how many connections are being served.
type ConnectionCounter interface {
	ActiveConnections() int
}

// StatsExporter periodically publishes a ServerStatsEvent for SSE clients.
type StatsExporter struct {
	eventBus EventPublisher
	state    *led.State
	conns    ConnectionCounter
	interval time.Duration
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewStatsExporter creates a stats exporter. conns may be nil.
func NewStatsExporter(eventBus EventPublisher, state *led.State, conns ConnectionCounter) *StatsExporter {
	return &StatsExporter{
		eventBus: eventBus,
		state:    state,
		conns:    conns,
		interval: defaultStatsInterval,
	}
}

// Start begins the export loop.
func (s *StatsExporter) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.run(ctx)
}

// Stop stops the exporter and waits for the goroutine to finish.
func (s *StatsExporter) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *StatsExporter) run(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.publishStats()
		}
	}
}

func (s *StatsExporter) publishStats() {
	snap := s.state.Snapshot()
	ev := events.ServerStatsEvent{
		On:        snap.On,
		Toggles:   snap.Toggles,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if s.conns != nil {
		ev.ActiveConnections = s.conns.ActiveConnections()
	}
	s.eventBus.Publish(ev)
}
