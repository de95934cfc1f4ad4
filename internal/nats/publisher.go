package nats

import (
	"log/slog"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/smazurov/ledtoggle/internal/events"
)

// StatePublisher forwards toggle and connection events from the bus to NATS.
// Publishing is a no-op while disconnected.
type StatePublisher struct {
	url          string
	eventBus     *events.Bus
	logger       *slog.Logger
	mu           sync.RWMutex
	conn         *nats.Conn
	unsubscribes []func()
}

// NewStatePublisher creates a publisher for url; call Start to connect.
func NewStatePublisher(url string, eventBus *events.Bus, logger *slog.Logger) *StatePublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatePublisher{
		url:      url,
		eventBus: eventBus,
		logger:   logger.With("component", "nats-publisher"),
	}
}

// Start connects and subscribes to the bus. A connection error is returned
// so the caller can log it and carry on without NATS.
func (p *StatePublisher) Start() error {
	conn, err := connect(p.url, "ledtoggle-publisher", p.logger)
	if err != nil {
		p.logger.Warn("Failed to connect to NATS, running in offline mode", "url", p.url, "error", err)
		return err
	}

	p.mu.Lock()
	p.conn = conn
	p.unsubscribes = []func(){
		p.eventBus.Subscribe(p.publishState),
		p.eventBus.Subscribe(p.publishConnection),
	}
	p.mu.Unlock()

	p.logger.Info("Publishing LED state to NATS", "url", p.url, "subject", SubjectState)
	return nil
}

func (p *StatePublisher) publishState(e events.LEDToggledEvent) {
	p.publish(SubjectState, StateMessage{
		On:        e.On,
		State:     stateName(e.On),
		Seq:       e.Seq,
		Source:    e.Source,
		Remote:    e.Remote,
		Timestamp: e.Timestamp,
	})
}

func (p *StatePublisher) publishConnection(e events.ConnectionEvent) {
	p.publish(SubjectConnections, ConnectionMessage{
		Action:    e.Action,
		Remote:    e.Remote,
		Reason:    e.Reason,
		Timestamp: e.Timestamp,
	})
}

type marshaler interface {
	Marshal() ([]byte, error)
}

func (p *StatePublisher) publish(subject string, m marshaler) {
	p.mu.RLock()
	conn := p.conn
	p.mu.RUnlock()

	if conn == nil || !conn.IsConnected() {
		return
	}

	data, err := m.Marshal()
	if err != nil {
		p.logger.Warn("Failed to marshal message", "subject", subject, "error", err)
		return
	}
	if err := conn.Publish(subject, data); err != nil {
		p.logger.Warn("Failed to publish", "subject", subject, "error", err)
	}
}

// IsConnected reports whether the publisher has a live connection.
func (p *StatePublisher) IsConnected() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.conn != nil && p.conn.IsConnected()
}

// Stop unsubscribes from the bus and drains the connection.
func (p *StatePublisher) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, unsub := range p.unsubscribes {
		unsub()
	}
	p.unsubscribes = nil

	if p.conn != nil {
		if err := p.conn.Drain(); err != nil {
			p.conn.Close()
		}
		p.conn = nil
	}
	p.logger.Debug("NATS publisher stopped")
}
