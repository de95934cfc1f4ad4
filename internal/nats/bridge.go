package nats

import (
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/smazurov/ledtoggle/internal/events"
	"github.com/smazurov/ledtoggle/internal/led"
	"github.com/smazurov/ledtoggle/internal/toggle"
)

// ControlBridge toggles the LED when a ControlMessage arrives on
// SubjectControl. Requests with a reply subject get the new StateMessage.
type ControlBridge struct {
	url      string
	state    *led.State
	eventBus *events.Bus
	logger   *slog.Logger
	mu       sync.Mutex
	conn     *nats.Conn
	sub      *nats.Subscription
}

// NewControlBridge creates a bridge for url; call Start to subscribe.
func NewControlBridge(url string, state *led.State, eventBus *events.Bus, logger *slog.Logger) *ControlBridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &ControlBridge{
		url:      url,
		state:    state,
		eventBus: eventBus,
		logger:   logger.With("component", "nats-bridge"),
	}
}

// Start connects and subscribes to the control subject.
func (b *ControlBridge) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	conn, err := connect(b.url, "ledtoggle-control", b.logger)
	if err != nil {
		b.logger.Warn("Failed to connect to NATS, remote control disabled", "url", b.url, "error", err)
		return err
	}

	sub, err := conn.Subscribe(SubjectControl, b.handleControl)
	if err != nil {
		conn.Close()
		return err
	}
	// Make sure the subscription is registered before callers publish.
	if err := conn.Flush(); err != nil {
		_ = sub.Unsubscribe()
		conn.Close()
		return err
	}

	b.conn = conn
	b.sub = sub
	b.logger.Info("NATS control bridge subscribed", "subject", SubjectControl)
	return nil
}

func (b *ControlBridge) handleControl(msg *nats.Msg) {
	m, err := UnmarshalControl(msg.Data)
	if err != nil {
		b.logger.Warn("Failed to unmarshal control message", "error", err, "subject", msg.Subject)
		return
	}
	if m.Action != ActionToggle {
		b.logger.Warn("Unknown control action", "action", m.Action)
		return
	}

	on, seq := toggle.Flip(b.state, b.eventBus, events.SourceNATS, "")
	b.logger.Info("LED toggled over NATS", "on", on, "seq", seq, "reason", m.Reason)

	if msg.Reply == "" {
		return
	}
	reply := StateMessage{
		On:        on,
		State:     stateName(on),
		Seq:       seq,
		Source:    events.SourceNATS,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	data, err := reply.Marshal()
	if err != nil {
		b.logger.Warn("Failed to marshal reply", "error", err)
		return
	}
	if err := msg.Respond(data); err != nil {
		b.logger.Warn("Failed to respond to control request", "error", err)
	}
}

// Stop unsubscribes and closes the connection.
func (b *ControlBridge) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sub != nil {
		_ = b.sub.Unsubscribe()
		b.sub = nil
	}
	if b.conn != nil {
		b.conn.Close()
		b.conn = nil
	}
	b.logger.Info("NATS control bridge stopped")
}

// IsConnected reports whether the bridge has a live connection.
func (b *ControlBridge) IsConnected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conn != nil && b.conn.IsConnected()
}
