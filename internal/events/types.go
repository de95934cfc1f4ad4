package events

// Event type constants for kelindar/event.
const (
	TypeLEDToggled uint32 = iota + 1
	TypeConnection
	TypeServerStats
)

// Connection actions carried by ConnectionEvent.
const (
	ActionConnected    = "connected"
	ActionDisconnected = "disconnected"
	ActionRejected     = "rejected"
)

// Toggle sources carried by LEDToggledEvent.
const (
	SourceTCP  = "tcp"
	SourceHTTP = "http"
	SourceNATS = "nats"
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// LEDToggledEvent is published after every state flip.
type LEDToggledEvent struct {
	On        bool   `json:"on"`
	Seq       uint64 `json:"seq"`
	Source    string `json:"source"`
	Remote    string `json:"remote,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Type returns the event type identifier for LEDToggledEvent.
func (e LEDToggledEvent) Type() uint32 { return TypeLEDToggled }

// ConnectionEvent reports TCP client lifecycle on the toggle port.
type ConnectionEvent struct {
	Action    string `json:"action"`
	Remote    string `json:"remote"`
	Reason    string `json:"reason,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Type returns the event type identifier for ConnectionEvent.
func (e ConnectionEvent) Type() uint32 { return TypeConnection }

// ServerStatsEvent is a periodic snapshot of the toggle server.
type ServerStatsEvent struct {
	On                bool   `json:"on"`
	Toggles           uint64 `json:"toggles"`
	ActiveConnections int    `json:"active_connections"`
	Timestamp         string `json:"timestamp"`
}

// Type returns the event type identifier for ServerStatsEvent.
func (e ServerStatsEvent) Type() uint32 { return TypeServerStats }
