package toggle

import (
	"time"

	"github.com/smazurov/ledtoggle/internal/events"
	"github.com/smazurov/ledtoggle/internal/led"
	"github.com/smazurov/ledtoggle/internal/metrics"
)

// Flip toggles state on behalf of source, records the metric and publishes
// an LEDToggledEvent. Every entry point (TCP, HTTP, NATS) goes through it.
func Flip(state *led.State, bus *events.Bus, source, remote string) (on bool, seq uint64) {
	on, seq = state.Toggle()
	metrics.RecordToggle(source, on)
	bus.Publish(events.LEDToggledEvent{
		On:        on,
		Seq:       seq,
		Source:    source,
		Remote:    remote,
		Timestamp: time.Now().Format(time.RFC3339),
	})
	return on, seq
}
