package led

import "github.com/smazurov/ledtoggle/internal/logging"

// noop implements Controller for systems without a controllable LED
type noop struct {
	logger logging.Logger
}

func newNoop(logger logging.Logger) *noop {
	return &noop{logger: logger}
}

// Set logs the request but performs no actual LED control
func (n *noop) Set(name string, on bool) error {
	if n.logger != nil {
		n.logger.Debug("LED control not available (no-op)", "led", name, "on", on)
	}
	return nil
}

// Available returns an empty list since no LEDs are available
func (n *noop) Available() []string {
	return []string{}
}
