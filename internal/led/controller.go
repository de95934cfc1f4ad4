package led

// Controller drives a physical LED that mirrors the toggle state.
// Implementations map a logical LED name to board-specific hardware.
type Controller interface {
	// Set turns the named LED on or off.
	Set(name string, on bool) error

	// Available returns the logical LED names this controller can drive.
	Available() []string
}
