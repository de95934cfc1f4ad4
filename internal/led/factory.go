package led

import (
	"os"
	"strings"

	"github.com/smazurov/ledtoggle/internal/logging"
)

const deviceTreeModelPath = "/proc/device-tree/model"

// DefaultName is the logical LED driven when none is configured.
const DefaultName = "status"

// Config selects the physical LED.
type Config struct {
	// Name is the logical LED name passed to Controller.Set.
	Name string
	// SysfsName overrides board detection with a /sys/class/leds entry.
	SysfsName string
}

// New creates an LED controller. An explicit sysfs name wins; otherwise the
// board is detected from the device tree, falling back to a no-op controller.
func New(cfg Config, logger logging.Logger) Controller {
	name := cfg.Name
	if name == "" {
		name = DefaultName
	}

	if cfg.SysfsName != "" {
		if logger != nil {
			logger.Info("Using configured sysfs LED", "led", name, "sysfs_name", cfg.SysfsName)
		}
		return newSysfs(map[string]string{name: cfg.SysfsName})
	}

	boardModel := detectBoard(deviceTreeModelPath)
	if logger != nil {
		logger.Info("Detecting board for LED control", "board_model", boardModel)
	}

	sysfsName := boardLED(boardModel)
	if sysfsName == "" {
		if logger != nil {
			logger.Info("No LED support detected, using no-op controller", "board_model", boardModel)
		}
		return newNoop(logger)
	}

	if logger != nil {
		logger.Info("Using board LED", "led", name, "sysfs_name", sysfsName)
	}
	return newSysfs(map[string]string{name: sysfsName})
}

// boardLED returns the user-controllable LED for known boards.
func boardLED(model string) string {
	switch {
	case strings.Contains(model, "NanoPC-T6"):
		return "usr_led"
	case strings.Contains(model, "Orange Pi"):
		return "green_led"
	case strings.Contains(model, "Raspberry Pi"):
		return "ACT"
	default:
		return ""
	}
}

// detectBoard reads the device tree model to identify the board.
func detectBoard(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return "unknown"
	}
	// Device tree strings are NUL terminated
	return strings.TrimRight(string(data), "\x00")
}
