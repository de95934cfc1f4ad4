package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/smazurov/ledtoggle/internal/led"
	"github.com/smazurov/ledtoggle/internal/logging"
	"github.com/smazurov/ledtoggle/internal/toggle"
	"github.com/spf13/cobra"
)

// ToggleOptions holds the flags of the toggle command.
type ToggleOptions struct {
	Addr       string
	Message    string
	Timeout    time.Duration
	Interval   time.Duration
	Retry      time.Duration
	LEDControl bool
	LEDName    string
	LEDSysfs   string
	LogJSON    bool
}

// CreateToggleCmd creates the toggle client command.
func CreateToggleCmd() *cobra.Command {
	opts := ToggleOptions{}

	cmd := &cobra.Command{
		Use:   "toggle",
		Short: "Toggle the LED on a running server",
		Long: `Connects to a toggle server, sends one line and prints the LED state it reports. ` +
			`With --interval the command repeats until interrupted, waiting --retry after a failed attempt. ` +
			`With --led-control the reported state is mirrored onto a local LED.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runToggle(ctx, opts, c.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "127.0.0.1:8888", "Server address (host:port)")
	cmd.Flags().StringVar(&opts.Message, "message", toggle.DefaultMessage, "Line sent to the server")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", toggle.DefaultClientTimeout, "Per-attempt timeout")
	cmd.Flags().DurationVar(&opts.Interval, "interval", 0, "Repeat every interval (0 toggles once)")
	cmd.Flags().DurationVar(&opts.Retry, "retry", toggle.DefaultRetryDelay, "Delay after a failed attempt in loop mode")
	cmd.Flags().BoolVar(&opts.LEDControl, "led-control", false, "Mirror the reported state onto a local LED")
	cmd.Flags().StringVar(&opts.LEDName, "led-name", led.DefaultName, "Logical LED name")
	cmd.Flags().StringVar(&opts.LEDSysfs, "led-sysfs", "", "Sysfs LED directory name (autodetected when empty)")
	cmd.Flags().BoolVar(&opts.LogJSON, "log-json", false, "Log in JSON format")

	return cmd
}

func runToggle(ctx context.Context, opts ToggleOptions, out io.Writer) error {
	loggingConfig := logging.Config{Level: "info", Format: "text"}
	if opts.LogJSON {
		loggingConfig.Format = "json"
	}
	logging.Initialize(loggingConfig)
	logger := logging.GetLogger("client").With("addr", opts.Addr)

	var controller led.Controller
	if opts.LEDControl {
		controller = led.New(led.Config{Name: opts.LEDName, SysfsName: opts.LEDSysfs}, logger)
	}

	client := toggle.NewClient(opts.Addr)
	client.Message = opts.Message
	client.Timeout = opts.Timeout

	report := func(on bool) {
		fmt.Fprintln(out, toggle.FormatState(on))
		if controller == nil {
			return
		}
		if err := controller.Set(opts.LEDName, on); err != nil {
			logger.Warn("Failed to set LED", "led", opts.LEDName, "error", err)
		}
	}

	if opts.Interval <= 0 {
		on, err := client.Toggle(ctx)
		if err != nil {
			return fmt.Errorf("toggle %s: %w", opts.Addr, err)
		}
		report(on)
		return nil
	}

	logger.Info("Toggling in a loop", "interval", opts.Interval, "retry", opts.Retry)
	err := client.Loop(ctx, opts.Interval, opts.Retry, func(on bool, err error) {
		if err != nil {
			logger.Warn("Toggle failed", "error", err)
			return
		}
		report(on)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
