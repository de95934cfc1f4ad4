package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/smazurov/ledtoggle/cmd"
	"github.com/smazurov/ledtoggle/internal/api"
	"github.com/smazurov/ledtoggle/internal/config"
	"github.com/smazurov/ledtoggle/internal/events"
	"github.com/smazurov/ledtoggle/internal/led"
	"github.com/smazurov/ledtoggle/internal/logging"
	"github.com/smazurov/ledtoggle/internal/metrics/exporters"
	"github.com/smazurov/ledtoggle/internal/nats"
	"github.com/smazurov/ledtoggle/internal/systemd"
	"github.com/smazurov/ledtoggle/internal/toggle"
	"github.com/smazurov/ledtoggle/internal/version"
)

const shutdownTimeout = 10 * time.Second

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"config.toml"`

	// Toggle server settings
	Port           string `help:"TCP address of the toggle server" short:"p" default:":8888" toml:"server.port" env:"SERVER_PORT"`
	ReadTimeout    string `help:"Wait for the request line" default:"30s" toml:"server.read_timeout" env:"SERVER_READ_TIMEOUT"`
	WriteTimeout   string `help:"Deadline for writing the reply" default:"10s" toml:"server.write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	MaxConnections int    `help:"Concurrent connections served" default:"256" toml:"server.max_connections" env:"SERVER_MAX_CONNECTIONS"`
	RateLimit      int    `help:"New connections per second per IP (0 disables)" default:"0" toml:"server.rate_limit" env:"SERVER_RATE_LIMIT"`

	// API settings
	APIPort    string `help:"HTTP API address (empty disables the API)" default:":8090" toml:"api.port" env:"API_PORT"`
	CORSOrigin string `help:"Access-Control-Allow-Origin for the API" default:"*" toml:"api.cors_origin" env:"API_CORS_ORIGIN"`

	// Auth settings
	AuthUsername string `help:"Basic auth username (empty disables auth)" default:"" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Features settings
	FeaturesLEDControl bool   `help:"Mirror the state onto a physical LED" default:"false" toml:"features.led_control_enabled" env:"FEATURES_LED_CONTROL"`
	LEDName            string `help:"Logical LED name" default:"status" toml:"led.name" env:"LED_NAME"`
	LEDSysfsName       string `help:"Sysfs LED directory (autodetected when empty)" default:"" toml:"led.sysfs_name" env:"LED_SYSFS_NAME"`

	// NATS settings
	NATSEmbedded bool   `help:"Run an embedded NATS server" default:"false" toml:"nats.embedded" env:"NATS_EMBEDDED"`
	NATSPort     int    `help:"Embedded NATS server port" default:"4222" toml:"nats.port" env:"NATS_PORT"`
	NATSURL      string `help:"NATS server URL for state publishing" default:"" toml:"nats.url" env:"NATS_URL"`

	// Logging settings
	LoggingLevel  string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingToggle string `help:"Toggle server logging level" default:"info" toml:"logging.toggle" env:"LOGGING_TOGGLE"`
	LoggingAPI    string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
	LoggingLED    string `help:"LED logging level" default:"info" toml:"logging.led" env:"LOGGING_LED"`
	LoggingNATS   string `help:"NATS logging level" default:"info" toml:"logging.nats" env:"LOGGING_NATS"`
}

func main() {
	var cli humacli.CLI

	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		// Load configuration automatically
		if loadErr := config.LoadConfig(opts, cli.Root()); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		logging.Initialize(logging.Config{
			Level:  opts.LoggingLevel,
			Format: opts.LoggingFormat,
			Modules: map[string]string{
				"toggle": opts.LoggingToggle,
				"api":    opts.LoggingAPI,
				"http":   opts.LoggingAPI,
				"led":    opts.LoggingLED,
				"nats":   opts.LoggingNATS,
			},
		})

		logger := logging.GetLogger("main")

		eventBus := events.New()
		state := led.NewState()

		var ledManager *led.Manager
		var ledController led.Controller
		if opts.FeaturesLEDControl {
			ledLogger := logging.GetLogger("led")
			ledController = led.New(led.Config{Name: opts.LEDName, SysfsName: opts.LEDSysfsName}, ledLogger)
			ledManager = led.NewManager(ledController, opts.LEDName, eventBus, ledLogger)
		}

		serverConfig := toggle.DefaultConfig()
		serverConfig.Addr = opts.Port
		serverConfig.ReadTimeout = parseDuration(opts.ReadTimeout, serverConfig.ReadTimeout, logger)
		serverConfig.WriteTimeout = parseDuration(opts.WriteTimeout, serverConfig.WriteTimeout, logger)
		serverConfig.MaxConnections = opts.MaxConnections
		serverConfig.RateLimit = opts.RateLimit
		toggleServer := toggle.New(serverConfig, state, eventBus, logging.GetLogger("toggle"))
		statsExporter := exporters.NewStatsExporter(eventBus, state, toggleServer)

		var apiServer *api.Server
		if opts.APIPort != "" {
			if opts.AuthUsername != "" && opts.AuthPassword == "" {
				logger.Warn("API auth username set without a password; clients must send an empty password")
			}
			apiServer = api.NewServer(&api.Options{
				AuthUsername:      opts.AuthUsername,
				AuthPassword:      opts.AuthPassword,
				CORSOrigin:        opts.CORSOrigin,
				State:             state,
				EventBus:          eventBus,
				LEDController:     ledController,
				LEDName:           opts.LEDName,
				PrometheusHandler: exporters.HTTPHandler(),
			})
		}

		natsLogger := logging.GetLogger("nats")
		var natsServer *nats.Server
		var publisher *nats.StatePublisher
		var bridge *nats.ControlBridge

		notifier := systemd.NewNotifier(logger)
		runCtx, stopRun := context.WithCancel(context.Background())

		var watcher *config.Watcher[logging.Config]
		if opts.Config != "" {
			watcher = config.NewConfigWatcher(opts.Config, config.LoadLoggingConfig, logger)
			watcher.OnReload(func(cfg logging.Config) {
				logger.Info("Reloading log levels", "level", cfg.Level)
				logging.SetLevels(cfg)
			})
		}

		hooks.OnStart(func() {
			if ledManager != nil {
				ledManager.Start()
			}

			if startErr := toggleServer.Start(""); startErr != nil {
				logger.Error("Failed to start toggle server", "error", startErr)
				os.Exit(1)
			}

			statsExporter.Start(runCtx)

			natsURL := opts.NATSURL
			if opts.NATSEmbedded {
				natsServer = nats.NewServer(nats.ServerOptions{Port: opts.NATSPort, Logger: natsLogger})
				if startErr := natsServer.Start(); startErr != nil {
					logger.Warn("Failed to start embedded NATS server", "error", startErr)
					natsServer = nil
				} else if natsURL == "" {
					natsURL = natsServer.ClientURL()
				}
			}
			if natsURL != "" {
				publisher = nats.NewStatePublisher(natsURL, eventBus, natsLogger)
				if startErr := publisher.Start(); startErr != nil {
					logger.Warn("State publisher unavailable", "url", natsURL, "error", startErr)
				}
				bridge = nats.NewControlBridge(natsURL, state, eventBus, natsLogger)
				if startErr := bridge.Start(); startErr != nil {
					logger.Warn("Control bridge unavailable", "url", natsURL, "error", startErr)
				}
			}

			if watcher != nil {
				if startErr := watcher.Start(); startErr != nil {
					logger.Warn("Config watcher not started", "path", opts.Config, "error", startErr)
				}
			}

			notifier.Status("Toggle server listening on " + toggleServer.Addr().String())
			notifier.Ready()
			go notifier.RunWatchdog(runCtx)

			if apiServer == nil {
				<-runCtx.Done()
				return
			}
			if startErr := apiServer.Start(opts.APIPort); startErr != nil {
				logger.Error("Failed to start HTTP server", "error", startErr)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down server")
			notifier.Stopping()
			stopRun()

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if apiServer != nil {
				if stopErr := apiServer.Stop(ctx); stopErr != nil {
					logger.Error("Error stopping HTTP server", "error", stopErr)
				}
			}

			if stopErr := toggleServer.Stop(ctx); stopErr != nil {
				logger.Warn("Toggle server did not drain cleanly", "error", stopErr)
			}

			statsExporter.Stop()
			if watcher != nil {
				if stopErr := watcher.Stop(); stopErr != nil {
					logger.Warn("Error stopping config watcher", "error", stopErr)
				}
			}
			if bridge != nil {
				bridge.Stop()
			}
			if publisher != nil {
				publisher.Stop()
			}
			if natsServer != nil {
				natsServer.Stop()
			}
			if ledManager != nil {
				ledManager.Stop()
			}
			if closeErr := eventBus.Close(); closeErr != nil {
				logger.Warn("Error closing event bus", "error", closeErr)
			}
		})
	})

	cli.Root().Use = "ledtoggle"
	cli.Root().Short = "TCP LED toggle server"
	cli.Root().Version = version.String()

	cli.Root().AddCommand(cmd.CreateToggleCmd())

	cli.Run()
}

// parseDuration parses a duration option, keeping fallback on bad input.
func parseDuration(value string, fallback time.Duration, logger *slog.Logger) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		logger.Warn("Invalid duration, using default", "value", value, "default", fallback)
		return fallback
	}
	return d
}
