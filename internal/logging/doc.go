// Package logging provides structured logging with per-module log level configuration.
//
// # Overview
//
// Loggers are plain *slog.Logger values. Each record is routed to:
//   - stdout, when a terminal, pipe, or file is attached
//   - the systemd journal, when journald is reachable
//   - an in-memory ring buffer, read by the HTTP API at /api/logs
//
// # Usage
//
// Initialize once at startup:
//
//	logging.Initialize(logging.Config{
//		Level:  "info",
//		Format: "text",
//		Modules: map[string]string{
//			"toggle": "debug",
//		},
//	})
//
// Then take a module logger:
//
//	logger := logging.GetLogger("toggle")
//	logger.Info("Client connected", "remote", conn.RemoteAddr())
//
// Levels can be changed at runtime with [SetLevels]; loggers already handed
// out follow the change because every module owns a slog.LevelVar.
//
// # Viewing Logs
//
//	journalctl -t ledtoggle -f
//	journalctl -t ledtoggle MODULE=toggle
//
// # Configuration
//
//	[logging]
//	level = "info"
//	format = "text"
//
//	[logging.modules]
//	toggle = "debug"
//	api = "warn"
package logging
