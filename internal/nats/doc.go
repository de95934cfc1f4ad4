// Package nats mirrors the LED toggle state onto NATS and accepts toggle
// commands from it.
//
// # Components
//
//   - Server: optional embedded NATS server (nats.embedded = true)
//   - StatePublisher: forwards bus events to NATS subjects
//   - ControlBridge: subscribes to the control subject and toggles the state
//
// # Subjects
//
//	ledtoggle.led.state          # StateMessage after every toggle
//	ledtoggle.led.connections    # ConnectionMessage for TCP clients
//	ledtoggle.control.toggle     # ControlMessage, request/reply supported
//
// Core NATS only, no JetStream. Both components degrade to offline mode when
// the server is unreachable and reconnect in the background.
//
// # Debugging with nats CLI
//
//	nats sub "ledtoggle.>" -s nats://localhost:4222
//	nats request ledtoggle.control.toggle '{"action":"toggle","reason":"cli"}'
//
// # Message Formats
//
// StateMessage (ledtoggle.led.state):
//
//	{
//	  "on": true,
//	  "state": "ON",
//	  "seq": 3,
//	  "source": "tcp",
//	  "remote": "192.168.1.40:51514",
//	  "timestamp": "2025-01-01T12:00:00Z"
//	}
//
// ControlMessage (ledtoggle.control.toggle):
//
//	{
//	  "action": "toggle",
//	  "timestamp": "2025-01-01T12:00:00Z",
//	  "reason": "cli"
//	}
package nats
