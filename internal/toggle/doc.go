// Package toggle implements the LED toggle server and its client.
//
// The wire protocol is one newline-terminated line in each direction. A
// client connects and sends any line; the server flips the shared LED state,
// replies with "LED state: ON" or "LED state: OFF" and closes the connection.
// A client that closes without sending a byte leaves the state untouched.
package toggle
