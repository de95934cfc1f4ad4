package toggle

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"runtime/debug"
	"time"

	"github.com/smazurov/ledtoggle/internal/events"
	"github.com/smazurov/ledtoggle/internal/metrics"
)

// Handle serves one connection: read a line, toggle, reply, close. Errors are
// logged and never propagated; the connection is always closed on return.
func (s *Server) Handle(conn net.Conn) {
	started := time.Now()
	remote := conn.RemoteAddr().String()

	metrics.ConnectionOpened()
	s.publishConnection(events.ActionConnected, remote)

	defer func() {
		if r := recover(); r != nil {
			metrics.RecordHandlerError(metrics.ErrorPanic)
			s.logger.Error("Handler panic", "remote", remote, "panic", r, "stack", string(debug.Stack()))
		}
		_ = conn.Close()
		metrics.ConnectionClosed(started)
		s.publishConnection(events.ActionDisconnected, remote)
		s.logger.Info("Client disconnected", "remote", remote)
	}()

	if err := s.serveConn(conn, remote); err != nil {
		s.logHandlerError(remote, err)
	}
}

func (s *Server) serveConn(conn net.Conn, remote string) error {
	if err := conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout)); err != nil {
		return fmt.Errorf("set read deadline: %w", err)
	}

	line, err := ReadLine(bufio.NewReader(conn), MaxLineLength)
	if errors.Is(err, io.EOF) {
		s.logger.Debug("Client closed without sending data", "remote", remote)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	s.logger.Info("Received", "remote", remote, "message", line)

	on, seq := Flip(s.state, s.bus, events.SourceTCP, remote)

	response := FormatState(on)
	if err := conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout)); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}
	if _, err := io.WriteString(conn, response+"\n"); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	s.logger.Info("Sent", "remote", remote, "message", response, "seq", seq)
	return nil
}

func (s *Server) logHandlerError(remote string, err error) {
	var netErr net.Error
	switch {
	case errors.As(err, &netErr) && netErr.Timeout():
		metrics.RecordHandlerError(metrics.ErrorTimeout)
		s.logger.Debug("Connection timed out", "remote", remote, "error", err)
	case errors.Is(err, ErrLineTooLong):
		metrics.RecordHandlerError(metrics.ErrorTooLong)
		s.logger.Warn("Request line too long", "remote", remote, "limit", MaxLineLength)
	default:
		metrics.RecordHandlerError(metrics.ErrorIO)
		s.logger.Warn("Connection error", "remote", remote, "error", err)
	}
}

func (s *Server) publishConnection(action, remote string) {
	s.bus.Publish(events.ConnectionEvent{
		Action:    action,
		Remote:    remote,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}
