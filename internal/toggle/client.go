package toggle

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"
)

const (
	// DefaultClientTimeout is how long the client waits for connect plus reply.
	DefaultClientTimeout = 3 * time.Second
	// DefaultRetryDelay is the pause after a failed attempt in Loop.
	DefaultRetryDelay = 2 * time.Second
)

// Client sends toggle requests to a server.
type Client struct {
	Addr    string
	Message string
	Timeout time.Duration
}

// NewClient returns a client for addr with the default message and timeout.
func NewClient(addr string) *Client {
	return &Client{
		Addr:    addr,
		Message: DefaultMessage,
		Timeout: DefaultClientTimeout,
	}
}

// Toggle performs one request and returns the state reported by the server.
func (c *Client) Toggle(ctx context.Context) (bool, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultClientTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", c.Addr)
	if err != nil {
		return false, fmt.Errorf("connect to %s: %w", c.Addr, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return false, fmt.Errorf("set deadline: %w", err)
		}
	}
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	if _, err := io.WriteString(conn, c.Message+"\n"); err != nil {
		return false, fmt.Errorf("send: %w", err)
	}

	line, err := ReadLine(bufio.NewReader(conn), MaxLineLength)
	if errors.Is(err, io.EOF) {
		return false, ErrNoResponse
	}
	if err != nil {
		return false, fmt.Errorf("read response: %w", err)
	}
	return ParseState(line)
}

// Loop calls Toggle every interval until ctx is done, reporting each result
// to fn. After a failure it waits retry instead of interval.
func (c *Client) Loop(ctx context.Context, interval, retry time.Duration, fn func(on bool, err error)) error {
	if retry <= 0 {
		retry = DefaultRetryDelay
	}
	for {
		on, err := c.Toggle(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fn(on, err)

		wait := interval
		if err != nil {
			wait = retry
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
