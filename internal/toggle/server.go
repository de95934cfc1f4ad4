package toggle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/smazurov/ledtoggle/internal/events"
	"github.com/smazurov/ledtoggle/internal/led"
	"github.com/smazurov/ledtoggle/internal/metrics"
)

const (
	defaultReadTimeout    = 30 * time.Second
	defaultWriteTimeout   = 10 * time.Second
	defaultMaxConnections = 256

	maxAcceptBackoff = time.Second
)

// Config holds the toggle server settings.
type Config struct {
	// Addr is the listen address (default ":8888").
	Addr string
	// ReadTimeout bounds the wait for the request line (default 30s).
	ReadTimeout time.Duration
	// WriteTimeout bounds writing the reply (default 10s).
	WriteTimeout time.Duration
	// MaxConnections is the number of handlers allowed at once (default 256).
	// Connections beyond it are closed immediately.
	MaxConnections int
	// RateLimit is new connections per second per remote IP. 0 disables it.
	RateLimit int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Addr:           ":8888",
		ReadTimeout:    defaultReadTimeout,
		WriteTimeout:   defaultWriteTimeout,
		MaxConnections: defaultMaxConnections,
	}
}

// Server accepts TCP connections and toggles the LED state once per request line.
type Server struct {
	cfg    Config
	state  *led.State
	bus    *events.Bus
	logger *slog.Logger

	sem   *semaphore.Weighted
	rates *rateRegistry

	mu         sync.Mutex
	listener   net.Listener
	closed     bool
	conns      map[net.Conn]struct{}
	wg         sync.WaitGroup
	acceptDone chan struct{}
}

// New creates a toggle server. bus may be nil.
func New(cfg Config, state *led.State, bus *events.Bus, logger *slog.Logger) *Server {
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaultReadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}
	if cfg.MaxConnections <= 0 {
		cfg.MaxConnections = defaultMaxConnections
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		cfg:    cfg,
		state:  state,
		bus:    bus,
		logger: logger,
		sem:    semaphore.NewWeighted(int64(cfg.MaxConnections)),
		rates:  newRateRegistry(cfg.RateLimit),
		conns:  make(map[net.Conn]struct{}),
	}
}

// Start binds addr and runs the accept loop in the background. An empty addr
// uses Config.Addr.
func (s *Server) Start(addr string) error {
	if addr == "" {
		addr = s.cfg.Addr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrServerClosed
	}
	if s.listener != nil {
		return fmt.Errorf("toggle server already listening on %s", s.listener.Addr())
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	s.listener = ln
	s.acceptDone = make(chan struct{})

	s.logger.Info("Server started",
		"ip", LocalIPv4(),
		"port", listenPort(ln.Addr()),
		"max_connections", s.cfg.MaxConnections)

	go s.acceptLoop(ln, s.acceptDone)
	return nil
}

// Addr returns the bound listener address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) acceptLoop(ln net.Listener, done chan struct{}) {
	defer close(done)

	var backoff time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.isClosed() || errors.Is(err, net.ErrClosed) {
				return
			}
			if backoff == 0 {
				backoff = 5 * time.Millisecond
			} else {
				backoff = min(backoff*2, maxAcceptBackoff)
			}
			s.logger.Error("Failed to accept connection", "error", err, "retry_in", backoff)
			time.Sleep(backoff)
			continue
		}
		backoff = 0
		s.dispatch(conn)
	}
}

// dispatch applies admission control and starts the handler goroutine.
func (s *Server) dispatch(conn net.Conn) {
	remote := conn.RemoteAddr().String()

	if !s.rates.Allow(remote) {
		s.reject(conn, remote, metrics.ConnRateLimited, "rate limited")
		return
	}
	if !s.sem.TryAcquire(1) {
		s.reject(conn, remote, metrics.ConnRejected, "too many connections")
		return
	}
	if !s.track(conn) {
		s.sem.Release(1)
		_ = conn.Close()
		return
	}

	metrics.RecordConnection(metrics.ConnAccepted)
	s.logger.Info("Client connected", "remote", remote)

	go func() {
		defer s.wg.Done()
		defer s.sem.Release(1)
		defer s.untrack(conn)
		s.Handle(conn)
	}()
}

func (s *Server) reject(conn net.Conn, remote, result, reason string) {
	_ = conn.Close()
	metrics.RecordConnection(result)
	s.logger.Warn("Client rejected", "remote", remote, "reason", reason)
	s.bus.Publish(events.ConnectionEvent{
		Action:    events.ActionRejected,
		Remote:    remote,
		Reason:    reason,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// track registers a live connection and its handler. It fails once Stop has begun.
func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.conns[conn] = struct{}{}
	s.wg.Add(1)
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
}

// ActiveConnections returns the number of connections being handled.
func (s *Server) ActiveConnections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Stop closes the listener and waits for in-flight handlers. When ctx expires
// first, remaining connections are closed and ctx.Err() is returned.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	ln := s.listener
	acceptDone := s.acceptDone
	s.mu.Unlock()

	var err error
	if ln != nil {
		if cerr := ln.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) {
			err = cerr
		}
		<-acceptDone
	}

	drained := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
	case <-ctx.Done():
		n := s.closeConns()
		s.logger.Warn("Drain timeout, closing remaining connections", "count", n)
		<-drained
		err = errors.Join(err, ctx.Err())
	}

	s.logger.Info("Server stopped")
	return err
}

func (s *Server) closeConns() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		_ = conn.Close()
	}
	return len(s.conns)
}
