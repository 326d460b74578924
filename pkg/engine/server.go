package engine

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/getstubd/stubd/internal/tracker"
	"github.com/getstubd/stubd/pkg/config"
	"github.com/getstubd/stubd/pkg/logging"
	"github.com/getstubd/stubd/pkg/requestlog"
	"github.com/getstubd/stubd/pkg/stub"
)

// shutdownTimeout bounds graceful shutdown of the HTTP server.
const shutdownTimeout = 5 * time.Second

// State is the server lifecycle state.
type State string

// Lifecycle states. A server moves Unconfigured → Configured → Running →
// Stopped; Configure is allowed again from Stopped and starts a fresh
// hit tracker.
const (
	StateUnconfigured State = "unconfigured"
	StateConfigured   State = "configured"
	StateRunning      State = "running"
	StateStopped      State = "stopped"
)

// Server is the mock server engine. One instance owns one hit tracker, one
// default delay, and a fixed set of endpoint declarations for the span
// between Configure and Stop.
type Server struct {
	mu            sync.RWMutex
	state         State
	cfg           *config.Config
	endpoints     []*stub.Endpoint
	tracker       *tracker.HitTracker
	handler       *Handler
	requestLogger RequestLogger
	httpServer    *http.Server
	listener      net.Listener
	log           *slog.Logger
	baseDir       string
	encode        Encoder
	startTime     time.Time
}

// ServerOption is a functional option for configuring a Server.
type ServerOption func(*Server)

// WithLogger sets the operational logger for the server.
func WithLogger(log *slog.Logger) ServerOption {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithBaseDir sets the base directory against which relative file-body
// paths are resolved.
func WithBaseDir(dir string) ServerOption {
	return func(s *Server) {
		s.baseDir = dir
	}
}

// WithJSONEncoder overrides the serialization strategy for json bodies.
func WithJSONEncoder(enc Encoder) ServerOption {
	return func(s *Server) {
		s.encode = enc
	}
}

// NewServer creates a new, unconfigured Server.
func NewServer(opts ...ServerOption) *Server {
	s := &Server{
		state: StateUnconfigured,
		log:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Configure installs the server configuration and endpoint declarations,
// creating a fresh hit tracker. It fails with ErrAlreadyConfigured when the
// server is configured or running (Stop first), and with a validation or
// ErrDuplicateEndpoint error when the declarations are invalid.
func (s *Server) Configure(cfg *config.Config, endpoints []*stub.Endpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateConfigured, StateRunning:
		return ErrAlreadyConfigured
	}

	if cfg == nil {
		cfg = config.Default()
	}

	for i, ep := range endpoints {
		if ep == nil {
			return fmt.Errorf("endpoints[%d]: declaration must not be null", i)
		}
		if err := ep.Validate(); err != nil {
			return fmt.Errorf("endpoints[%d]: %w", i, err)
		}
	}

	trk := tracker.New()
	mat := NewMaterializer(
		time.Duration(cfg.DefaultDelay*float64(time.Second)),
		WithFileReader(NewOSFileReader(s.baseDir)),
		WithEncoder(s.encode),
		WithMaterializerLogger(s.log.With("subcomponent", "materializer")),
	)

	handler, err := NewHandler(endpoints, trk, mat)
	if err != nil {
		return err
	}
	handler.SetOperationalLogger(s.log.With("subcomponent", "handler"))

	if cfg.LogRequests {
		s.requestLogger = NewInMemoryRequestLogger(cfg.MaxLogEntries)
		handler.SetLogger(s.requestLogger)
	} else {
		s.requestLogger = nil
	}

	s.cfg = cfg
	s.endpoints = endpoints
	s.tracker = trk
	s.handler = handler
	s.state = StateConfigured

	s.log.Info("server configured", "endpoints", len(endpoints), "default_delay_s", cfg.DefaultDelay)
	return nil
}

// Start binds the listener and begins serving. It fails with
// ErrNotConfigured before Configure (or after Stop), ErrAlreadyRunning
// when running, and surfaces bind failures (e.g. port already in use)
// synchronously.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateRunning:
		return ErrAlreadyRunning
	case StateUnconfigured, StateStopped:
		return ErrNotConfigured
	}

	listener, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", s.cfg.Addr(), err)
	}

	s.httpServer = &http.Server{
		Handler:      s.handler,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeout) * time.Second,
	}
	s.listener = listener

	httpServer := s.httpServer
	go func() {
		if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("HTTP server error", "error", err)
		}
	}()

	s.state = StateRunning
	s.startTime = time.Now()
	s.log.Info("server started", "addr", listener.Addr().String())
	return nil
}

// Stop gracefully shuts down the server and discards the hit tracker and
// configuration. It fails with ErrNotRunning when the server is not
// running. A subsequent Configure starts a fresh tracker.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRunning {
		return ErrNotRunning
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var shutdownErr error
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			shutdownErr = fmt.Errorf("HTTP shutdown: %w", err)
		}
	}

	s.httpServer = nil
	s.listener = nil
	s.tracker = nil
	s.handler = nil
	s.requestLogger = nil
	s.endpoints = nil
	s.cfg = nil
	s.state = StateStopped

	s.log.Info("server stopped")
	return shutdownErr
}

// State returns the current lifecycle state.
func (s *Server) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// IsRunning returns whether the server is running.
func (s *Server) IsRunning() bool {
	return s.State() == StateRunning
}

// Addr returns the bound listener address, or "" when not running. Useful
// when configured with port 0.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Uptime returns the server uptime in seconds.
func (s *Server) Uptime() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateRunning {
		return 0
	}
	return int(time.Since(s.startTime).Seconds())
}

// Config returns the active configuration, or nil when unconfigured.
func (s *Server) Config() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// HitCount returns the number of requests served for the given identity
// since Configure (0 when unconfigured).
func (s *Server) HitCount(id stub.Identity) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tracker == nil {
		return 0
	}
	return s.tracker.Count(id)
}

// Handler returns the request handler (nil when unconfigured). Intended
// for embedding the engine behind an existing mux or test server.
func (s *Server) Handler() *Handler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.handler
}

// RequestLogs returns request history entries, optionally filtered.
func (s *Server) RequestLogs(filter *requestlog.Filter) []*requestlog.Entry {
	s.mu.RLock()
	logger := s.requestLogger
	s.mu.RUnlock()
	if logger == nil {
		return nil
	}
	return logger.List(filter)
}

// ClearRequestLogs clears all request history entries.
func (s *Server) ClearRequestLogs() {
	s.mu.RLock()
	logger := s.requestLogger
	s.mu.RUnlock()
	if logger != nil {
		logger.Clear()
	}
}
