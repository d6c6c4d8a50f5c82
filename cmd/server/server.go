package main

import (
	"bufio"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"

	"github.com/nickyhof/MyDB"
	"github.com/nickyhof/MyDB/config"
	"github.com/nickyhof/MyDB/core"
	"github.com/nickyhof/MyDB/db"
	"github.com/nickyhof/MyDB/protocol"
)

// Server is a TCP SQL server that exposes a MyDB instance. Every connection
// runs its own engine session.
type Server struct {
	listener   net.Listener
	instance   *MyDB.Instance
	identity   core.Identity
	authConfig *config.AuthConfig
	logger     *slog.Logger
	tlsEnabled bool

	mu    sync.Mutex
	conns map[net.Conn]struct{}
	done  chan struct{}
	wg    sync.WaitGroup
}

type Option func(*Server)

// WithAuth requires clients to AUTH before running statements when
// cfg.Enabled is set.
func WithAuth(cfg *config.AuthConfig) Option {
	return func(s *Server) {
		s.authConfig = cfg
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new SQL server. identity is used for unauthenticated
// connections.
func NewServer(instance *MyDB.Instance, identity core.Identity, opts ...Option) *Server {
	s := &Server{
		instance: instance,
		identity: identity,
		conns:    make(map[net.Conn]struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	return s
}

// NewServerWithAuth creates a server that requires JWT authentication.
func NewServerWithAuth(instance *MyDB.Instance, identity core.Identity, authConfig *config.AuthConfig) *Server {
	return NewServer(instance, identity, WithAuth(authConfig))
}

func (s *Server) authRequired() bool {
	return s.authConfig != nil && s.authConfig.Enabled
}

// Start begins listening for connections on the specified address.
func (s *Server) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	s.serve(listener)
	return nil
}

// StartTLS begins listening for TLS connections on the specified address.
func (s *Server) StartTLS(addr, certFile, keyFile string) error {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return fmt.Errorf("failed to load TLS certificate: %w", err)
	}

	listener, err := tls.Listen("tcp", addr, &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	})
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	s.tlsEnabled = true
	s.serve(listener)
	return nil
}

// TLSEnabled reports whether the server was started with StartTLS.
func (s *Server) TLSEnabled() bool {
	return s.tlsEnabled
}

func (s *Server) serve(listener net.Listener) {
	s.listener = listener
	s.logger.Info("SQL server listening", "addr", listener.Addr().String(), "auth", s.authRequired(), "tls", s.tlsEnabled)

	s.wg.Add(1)
	go s.acceptLoop()
}

// Stop closes the listener and every open connection, then waits for
// connection handlers to return.
func (s *Server) Stop() error {
	close(s.done)

	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}

	s.mu.Lock()
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
	return err
}

// Addr returns the server's listening address.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				s.logger.Error("accept error", "error", err)
				continue
			}
		}

		if !s.track(conn) {
			conn.Close()
			return
		}
		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

// track registers conn unless the server is stopping.
func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-s.done:
		return false
	default:
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
}

func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer s.untrack(conn)
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	logger := s.logger.With("remote", remote)
	logger.Info("client connected")

	state := &ConnectionState{}
	var engine *db.Engine
	if !s.authRequired() {
		engine = s.instance.Engine(s.identity)
	}

	reader := bufio.NewReader(conn)

	for {
		select {
		case <-s.done:
			return
		default:
		}

		// one statement per line
		line, err := reader.ReadString('\n')
		if err != nil {
			if err != io.EOF && !isClosed(s.done) {
				logger.Warn("read error", "error", err)
			}
			return
		}

		query := strings.TrimSpace(line)
		if query == "" {
			continue
		}

		if strings.EqualFold(query, "quit") || strings.EqualFold(query, "exit") {
			logger.Info("client disconnected")
			return
		}

		var response protocol.Response
		switch {
		case isAuthCommand(query):
			response = s.handleAuth(query, state)
			if response.Success {
				// a new identity starts a new session
				engine = s.instance.Engine(*state.Identity())
			}
		case s.authRequired() && !state.IsAuthenticated():
			response = protocol.Error("authentication required")
		default:
			response = protocol.FromResult(engine.Execute(query))
		}

		data, err := protocol.EncodeResponse(response)
		if err != nil {
			logger.Error("failed to encode response", "error", err)
			continue
		}

		if _, err := conn.Write(data); err != nil {
			logger.Warn("write error", "error", err)
			return
		}
	}
}

func isClosed(done <-chan struct{}) bool {
	select {
	case <-done:
		return true
	default:
		return false
	}
}
