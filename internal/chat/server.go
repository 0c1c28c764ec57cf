package chat

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
)

// Server owns the listening socket, the registry, and the status reporter.
type Server struct {
	addr     string
	logger   *slog.Logger
	registry *Registry
	activity *ActivityLog
	reporter *StatusReporter
	listener net.Listener
	started  bool
	stopOnce sync.Once
}

// NewServer wires a server admitting at most maxClients concurrent users.
// The activity log may be nil to disable the durable event log.
func NewServer(addr string, maxClients int, activity *ActivityLog, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	registry := NewRegistry(maxClients, activity, logger)
	return &Server{
		addr:     addr,
		logger:   logger,
		registry: registry,
		activity: activity,
		reporter: NewStatusReporter(registry, defaultStatusInterval, logger),
	}
}

// Registry exposes the client registry, mainly for alternate transports.
func (s *Server) Registry() *Registry { return s.registry }

// Addr returns the bound listen address once Start has succeeded.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Start binds the listener and launches the accept loop and the status
// reporter. It does not block.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	s.listener = ln

	_, port, err := net.SplitHostPort(ln.Addr().String())
	if err != nil {
		port = ln.Addr().String()
	}
	s.activity.Append("SERVIDOR INICIADO en puerto " + port)
	s.started = true
	go s.reporter.Run()
	go s.acceptLoop(ln)

	s.logger.Info("server started", "addr", ln.Addr().String())
	return nil
}

// Stop closes the listener and halts the status reporter. Live connections
// are not drained; they end when their peers disconnect or the process exits.
// Safe to call more than once and before Start.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("shutting down")

		if s.listener != nil {
			s.listener.Close()
		}

		if s.started {
			s.reporter.Stop()
			s.reporter.Wait()
		}

		s.logger.Info("shutdown complete")
	})
}

func (s *Server) acceptLoop(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			// Transient accept failures never stop the loop.
			s.logger.Error("accept failed", "error", err)
			continue
		}

		s.logger.Info("client connected", "addr", conn.RemoteAddr().String())
		go s.ServeTransport(NewLineTransport(conn))
	}
}

// ServeTransport admits one framed connection: reject immediately when at
// capacity, otherwise run the session to completion. Alternate transports
// (the websocket endpoint) enter here too.
func (s *Server) ServeTransport(t Transport) {
	remote := "desconocido"
	if addr := t.RemoteAddr(); addr != nil {
		remote = addr.String()
	}

	if err := s.registry.Admit(remote); err != nil {
		s.logger.Info("connection rejected", "addr", remote, "reason", err)
		_ = t.WriteMessage(NewSystem(NoticeServerFull))
		t.Close()
		return
	}

	HandleSession(newClient(t), s.registry, s.logger)
}
