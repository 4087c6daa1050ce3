package runtime

import (
	"bufio"
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"sync"

	"chat-relay/observability"
)

// Server owns the TCP accept loop. It implements contract.Worker so the
// supervisor can restart it, and runs one goroutine per accepted
// connection: a read loop feeding the dispatcher, plus the session's
// dedicated write loop.
type Server struct {
	addr           string
	outboundBuffer int
	registry       *Registry
	dispatcher     *Dispatcher
	monitoring     *observability.Monitoring
	log            *slog.Logger

	mu sync.Mutex
	ln net.Listener
}

func NewServer(
	addr string,
	outboundBuffer int,
	registry *Registry,
	dispatcher *Dispatcher,
	monitoring *observability.Monitoring,
	log *slog.Logger,
) *Server {
	return &Server{
		addr:           addr,
		outboundBuffer: outboundBuffer,
		registry:       registry,
		dispatcher:     dispatcher,
		monitoring:     monitoring,
		log:            log,
	}
}

// Run listens on the configured address and accepts connections until ctx
// is canceled. Per-connection failures never stop the accept loop.
func (s *Server) Run(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()
	s.log.Info("Listening", "addr", ln.Addr().String())

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || stderrors.Is(err, net.ErrClosed) {
				s.log.Info("Listener closed")
				return nil
			}
			return err
		}
		go s.handleConn(ctx, conn)
	}
}

// Addr returns the bound listener address, or nil before Run has started
// listening. Useful when the server was configured with port 0.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	sess := NewSession(conn.RemoteAddr().String(), s.outboundBuffer, s.log)
	s.registry.Add(sess)
	s.monitoring.ConnectionOpened()
	s.log.Info("New client connected", "remote", sess.Remote)

	// Cleanup runs exactly once: the read loop below is the only goroutine
	// dispatching for this session, so no command can race the unregister.
	defer func() {
		sess.Close()
		s.registry.Unregister(sess.ID)
		s.monitoring.ConnectionClosed()
		s.log.Info("Client left", "remote", sess.Remote, "name", sess.Name())
	}()

	go sess.WriteLoop(conn)
	go func() {
		// Unblock the read loop on shutdown or on a dead write side.
		select {
		case <-ctx.Done():
		case <-sess.Done():
		}
		conn.Close()
	}()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		reply, ok := s.dispatcher.Dispatch(sess, scanner.Text())
		if !ok {
			continue
		}
		if err := sess.Enqueue(reply); err != nil {
			return
		}
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		s.log.Debug("Connection read ended", "remote", sess.Remote, "err", err)
	}
}
