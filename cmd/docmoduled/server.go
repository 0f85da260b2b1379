package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"go.uber.org/zap"

	"github.com/michelp/redis-automerge/internal/hostadapter"
	"github.com/michelp/redis-automerge/internal/wire"
)

// Server listens for TCP connections and dispatches each decoded
// frame to an Adapter, following idledungeon/pkg/server.Server's
// shape: a config, a logger, and a listener started in a goroutine
// that Shutdown stops from the outside.
type Server struct {
	addr    string
	adapter *hostadapter.Adapter
	logger  *zap.Logger

	mu       sync.Mutex
	listener net.Listener
	wg       sync.WaitGroup
}

// NewServer builds a Server bound to addr; it does not start
// listening until Start is called.
func NewServer(addr string, adapter *hostadapter.Adapter, logger *zap.Logger) *Server {
	return &Server{addr: addr, adapter: adapter, logger: logger}
}

// Start opens the listener and serves connections until Shutdown is
// called or Accept fails for a reason other than the listener closing.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("docmoduled: listen: %w", err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	s.logger.Info("listening", zap.String("addr", s.addr))
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("docmoduled: accept: %w", err)
		}
		s.wg.Add(1)
		go s.serve(conn)
	}
}

func (s *Server) serve(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	r := bufio.NewReader(conn)
	ctx := context.Background()
	for {
		cmd, err := wire.ReadCommand(r)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.logger.Debug("connection closed", zap.Error(err))
			}
			return
		}
		if err := s.adapter.Dispatch(ctx, cmd, conn); err != nil {
			s.logger.Warn("write reply failed", zap.Error(err))
			return
		}
	}
}

// Shutdown closes the listener and waits for in-flight connections to
// finish their current command.
func (s *Server) Shutdown() error {
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()
	if ln == nil {
		return nil
	}
	err := ln.Close()
	s.wg.Wait()
	return err
}
