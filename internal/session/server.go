package session

import (
	"context"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Server accepts control connections and plays them one at a time.
// There is exactly one live game: a second peer waits in the accept
// queue until the current session ends and then gets a fresh run.
type Server struct {
	eng    Engine
	opts   Options
	logger *log.Logger

	mu     sync.Mutex
	active net.Conn
}

// NewServer wires a server around the engine. The options are applied
// to every session it runs.
func NewServer(eng Engine, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{eng: eng, opts: opts, logger: logger}
}

// ListenAndServe binds addr and serves until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string, sink func(Result)) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("session: listen on %s: %w", addr, err)
	}
	s.logger.Info("control server listening", "addr", lis.Addr().String())
	return s.Serve(ctx, lis, sink)
}

// Serve runs the accept loop on lis. Each accepted connection gets one
// complete session; sink, when not nil, receives every finished
// Result. Canceling ctx closes the listener and the live connection,
// which unblocks the loop at any point.
func (s *Server) Serve(ctx context.Context, lis net.Listener, sink func(Result)) error {
	go func() {
		<-ctx.Done()
		lis.Close()
		s.mu.Lock()
		if s.active != nil {
			s.active.Close()
		}
		s.mu.Unlock()
	}()

	for {
		conn, err := lis.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("session: accept: %w", err)
		}

		s.mu.Lock()
		s.active = conn
		s.mu.Unlock()

		s.logger.Info("peer connected", "remote", conn.RemoteAddr().String())
		res := Run(conn, s.eng, s.opts)
		conn.Close()

		s.mu.Lock()
		s.active = nil
		s.mu.Unlock()

		s.logger.Info("session closed",
			"score", res.Score,
			"duration", res.Duration.Round(time.Millisecond).String(),
			"frames", res.Frames,
			"reason", res.Reason,
		)
		if sink != nil {
			sink(res)
		}
	}
}
