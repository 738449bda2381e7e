// Package server wraps http.Server with signal-driven graceful shutdown.
package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Server runs the gateway's HTTP listener and drains it cleanly on
// SIGTERM/SIGINT.
type Server struct {
	httpServer   *http.Server
	drainTimeout time.Duration
	logger       *slog.Logger
	closers      []io.Closer // background resources to close on shutdown
}

// Config holds server configuration.
type Config struct {
	Addr         string // listen address, e.g. ":8000"
	Handler      http.Handler
	DrainTimeout time.Duration // max time to wait for in-flight requests
	Logger       *slog.Logger
}

// New creates a server with graceful shutdown support.
func New(cfg Config) *Server {
	if cfg.DrainTimeout == 0 {
		cfg.DrainTimeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Server{
		httpServer: &http.Server{
			Addr:    cfg.Addr,
			Handler: cfg.Handler,
		},
		drainTimeout: cfg.DrainTimeout,
		logger:       cfg.Logger,
	}
}

// RegisterCloser adds a resource to be closed during shutdown, after
// the listener has drained. Used for the rate limiter's GC goroutine
// and similar background work.
func (s *Server) RegisterCloser(c io.Closer) {
	s.closers = append(s.closers, c)
}

// ListenAndServe starts the server and blocks until shutdown completes:
// a SIGTERM/SIGINT stops the listener, in-flight requests get up to the
// drain timeout to finish, then registered resources are closed.
func (s *Server) ListenAndServe() error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("gateway listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case err := <-errCh:
		return err // listener failed to start
	case sig := <-sigCh:
		s.logger.Info("shutdown signal received", "signal", sig.String())
	}

	s.logger.Info("draining connections", "timeout", s.drainTimeout.String())

	ctx, cancel := context.WithTimeout(context.Background(), s.drainTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("drain exceeded timeout, forcing close", "error", err)
		s.httpServer.Close()
	}

	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			s.logger.Warn("error closing resource", "error", err)
		}
	}

	s.logger.Info("shutdown complete")
	return nil
}
