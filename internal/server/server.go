package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// Server wraps the HTTP server
type Server struct {
	http   *http.Server
	logger *slog.Logger
}

// New builds the HTTP server. writeTimeout must exceed the slowest AI call.
func New(port string, h http.Handler, writeTimeout time.Duration, logger *slog.Logger) *Server {
	if writeTimeout <= 0 {
		writeTimeout = 90 * time.Second
	}
	s := &http.Server{
		Addr:              ":" + port,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return &Server{
		http:   s,
		logger: logger,
	}
}

// Start runs the HTTP server (blocks until error or shutdown).
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", "addr", s.http.Addr)
	err := s.http.ListenAndServe()
	// http.ErrServerClosed is expected on graceful shutdown
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop gracefully shuts down the server with the provided context deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down")
	return s.http.Shutdown(ctx)
}
