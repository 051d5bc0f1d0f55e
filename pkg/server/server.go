package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"biscuit-hq/bakery/pkg/config"
	"biscuit-hq/bakery/pkg/playground"
	"biscuit-hq/bakery/pkg/samples"
	"biscuit-hq/bakery/pkg/snippet"
	"biscuit-hq/bakery/pkg/telemetry/metrics"
)

// Options bundles the collaborators the server exposes. Snippets,
// Gallery and Metrics may be nil; the corresponding endpoints are then
// not registered.
type Options struct {
	Playground *playground.Playground
	Snippets   snippet.Store
	Gallery    *samples.Gallery
	Metrics    *metrics.Collector
}

// Server is the playground HTTP server.
type Server struct {
	config *config.Config
	opts   Options
	logger *slog.Logger

	httpServer   *http.Server
	mu           sync.Mutex
	isRunning    bool
	shutdownOnce sync.Once
}

// NewServer creates the playground server.
func NewServer(cfg *config.Config, opts Options) *Server {
	return &Server{
		config: cfg,
		opts:   opts,
		logger: slog.Default().With("component", "server"),
	}
}

// Start starts the HTTP server and blocks until the context is
// cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.httpServer = &http.Server{
		Addr:         s.config.Server.ListenAddress,
		Handler:      s.Handler(),
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting playground server", "address", s.config.Server.ListenAddress)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		running := s.isRunning
		s.mu.Unlock()
		if !running {
			return
		}

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("playground server stopped")
	})

	return shutdownErr
}

// Handler builds the route table with the middleware chain applied.
// Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	route := func(pattern, name string, h http.HandlerFunc) {
		mux.Handle(pattern, metricsMiddleware(s.opts.Metrics, name, h))
	}

	route("POST /v1/execute", "execute", s.handleExecute)
	route("GET /healthz", "healthz", s.handleHealth)

	if s.opts.Gallery != nil {
		route("GET /v1/samples", "samples", s.handleListSamples)
		route("GET /v1/samples/{name}", "sample", s.handleGetSample)
	}
	if s.opts.Snippets != nil {
		route("POST /v1/snippets", "snippet_create", s.handleCreateSnippet)
		route("GET /v1/snippets/{id}", "snippet_get", s.handleGetSnippet)
	}
	if s.opts.Metrics != nil {
		mux.Handle("GET /metrics", s.opts.Metrics.Handler())
	}

	var handler http.Handler = mux
	handler = loggingMiddleware(handler)
	handler = requestIDMiddleware(handler)
	handler = recoveryMiddleware(handler)
	return handler
}
