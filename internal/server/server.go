// Package server exposes the sort pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz     liveness and build version
//	POST /v1/sort     order a JSON relation list
//	POST /v1/render   draw a JSON relation list as SVG (or DOT with ?format=dot)
//
// Request bodies use the JSON relation format of package io with two extra
// optional fields:
//
//	{"relations": [{"before": 9, "after": 2}], "mode": "auto", "strict": false}
//
// Errors are JSON objects {"code": ..., "message": ...} whose status comes
// from errors.HTTPStatus. Every response carries an X-Request-ID header.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/toposort/pkg/config"
	"github.com/matzehuels/toposort/pkg/pipeline"
)

// Default limits.
const (
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second

	// maxBodyBytes caps request bodies independently of the relation limit.
	maxBodyBytes = 8 << 20
)

// Config configures the server.
type Config struct {
	Addr         string
	MaxRelations int
	Detailed     bool // default for render requests that do not set it
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// ConfigFrom builds a server Config from the file configuration.
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		Addr:         cfg.Server.Addr,
		MaxRelations: cfg.Server.MaxRelations,
		Detailed:     cfg.Render.Detailed,
	}
}

// Server serves the HTTP API.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	cfg    Config
}

// New creates a server backed by runner.
func New(runner *pipeline.Runner, cfg Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.Addr == "" {
		cfg.Addr = config.DefaultAddr
	}
	if cfg.MaxRelations <= 0 {
		cfg.MaxRelations = config.DefaultMaxRelations
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	return &Server{runner: runner, logger: logger, cfg: cfg}
}

// Handler returns the API router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/sort", s.handleSort)
		r.Post("/render", s.handleRender)
	})
	r.NotFound(s.handleNotFound)
	return r
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr, "max_relations", s.cfg.MaxRelations)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
