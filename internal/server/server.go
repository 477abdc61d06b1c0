// Package server exposes the simulation service over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/immorechner/property-calculator/internal/config"
	"github.com/immorechner/property-calculator/internal/service"
	"go.uber.org/zap"
)

// Server is the REST API server.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

// NewServer wires the routes for svc and returns a server listening on cfg.Address.
func NewServer(cfg config.ServerConfig, svc *service.SimulationService, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	h, err := NewHandler(svc, cfg.MaxBodyBytes, logger)
	if err != nil {
		return nil, err
	}
	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Address,
			Handler:      h,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		logger: logger,
	}, nil
}

// NewHandler builds the router. It is separate from NewServer so tests can drive it
// with httptest.
func NewHandler(svc *service.SimulationService, maxBodyBytes int64, logger *zap.Logger) (http.Handler, error) {
	schemas, err := compileSchemas()
	if err != nil {
		return nil, err
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = 1 << 20
	}
	api := &handlers{svc: svc, schemas: schemas, maxBody: maxBodyBytes, logger: logger.Sugar()}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", api.health)
		r.Post("/simulations", api.simulate)
		r.Post("/portfolios", api.portfolio)
		r.Get("/properties/{id}", api.getProperty)
	})
	return r, nil
}

// Start serves until the server is stopped.
func (s *Server) Start() error {
	s.logger.Info("starting REST API server", zap.String("address", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop shuts the server down, waiting for in-flight requests until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping REST API server")
	return s.httpServer.Shutdown(ctx)
}

// Run starts the server and stops it when ctx is cancelled.
func (s *Server) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.Stop(stopCtx); err != nil {
			return err
		}
		return <-errCh
	}
}
