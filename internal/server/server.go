// Package server provides the HTTP API for the retrieval service.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"ragserve/internal/config"
	"ragserve/internal/service"
)

// Server is the HTTP server exposing upload, query, and reset endpoints.
type Server struct {
	svc    *service.Service
	config *config.ServerConfig
	logger *zap.Logger
	server *http.Server

	maxUploadBytes int64
}

// NewServer creates a server with the given dependencies.
func NewServer(svc *service.Service, cfg *config.ServerConfig, logger *zap.Logger) *Server {
	return &Server{
		svc:            svc,
		config:         cfg,
		logger:         logger,
		maxUploadBytes: 32 << 20,
	}
}

// Routes builds the router. Exposed so tests can drive handlers directly.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	r.Post("/api/v1/upload", s.handleUpload)
	r.Post("/api/v1/query", s.handleQuery)
	r.Post("/api/v1/reset-vector-store", s.handleReset)
	r.Get("/api/v1/health", s.handleHealth)
	r.Get("/api/v1/status", s.handleStatus)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Routes(),
	}
	s.logger.Info("starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
