// Package server provides the HTTP server setup and routing configuration.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/pie/internal/api"
	"github.com/stwalsh4118/pie/internal/config"
	"github.com/stwalsh4118/pie/internal/logger"
	"github.com/stwalsh4118/pie/internal/middleware"
	"github.com/stwalsh4118/pie/internal/preferences"
)

// Server represents the HTTP server
type Server struct {
	config   *config.Config
	health   api.HealthChecker
	service  *preferences.Service
	detector api.EncoderDetector
	router   *gin.Engine
	server   *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, health api.HealthChecker, service *preferences.Service, detector api.EncoderDetector) *Server {
	s := &Server{
		config:   cfg,
		health:   health,
		service:  service,
		detector: detector,
	}
	s.setupRouter()
	return s
}

// setupRouter initializes the Gin router with middleware and routes
func (s *Server) setupRouter() {
	if s.config.Logging.Level == "debug" || s.config.Logging.Level == "trace" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()

	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.RequestLogger())
	s.router.Use(gin.Recovery())
	s.router.Use(cors.Default()) // allows all origins

	apiGroup := s.router.Group("/api")

	api.SetupHealthRoutes(apiGroup, s.health)
	api.SetupSettingsRoutes(apiGroup, s.service, s.detector)
}

// Handler returns the configured router
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until it stops.
// A clean shutdown returns nil.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.server = &http.Server{
		Addr:           addr,
		Handler:        s.router,
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	logger.Log.Info().
		Str("host", s.config.Server.Host).
		Int("port", s.config.Server.Port).
		Msg("Starting HTTP server")

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, drains in-flight ones and then shuts
// the preferences service down, which closes the settings store.
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Log.Info().Msg("Shutting down server gracefully")

	var errs []error
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
		}
	}

	if err := s.service.Shutdown(); err != nil {
		errs = append(errs, fmt.Errorf("preferences shutdown error: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	logger.Log.Info().Msg("Server stopped")
	return nil
}
