package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apiauth "github.com/killallgit/mask-editor-api/api/auth"
	"github.com/killallgit/mask-editor-api/api/types"
	"github.com/killallgit/mask-editor-api/internal/logging"
	"github.com/killallgit/mask-editor-api/pkg/config"
)

// Server represents the HTTP server
type Server struct {
	engine      *gin.Engine
	httpServer  *http.Server
	limiters    *RateLimiters
	authHandler *apiauth.Handler
	cors        gin.HandlerFunc
	logger      *slog.Logger

	// Dependencies for handlers
	dependencies *types.Dependencies
}

// NewServer creates a new HTTP server
func NewServer(cfg config.ServerConfig, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}

	// Create Gin engine with recovery middleware only
	engine := gin.New()
	engine.Use(gin.Recovery())

	readTimeout := cfg.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 30 * time.Second
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 30 * time.Second
	}
	maxHeaderBytes := cfg.MaxHeaderBytes
	if maxHeaderBytes <= 0 {
		maxHeaderBytes = 1 << 20 // 1 MB
	}

	return &Server{
		engine:       engine,
		limiters:     NewRateLimiters(),
		logger:       logging.WithComponent(logger, "http"),
		dependencies: &types.Dependencies{},
		httpServer: &http.Server{
			Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Handler:           engine,
			ReadTimeout:       readTimeout,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      writeTimeout,
			IdleTimeout:       60 * time.Second,
			MaxHeaderBytes:    maxHeaderBytes,
		},
	}
}

// SetDependencies sets all handler dependencies
func (s *Server) SetDependencies(deps *types.Dependencies) {
	s.dependencies = deps
}

// SetAuth protects /api/v1 with bearer token validation
func (s *Server) SetAuth(validator apiauth.TokenValidator) {
	s.authHandler = apiauth.NewHandler(validator)
}

// EnableCORS allows cross-origin requests from origins; empty or "*" allows any
func (s *Server) EnableCORS(origins []string) {
	s.cors = CORS(origins)
}

// Engine returns the Gin engine for testing
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Initialize sets up middleware and routes
func (s *Server) Initialize() error {
	if s.dependencies == nil || s.dependencies.SessionService == nil {
		return fmt.Errorf("session service is required")
	}
	if s.dependencies.JobService == nil {
		return fmt.Errorf("job service is required")
	}

	s.setupMiddleware()
	RegisterRoutes(s.engine, s.dependencies, s.limiters, s.authHandler)
	return nil
}

// setupMiddleware configures global middleware
func (s *Server) setupMiddleware() {
	s.engine.Use(RequestID())
	s.engine.Use(RequestLogger(s.logger))
	if s.cors != nil {
		s.engine.Use(s.cors)
	}
	s.engine.Use(RequestSizeLimit())
}

// Start serves until Shutdown; a clean shutdown returns nil
func (s *Server) Start() error {
	s.logger.Info("listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	// Stop the rate limiter cleanup goroutine
	s.limiters.Stop()

	return s.httpServer.Shutdown(ctx)
}
