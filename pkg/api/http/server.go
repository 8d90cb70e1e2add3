package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	metrics "github.com/statebridge/statebridge/pkg/adapters/metrics/prometheus"
	"github.com/statebridge/statebridge/pkg/ports"
)

// Server represents the HTTP API server.
type Server struct {
	router    *gin.Engine
	server    *http.Server
	state     ports.StateClient
	storeName string
	metrics   *metrics.Collector
	logger    *zap.Logger
}

// Config holds HTTP server configuration.
type Config struct {
	Port        int
	StoreName   string
	ServiceName string
	State       ports.StateClient
	Metrics     *metrics.Collector
	Logger      *zap.Logger
}

// NewServer creates a new HTTP server.
func NewServer(cfg *Config) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(requestLogger(cfg.Logger))
	router.Use(requestMetrics(cfg.Metrics))
	router.Use(otelgin.Middleware(cfg.ServiceName))

	s := &Server{
		router:    router,
		state:     cfg.State,
		storeName: cfg.StoreName,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	return s
}

// setupRoutes configures API routes.
func (s *Server) setupRoutes() {
	// Health checks
	s.router.GET("/livez", s.handleHealth)
	s.router.GET("/readyz", s.handleHealth)
	s.router.GET("/health", s.handleHealth)

	// Metrics
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1
	v1 := s.router.Group("/api/v1")
	{
		// A wildcard captures the whole remainder of the path, so a
		// request to the bare collection path reaches the handler and
		// gets the empty-key validation error instead of a router 404.
		v1.GET("/state/*key", s.handleGetState)
		v1.POST("/state/*key", s.handleSaveState)
		v1.DELETE("/state/*key", s.handleDeleteState)
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("HTTP server shut down complete")
	return nil
}
