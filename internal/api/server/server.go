package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "gemini-transcriber/docs" // swagger doc registration
	"gemini-transcriber/internal/api/middleware"
	"gemini-transcriber/internal/api/v1/dto"
	v1routes "gemini-transcriber/internal/api/v1/routes"
	"gemini-transcriber/internal/app/api"
	"gemini-transcriber/internal/app/common"
	"gemini-transcriber/internal/app/session"
	"gemini-transcriber/internal/config"
	"gemini-transcriber/web"
)

// Dependencies are the application services the server exposes
type Dependencies struct {
	Transcriber api.Transcriber
	Model       string
	Store       *session.Store
	// Gatherer backs GET /metrics; nil uses the default registry
	Gatherer prometheus.Gatherer
	// BaseContext bounds background transcriptions started from the UI
	BaseContext context.Context
}

// Server represents the HTTP server for the UI and the API
type Server struct {
	config     config.ServerConfig
	router     *gin.Engine
	httpServer *http.Server
	logger     *zap.Logger
}

// NewServer creates a new server
func NewServer(cfg config.ServerConfig, deps Dependencies, logger *zap.Logger) (*Server, error) {
	logger = common.OrNop(logger)

	// Set Gin mode based on environment
	if cfg.Environment == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
	}

	store := deps.Store
	if store == nil {
		store = session.NewStore(deps.Transcriber, logger)
	}

	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogging(logger))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.HealthResponse{
			Status:    "healthy",
			Model:     deps.Model,
			Sessions:  store.Len(),
			Timestamp: time.Now().Unix(),
		})
	})

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// Register API routes
	apiGroup := router.Group("/api")
	{
		v1 := apiGroup.Group("/v1")
		v1routes.RegisterRoutes(v1, &v1routes.ServiceContainer{
			Transcriber: deps.Transcriber,
			Model:       deps.Model,
			Logger:      logger.Named("api"),
		})
	}

	// Swagger documentation routes
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if err := web.Mount(router, web.Options{
		Store:       store,
		BaseContext: deps.BaseContext,
		Model:       deps.Model,
		Logger:      logger.Named("ui"),
	}); err != nil {
		return nil, err
	}

	httpServer := &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &Server{
		config:     cfg,
		router:     router,
		httpServer: httpServer,
		logger:     logger,
	}, nil
}

// Start binds the listen address and serves in the background. Bind failures
// are returned; later serve failures are sent on the returned channel.
func (s *Server) Start() (<-chan error, error) {
	s.logger.Info("Starting server",
		zap.String("host", s.config.Host),
		zap.String("port", s.config.Port),
		zap.String("environment", s.config.Environment),
	)

	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server stopped unexpectedly", zap.Error(err))
			errCh <- err
		}
	}()

	s.logger.Info("Server started successfully",
		zap.String("address", listener.Addr().String()),
	)

	return errCh, nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	s.logger.Info("Server shutdown complete")
	return nil
}

// Router returns the Gin router (useful for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}
