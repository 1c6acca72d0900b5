// internal/interfaces/http/server.go
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/app"
	"github.com/your-org/storefront/internal/infrastructure/storage"
	"github.com/your-org/storefront/internal/interfaces/http/handlers"
	"github.com/your-org/storefront/internal/interfaces/http/middleware"
	"github.com/your-org/storefront/internal/interfaces/http/routes"
	"github.com/your-org/storefront/internal/pkg/pdf"
)

// Server represents the HTTP server
type Server struct {
	app        *app.App
	gin        *gin.Engine
	httpServer *http.Server
	logger     logrus.FieldLogger
	startedAt  time.Time
}

// NewServer creates a new HTTP server instance with wkhtmltopdf quotes
func NewServer(a *app.App) *Server {
	return NewServerWithRenderer(a, pdf.NewService(a.Config.PDF))
}

// NewServerWithRenderer creates a server that renders quotes with quotes
func NewServerWithRenderer(a *app.App, quotes handlers.QuoteRenderer) *Server {
	// Set Gin mode based on environment
	switch {
	case a.Config.IsProduction():
		gin.SetMode(gin.ReleaseMode)
	case a.Config.App.Environment == "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	s := &Server{
		app:       a,
		gin:       gin.New(),
		logger:    a.Logger.WithField("component", "http"),
		startedAt: time.Now(),
	}

	if err := s.gin.SetTrustedProxies(a.Config.Security.TrustedProxies); err != nil {
		s.logger.WithError(err).Warn("Ignoring invalid trusted proxies")
	}

	s.setupMiddleware()
	s.setupRoutes(quotes)
	return s
}

// Handler exposes the gin engine
func (s *Server) Handler() http.Handler {
	return s.gin
}

// Start starts the HTTP server and blocks until it is stopped
func (s *Server) Start() error {
	cfg := s.app.Config

	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      s.gin,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	s.logger.Infof("🚀 HTTP Server starting on port %s", cfg.Server.Port)
	s.logger.Infof("🌐 API Base URL: http://localhost:%s/api/v1", cfg.Server.Port)
	s.logger.Infof("📊 Health Check: http://localhost:%s/health", cfg.Server.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("🛑 Shutting down HTTP server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("✅ HTTP server stopped gracefully")
	return nil
}

// setupMiddleware configures all middleware for the server
func (s *Server) setupMiddleware() {
	cfg := s.app.Config

	s.gin.Use(gin.Recovery())
	s.gin.Use(middleware.Logger(s.logger))
	s.gin.Use(middleware.RequestID())
	s.gin.Use(middleware.CORS(cfg.Security))
	s.gin.Use(middleware.SecurityHeaders(cfg.App, "/api/v1/cart"))

	// A no-op unless the redis backend supplied a client
	s.gin.Use(middleware.RateLimit(cfg.Security.RateLimitPerMinute, s.app.Redis, s.logger))

	s.gin.Use(middleware.RequestSizeLimit(cfg.Server.MaxBodyBytes))
	s.gin.Use(middleware.Timeout(cfg.Server.RequestTimeout))
}

func (s *Server) setupRoutes(quotes handlers.QuoteRenderer) {
	s.gin.GET("/health", s.healthCheck)
	s.gin.GET("/ready", s.readinessCheck)

	apiV1 := s.gin.Group("/api/v1")
	routes.SetupRoutes(apiV1, s.app, quotes)

	if s.app.Config.IsDevelopment() {
		s.gin.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"message":     "Storefront API",
				"version":     s.app.Config.App.Version,
				"environment": s.app.Config.App.Environment,
				"health":      "/health",
				"endpoints": gin.H{
					"products":   "/api/v1/products",
					"brands":     "/api/v1/brands",
					"categories": "/api/v1/categories",
					"highlights": "/api/v1/highlights",
					"cart":       "/api/v1/cart",
				},
			})
		})
	}
}

// healthCheck reports whether the cart storage backend is reachable
func (s *Server) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := storage.Ping(ctx, s.app.Storage); err != nil {
		s.logger.WithError(err).Warn("Storage ping failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "storage ping failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"version":     s.app.Config.App.Version,
		"environment": s.app.Config.App.Environment,
		"storage":     s.app.Config.Storage.Backend,
	})
}

// readinessCheck reports ready once the catalog has been loaded
func (s *Server) readinessCheck(c *gin.Context) {
	if !s.app.Catalog.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "loading",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(s.startedAt).String(),
		"products":  len(s.app.Catalog.Products()),
	})
}
