// Package http wires the gin router, its middleware and the API and metrics servers.
package http

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/prateekro/trayme-guard/internal/auth/http"
	classifierHTTP "github.com/prateekro/trayme-guard/internal/classifier/http"
	"github.com/prateekro/trayme-guard/internal/config"
	"github.com/prateekro/trayme-guard/internal/metrics"
	secretsHTTP "github.com/prateekro/trayme-guard/internal/secrets/http"
)

// readinessTimeout bounds the database ping behind /ready.
const readinessTimeout = 2 * time.Second

// Server is the API server.
type Server struct {
	db     *sql.DB
	server *http.Server
	logger *slog.Logger
	router *gin.Engine
}

// NewServer creates an API server bound to host:port. SetupRouter must be
// called before Start.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", host, port),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			// Unlock and item reads may wait on a passcode prompt.
			WriteTimeout: 2 * time.Minute,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter registers middleware and every API route.
func (s *Server) SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	classifierHandler *classifierHTTP.ClassifierHandler,
	sessionHandler *authHTTP.SessionHandler,
	itemHandler *secretsHTTP.ItemHandler,
	metricsProvider *metrics.Provider,
) {
	gin.SetMode(cfg.GetGinMode())

	router := gin.New()
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))
	router.Use(gin.Recovery())

	if cors := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); cors != nil {
		router.Use(cors)
	}
	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	if cfg.RateLimitEnabled {
		v1.Use(RateLimitMiddleware(ctx, cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger))
	}
	v1.Use(authHTTP.PasscodeMiddleware())

	v1.POST("/classify", classifierHandler.ClassifyHandler)
	v1.POST("/mask", classifierHandler.MaskHandler)

	session := v1.Group("/session")
	{
		session.GET("", sessionHandler.GetHandler)
		session.POST("/lock", sessionHandler.LockHandler)
		session.POST("/unlock", sessionHandler.UnlockHandler)
		session.POST("/activity", sessionHandler.ActivityHandler)
		session.POST("/events", sessionHandler.EventHandler)
		session.PUT("/settings", sessionHandler.SettingsHandler)
	}
	v1.GET("/access-log", sessionHandler.AccessLogHandler)

	items := v1.Group("/items")
	{
		items.POST("", itemHandler.StoreHandler)
		items.POST("/purge", itemHandler.PurgeHandler)
		items.GET("/:id", itemHandler.GetHandler)
		items.DELETE("/:id", itemHandler.DeleteHandler)
	}

	s.router = router
}

// Handler returns the configured router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return errors.New("router not configured")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports ready once the row store answers a ping.
func (s *Server) readinessHandler(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn("readiness check failed", slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": "ok"},
	})
}
