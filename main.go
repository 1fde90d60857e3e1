package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"leadboard/internal/analytics"
	"leadboard/internal/auth"
	"leadboard/internal/client"
	"leadboard/internal/config"
	"leadboard/internal/export"
	"leadboard/internal/handlers"
	"leadboard/internal/leads"
	"leadboard/internal/storage"
	"leadboard/internal/telemetry"
	"leadboard/internal/transformer"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Setup logger
	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.JSONFormatter{})

	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("Invalid configuration")
	}
	if !cfg.NocoDBConfigured() {
		logger.Warn("NocoDB is not configured, lead routes will fail until NOCODB_API_URL and NOCODB_API_TOKEN are set")
	}

	logger.WithFields(logrus.Fields{
		"environment": cfg.Environment,
		"timezone":    cfg.Timezone,
	}).Info("Starting leadboard")

	// Initialize components
	loc := cfg.Location()
	httpClient := client.NewHTTPClient(cfg, logger)
	cache := newLeadCache(cfg, logger)
	service := leads.NewService(httpClient, cache, cfg.FetchLimit, logger)
	calculator := analytics.NewCalculator(loc)
	sessions := auth.NewManager(cfg)
	exporter := export.NewExporter(cfg.SessionSecret, loc, logger)
	metrics := telemetry.New()

	// Initialize handlers
	handler := handlers.New(cfg, httpClient, service, transformer.New(loc), calculator, sessions, exporter, metrics, logger)

	// Setup Gin router
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(handlers.RequestID(), handlers.AccessLog(logger), metrics.Middleware(), gin.Recovery())
	handler.Routes(router)

	if cfg.IsProduction() {
		router.NoRoute(handlers.SPA(cfg.StaticDir))
		logger.WithField("dir", cfg.StaticDir).Info("Serving dashboard frontend")
	}

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.WithField("port", cfg.Port).Info("Server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server exited")
}

// newLeadCache prefers Redis when REDIS_URL is set and reachable, and falls
// back to process memory otherwise.
func newLeadCache(cfg *config.Config, logger *logrus.Logger) storage.LeadCache {
	if cfg.RedisURL == "" {
		return storage.NewMemoryStore(cfg.CacheTTL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rdb, err := storage.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.WithError(err).Warn("Redis unavailable, caching leads in memory")
		return storage.NewMemoryStore(cfg.CacheTTL)
	}
	logger.Info("Caching lead snapshots in Redis")
	return storage.NewRedisCache(rdb, cfg.CacheTTL)
}
