// Package main runs the attendance registration HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/aura-attendance/backend/config"
	"github.com/aura-attendance/backend/internal/auth"
	"github.com/aura-attendance/backend/internal/links"
	"github.com/aura-attendance/backend/internal/registrations"
	"github.com/aura-attendance/backend/internal/roster"
	"github.com/aura-attendance/backend/internal/server"
	"github.com/aura-attendance/backend/internal/web"
	"github.com/aura-attendance/backend/pkg/database"
	"github.com/aura-attendance/backend/pkg/metrics"
	"github.com/aura-attendance/backend/pkg/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger level comes from config; fall back to a default logger for this one error.
		zap.NewExample().Fatal("load config", zap.Error(err))
	}

	logger := newLogger(cfg.Log.Level)
	defer logger.Sync()

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	templates, err := web.Templates()
	if err != nil {
		logger.Fatal("parse templates", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(registry)
	if err != nil {
		logger.Fatal("metrics", zap.Error(err))
	}
	var metricsHandler http.Handler
	if cfg.Server.MetricsEnabled {
		metricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	}

	if gin.Mode() == gin.DebugMode && os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Admin.Password == "password" {
		logger.Warn("ADMIN_PASSWORD is the default; set it before exposing the server")
	}

	router, err := server.NewRouter(server.Deps{
		Links:          links.NewRepository(pool),
		Attendees:      registrations.NewRepository(pool),
		Roster:         roster.NewRepository(pool),
		Sessions:       session.NewStore(cfg.Session.Secret, cfg.Session.CookieName, cfg.Session.CookieSecure),
		Credentials:    auth.Credentials{Username: cfg.Admin.Username, Password: cfg.Admin.Password},
		Templates:      templates,
		PublicBaseURL:  cfg.Server.PublicBaseURL,
		TrustedProxies: cfg.Server.TrustedProxies,
		Metrics:        m,
		MetricsHandler: metricsHandler,
		Logger:         logger,
	})
	if err != nil {
		logger.Fatal("router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger(level string) *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if lvl, err := zap.ParseAtomicLevel(level); err == nil {
		config.Level = lvl
	}
	logger, _ := config.Build()
	return logger
}
