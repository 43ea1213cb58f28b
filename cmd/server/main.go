package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pickmyfruit/pickmyfruit-backend/internal/api"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/config"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/database"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/email"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/geocoding"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/logging"
)

const purgeInterval = time.Hour

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(logging.Options{
		Level: cfg.LogLevel,
		JSON:  cfg.LogFormat == "json",
	})
	slog.SetDefault(logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	var sender email.Sender
	if cfg.ResendAPIKey != "" {
		sender = email.NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom)
	} else {
		if cfg.IsProduction() {
			logger.Warn("RESEND_API_KEY not set, emails will only be logged")
		}
		sender = email.NewLogSender(logger)
	}

	server := api.SetupRouter(api.Dependencies{
		Config:   cfg,
		DB:       database.GetDB(),
		Logger:   logger,
		Sender:   sender,
		Geocoder: geocoding.NewNominatimClient(cfg.GeocodeURL, cfg.GeocodeUserAgent, cfg.GeocodeTimeout),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server.Run(ctx)
	go purgeExpired(ctx, server, logger)

	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           server.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

// purgeExpired drops stale sessions and magic-link tokens every purgeInterval
func purgeExpired(ctx context.Context, server *api.Server, logger *slog.Logger) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := server.Auth.PurgeExpired(ctx)
			if err != nil {
				logger.Error("failed to purge expired sessions", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("purged expired sessions", "count", n)
			}
		}
	}
}
