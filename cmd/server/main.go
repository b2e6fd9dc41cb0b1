package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/user/vidhost-go/internal/auth"
	"github.com/user/vidhost-go/internal/catalog"
	"github.com/user/vidhost-go/internal/config"
	"github.com/user/vidhost-go/internal/media"
	"github.com/user/vidhost-go/internal/server"
	"github.com/user/vidhost-go/internal/storage"
	"github.com/user/vidhost-go/internal/store"
	"github.com/user/vidhost-go/internal/sweeper"
)

const (
	// ShutdownTimeout is the maximum time to wait for graceful shutdown
	ShutdownTimeout = 30 * time.Second
)

func main() {
	// Initialize structured JSON logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Caller().Logger()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().Msg("Configuration loaded successfully")

	// Create root context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize MySQL store
	mysqlStore, err := store.NewMySQLStore(&cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	log.Info().Msg("Database connection established")

	// Initialize file storage
	fileStore, err := storage.NewFileStore(cfg.Storage.Root)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize file storage")
	}
	log.Info().Str("root", cfg.Storage.Root).Msg("File storage initialized")

	// Initialize media prober
	prober := media.NewProber(&media.ProberConfig{
		FFmpegPath:      cfg.Media.FFmpegPath,
		FFprobePath:     cfg.Media.FFprobePath,
		Timeout:         cfg.Media.ProbeTimeout,
		ThumbnailWidth:  cfg.Media.ThumbnailWidth,
		ThumbnailHeight: cfg.Media.ThumbnailHeight,
	})

	// Initialize services
	catalogService := catalog.NewService(mysqlStore, fileStore, prober, media.FormatDuration)
	authService := auth.NewService(mysqlStore, &auth.Config{
		JWTSecret:  cfg.Auth.JWTSecret,
		TokenTTL:   cfg.Auth.TokenTTL,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	log.Info().Msg("Services initialized")

	// Initialize orphan sweeper
	sweep := sweeper.NewSweeper(mysqlStore, fileStore, &cfg.Sweeper)

	// Initialize HTTP server
	httpServer := server.NewServer(catalogService, authService, mysqlStore, fileStore, server.Options{
		MaxUploadSize: cfg.Storage.MaxUploadSize,
		PublicPrefix:  cfg.Storage.PublicPrefix,
		UploadRate:    cfg.Server.UploadRate,
		UploadBurst:   cfg.Server.UploadBurst,
	})

	// Setup signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Start HTTP server in goroutine
	go func() {
		if err := httpServer.Start(cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("HTTP server error")
		}
	}()

	// Start orphan sweeper
	sweep.Start(ctx)

	log.Info().Int("port", cfg.Server.Port).Msg("Video host started successfully")

	// Wait for shutdown signal
	sig := <-sigCh
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer shutdownCancel()

	log.Info().Msg("Starting graceful shutdown...")

	// 1. Stop the sweeper so no reconciliation runs during teardown
	sweep.Stop()

	// 2. Stop HTTP server, draining in-flight requests
	if err := httpServer.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping HTTP server")
	} else {
		log.Info().Msg("HTTP server stopped")
	}

	// 3. Close database connection pool
	if err := mysqlStore.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing database connection")
	} else {
		log.Info().Msg("Database connection closed")
	}

	cancel()

	select {
	case <-shutdownCtx.Done():
		if shutdownCtx.Err() == context.DeadlineExceeded {
			log.Warn().Msg("Shutdown timeout exceeded, forcing exit")
		}
	default:
		log.Info().Msg("Graceful shutdown completed")
	}
}
