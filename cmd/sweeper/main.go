package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/chirpnet/chirp/internal/db"
	"github.com/chirpnet/chirp/internal/sweeper"
	"github.com/chirpnet/chirp/pkg/config"
	"github.com/chirpnet/chirp/pkg/logging"
	"github.com/chirpnet/chirp/pkg/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()
	logger.Info("Starting Chirp Sweeper")

	// Initialize telemetry
	telemetryShutdown, err := telemetry.Init(&cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer telemetryShutdown()

	// Connect to the database
	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	ctx, cancel := context.WithCancel(context.Background())

	// Stop the loop on interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		logger.Info("Shutting down sweeper...")
		cancel()
	}()

	repo := db.NewRepository(database.DB)
	if err := sweeper.New(&cfg.Sweeper, repo).Run(ctx); err != nil && err != context.Canceled {
		logger.Fatal("Sweeper failed", zap.Error(err))
	}

	logger.Info("Sweeper exited")
}
