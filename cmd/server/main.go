package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/BerylCAtieno/dataset-summarizer-api/internal/config"
	"github.com/BerylCAtieno/dataset-summarizer-api/internal/db"
	"github.com/BerylCAtieno/dataset-summarizer-api/internal/repository"
	"github.com/BerylCAtieno/dataset-summarizer-api/internal/router"
	"github.com/BerylCAtieno/dataset-summarizer-api/internal/services"
	"github.com/BerylCAtieno/dataset-summarizer-api/internal/storage"
	"github.com/BerylCAtieno/dataset-summarizer-api/internal/utils"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Failed to load .env: %v", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := utils.NewLogger(cfg.LogLevel)

	var archive *services.Archive
	if cfg.ArchiveEnabled {
		if err := db.RunMigrations(cfg.DatabasePath); err != nil {
			logger.Fatal("Failed to run migrations", "error", err)
		}

		database, err := db.NewSQLiteDB(cfg.DatabasePath)
		if err != nil {
			logger.Fatal("Failed to connect to database", "error", err)
		}
		defer database.Close()

		store, err := newStorage(cfg)
		if err != nil {
			logger.Fatal("Failed to initialize storage", "error", err, "backend", cfg.StorageBackend)
		}

		archive = &services.Archive{
			Repo:    repository.NewRepository(database),
			Storage: store,
		}
		logger.Info("Dataset archive enabled", "database", cfg.DatabasePath, "storage", cfg.StorageBackend)
	}

	datasetService := services.NewService(cfg, archive, logger)

	// Setup HTTP router
	handler := router.NewRouter(datasetService, router.Options{
		MaxFileSize:    cfg.MaxFileSize,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	}, logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("Starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}

func newStorage(cfg *config.Config) (storage.Storage, error) {
	if cfg.StorageBackend == config.StorageMemory {
		return storage.NewMemoryStorage(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return storage.NewS3Storage(ctx, cfg)
}
