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

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/anime-shed/ai-image-detector/internal/config"
	"github.com/anime-shed/ai-image-detector/internal/container"
	"github.com/anime-shed/ai-image-detector/internal/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize dependency injection container
	c, err := container.NewContainer(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	// Write timeout leaves room for the slowest analysis on top of reading the body.
	server := &http.Server{
		Addr:              cfg.ServerAddress(),
		Handler:           c.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.RequestTimeout,
		WriteTimeout:      cfg.RequestTimeout + cfg.AnalysisTimeout,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"address":            cfg.ServerAddress(),
			"timeout":            cfg.RequestTimeout,
			"max_upload_size":    cfg.MaxUploadSize,
			"parallel":           cfg.ParallelExtractors,
			"azure_blob_enabled": cfg.AzureEnabled(),
		}).Info("Starting HTTP server")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}
	c.Close()

	stats := c.Metrics().Snapshot()
	logger.WithFields(logrus.Fields{
		"total_analyses":    stats.TotalAnalyses,
		"failed_analyses":   stats.FailedAnalyses,
		"avg_processing_ms": stats.AverageProcessingMs,
	}).Info("Server exited")
}
