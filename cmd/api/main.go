package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anime-shed/sobel-inspector-go/internal/config"
	"github.com/anime-shed/sobel-inspector-go/internal/container"
	"github.com/anime-shed/sobel-inspector-go/internal/logger"
	"github.com/anime-shed/sobel-inspector-go/internal/sobel"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load config")
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize dependency injection container
	c, err := container.NewContainer(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize container")
	}

	// Create HTTP server with configurable timeouts
	server := &http.Server{
		Addr:         cfg.ServerAddress(),
		Handler:      c.Handler(),
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout,
	}

	// Start server in a goroutine
	go func() {
		logger.WithFields(logrus.Fields{
			"address":     cfg.ServerAddress(),
			"timeout":     cfg.RequestTimeout,
			"threads":     sobel.GetThreads(),
			"max_workers": sobel.MaxWorkers(),
			"azure":       cfg.AzureEnabled(),
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

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server exited")
}
