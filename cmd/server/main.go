// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/uzagro/storefront/internal/catalog"
	"github.com/uzagro/storefront/internal/config"
	"github.com/uzagro/storefront/internal/router"
	"github.com/uzagro/storefront/internal/session"
	"github.com/uzagro/storefront/internal/store/persist"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize snapshot persistence
	persister, err := newPersister(cfg)
	if err != nil {
		log.Fatal("Failed to initialize storage backend:", err)
	}

	// Set Gin mode and log format
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	// Session-scoped store pairs
	sessions := session.NewManager(persister, time.Duration(cfg.Session.IdleMinutes)*time.Minute)
	defer sessions.Close()

	// Upstream catalog client
	catalogClient := catalog.NewClient(cfg.Catalog.BaseURL, time.Duration(cfg.Catalog.TimeoutSeconds)*time.Second)

	// Initialize router
	r := router.Initialize(sessions, catalogClient, cfg)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %s (storage backend: %s)", cfg.Server.Port, cfg.Storage.Backend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown server
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

func newPersister(cfg *config.Config) (persist.Persister, error) {
	switch cfg.Storage.Backend {
	case "memory":
		return persist.NewMemory(), nil
	case "file":
		return persist.NewFile(cfg.Storage.FileDir)
	case "redis":
		return persist.NewRedis(
			cfg.Storage.Redis.Addr(),
			cfg.Storage.Redis.Password,
			cfg.Storage.Redis.DB,
			time.Duration(cfg.Storage.TTLHours)*time.Hour,
		)
	case "postgres":
		return persist.NewDatabase(cfg.Storage.Database.DSN())
	case "s3":
		return persist.NewS3(
			cfg.Storage.AWS.Region,
			cfg.Storage.AWS.AccessKeyID,
			cfg.Storage.AWS.SecretAccessKey,
			cfg.Storage.AWS.S3Bucket,
			cfg.Storage.AWS.S3Prefix,
		)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
