package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/querybank/querybank/internal/archive"
	"github.com/querybank/querybank/internal/auth"
	"github.com/querybank/querybank/internal/catalog"
	"github.com/querybank/querybank/internal/config"
	"github.com/querybank/querybank/internal/database"
	"github.com/querybank/querybank/internal/middleware"
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	slog.Info("configuration loaded successfully",
		"db_driver", cfg.Database.Driver,
		"db_host", cfg.Database.Host,
		"db_port", cfg.Database.Port,
		"db_name", cfg.Database.Name,
		"db_sslmode", cfg.Database.SSLMode,
	)

	slog.Info("server configuration",
		"port", cfg.Server.Port,
		"storage_type", cfg.Storage.Type,
		"auth_required", cfg.Auth.Required,
	)

	// Initialize database connection
	db, err := database.New(&cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	// Perform health check
	if err := database.HealthCheck(db); err != nil {
		log.Fatalf("database health check failed: %v", err)
	}

	// Migrate schema
	if err := database.Migrate(db, &catalog.QueryTask{}, &auth.ClientContext{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Initialize bundle storage. Local download links are served by this
	// process, so a relative public URL is anchored to the service URL.
	if cfg.Storage.Type == "local" && strings.HasPrefix(cfg.Storage.LocalPublicURL, "/") {
		cfg.Storage.LocalPublicURL = strings.TrimSuffix(cfg.Server.ServiceURL, "/") + cfg.Storage.LocalPublicURL
	}

	ctx := context.Background()
	storageDriver, err := archive.NewStorageFromConfig(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("failed to initialize bundle storage: %v", err)
	}

	// Wire services and routers
	catalogService := catalog.NewCatalogService(db)
	catalogRouter := catalog.NewCatalogRouter(catalogService)

	archiveService := archive.NewArchiveService(storageDriver)
	archiveRouter := archive.NewArchiveRouter(archiveService, catalogService)

	authService := auth.NewAuthService(db)
	keyExtractor := auth.NewKeyExtractor()

	// Mutating endpoints can be gated behind client keys
	protect := func(h http.HandlerFunc) http.Handler {
		if !cfg.Auth.Required {
			return auth.Middleware(authService, keyExtractor)(h)
		}
		return auth.RequireAuth(authService, keyExtractor)(h)
	}

	// Set up HTTP routes
	mux := http.NewServeMux()
	mux.Handle("POST /api/tasks", protect(catalogRouter.HandleCreateTask))
	mux.Handle("POST /api/tasks/batch", protect(catalogRouter.HandleCreateTasks))
	mux.HandleFunc("GET /api/tasks", catalogRouter.HandleListTasks)
	mux.HandleFunc("GET /api/tasks/{taskID}", catalogRouter.HandleGetTask)
	mux.Handle("PUT /api/tasks/{taskID}/labels", protect(catalogRouter.HandleUpdateLabels))
	mux.Handle("DELETE /api/tasks/{taskID}", protect(catalogRouter.HandleDeleteTask))
	mux.Handle("POST /api/archives", protect(archiveRouter.HandleExport))
	mux.HandleFunc("GET /api/archives/{key}", archiveRouter.HandleDownload)

	// Set up graceful shutdown
	serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)

	// Wrap handler with CORS middleware
	handler := middleware.CORS(&cfg.CORS)(mux)

	server := &http.Server{
		Addr:    serverAddr,
		Handler: handler,
	}

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		slog.Info("starting server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			quit <- syscall.SIGTERM
		}
	}()

	// Wait for interrupt signal
	<-quit
	slog.Info("shutting down server...")

	// Create a context with timeout for graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Attempt graceful shutdown of HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	} else {
		slog.Info("server gracefully stopped")
	}

	slog.Info("server stopped")
}
