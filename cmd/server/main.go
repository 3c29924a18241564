package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/OpenVertical/vertical/internal/applylog"
	"github.com/OpenVertical/vertical/internal/auth"
	"github.com/OpenVertical/vertical/internal/config"
	"github.com/OpenVertical/vertical/internal/database"
	"github.com/OpenVertical/vertical/internal/middleware"
	"github.com/OpenVertical/vertical/internal/pack"
	"github.com/OpenVertical/vertical/internal/pack/model"
	"github.com/OpenVertical/vertical/internal/storage"
	"github.com/OpenVertical/vertical/internal/tenant"
)

func main() {
	// Load .env if present; real deployments set variables directly
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	slog.Info("configuration loaded successfully",
		"db_host", cfg.Database.Host,
		"db_port", cfg.Database.Port,
		"db_name", cfg.Database.Name,
		"db_sslmode", cfg.Database.SSLMode,
	)

	slog.Info("server configuration",
		"port", cfg.Server.Port,
		"storage_type", cfg.Storage.Type,
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

	// Migrate tenant-scoped schema
	if err := database.Migrate(db,
		&tenant.Tenant{},
		&model.ServiceCategory{},
		&model.WorkflowTemplate{},
		&model.WorkflowStep{},
		&model.WorkflowTransition{},
		&model.ServiceType{},
		&model.DeadlineRule{},
		&model.StepTaskTemplate{},
		&model.StepForm{},
		&model.DocumentTemplate{},
		&model.Role{},
		&model.Service{},
		&model.ServiceComposition{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Initialize pack application audit log (SQLite)
	applyLog, err := applylog.NewStore(cfg.ApplyLog.Path)
	if err != nil {
		log.Fatalf("failed to open apply log: %v", err)
	}
	defer func() {
		if err := applyLog.Close(); err != nil {
			slog.Error("failed to close apply log", "error", err)
		}
	}()

	// Initialize artifact storage for rendered documents
	artifacts, err := storage.NewDriverFromConfig(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatalf("failed to initialize storage: %v", err)
	}

	// Initialize pack manager
	pm := pack.NewManager(db, applyLog, artifacts)

	tokenExtractor := auth.NewTokenExtractor()
	requireAuth := auth.RequireAuth(pm.TenantService(), tokenExtractor)

	// Set up HTTP routes
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/packs", pm.HandleListPacks)
	mux.HandleFunc("GET /api/v1/packs/{packKey}", pm.HandleGetPack)
	mux.HandleFunc("POST /api/v1/packs/{packKey}/validate", pm.HandleValidatePack)
	mux.HandleFunc("POST /api/v1/tenants", pm.HandleCreateTenant)
	mux.HandleFunc("GET /api/v1/tenants", pm.HandleListTenants)
	mux.HandleFunc("GET /api/v1/tenants/{tenantID}", pm.HandleGetTenant)
	mux.HandleFunc("POST /api/v1/tenants/{tenantID}/packs/{packKey}", pm.HandleApplyPack)
	mux.HandleFunc("GET /api/v1/tenants/{tenantID}/applies", pm.HandleListApplications)
	mux.Handle("GET /api/v1/documents", requireAuth(http.HandlerFunc(pm.HandleListDocumentTemplates)))
	mux.Handle("POST /api/v1/documents/{templateID}/render", requireAuth(http.HandlerFunc(pm.HandleRenderDocument)))
	mux.HandleFunc("GET /api/v1/documents/files/{key}", pm.HandleGetDocumentFile)

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
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Attempt graceful shutdown of HTTP server
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	} else {
		slog.Info("server gracefully stopped")
	}

	slog.Info("server stopped")
}
