package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/joho/godotenv"

	"github.com/garnizeh/gymtrack/api"
	dbfs "github.com/garnizeh/gymtrack/db"
	"github.com/garnizeh/gymtrack/internal/audit"
	"github.com/garnizeh/gymtrack/internal/config"
	"github.com/garnizeh/gymtrack/internal/db"
	"github.com/garnizeh/gymtrack/internal/mail"
	"github.com/garnizeh/gymtrack/internal/repository/sqlite"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	// optional .env for local development
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	api.SetLogger(logger)

	log.Printf("Starting GymTrack server version %s (built at %s)", version, buildTime)

	ctx := context.Background()

	// Open database connection
	db, err := db.New(ctx, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}

	// Apply embedded migrations on startup
	if err := migrate(ctx, db); err != nil {
		log.Fatalf("Failed to migrate DB: %v", err)
	}

	repo := sqlite.New(db, logger)
	recorder := audit.NewRecorder(repo, logger, cfg.Audit.BufferSize, cfg.Audit.Workers)
	mailer := mail.New(cfg.Mail, logger)

	handler := api.SetupRoutes(cfg, version, buildTime, db, recorder, mailer)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Flush pending audit entries before the connection goes away
	recorder.Close()

	// Close database connection
	if err := db.Close(); err != nil {
		log.Printf("Error closing DB: %v", err)
	}

	log.Println("Server exited")
}

func migrate(ctx context.Context, d *db.DB) error {
	return db.Migrate(ctx, d, dbfs.Migrations)
}
