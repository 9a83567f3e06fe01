package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "furniture-rental-backend/internal/api/http"
	"furniture-rental-backend/internal/config"
	"furniture-rental-backend/internal/logger"
	"furniture-rental-backend/internal/repository"
	"furniture-rental-backend/internal/repository/memory"
	"furniture-rental-backend/internal/repository/postgres"
	"furniture-rental-backend/internal/security"
	"furniture-rental-backend/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Furniture Rental Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Checkout configuration",
		"max_conflict_retries", cfg.Checkout.MaxConflictRetries,
		"open_ended_horizon_months", cfg.Checkout.OpenEndedHorizonMonths,
		"timezone", cfg.Checkout.Timezone)

	// Initialize Repositories
	store, closeStore := openStore(cfg)
	defer closeStore()

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer)

	// Initialize Services
	clock := service.Clock(time.Now)
	repos := store.Repos()
	contracts := service.NewContractResolver(repos.Contracts, cfg.Checkout.OpenEndedHorizonMonths, cfg.Location())
	ledger := service.NewInventoryLedger(store, repos.Inventory, clock)
	cartSvc := service.NewCartService(store, contracts, clock)
	checkoutSvc := service.NewCheckoutService(store, contracts, ledger, cfg.Checkout.MaxConflictRetries, clock)
	historySvc := service.NewOrderHistoryService(store, ledger, clock)

	// Initialize HTTP handlers
	handler := httpapi.NewHandler(cartSvc, checkoutSvc, historySvc, ledger)
	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           httpapi.NewRouter(handler, tokenManager),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	logger.Info("HTTP server stopped. Goodbye!")
}

// openStore connects the configured storage driver and returns it with its
// cleanup function.
func openStore(cfg *config.Config) (repository.Store, func()) {
	if cfg.Database.Driver == "memory" {
		logger.Warn("Using in-memory store; data is lost on restart")
		return memory.NewStore(), func() {}
	}

	// Initialize Database
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(context.Background(), db); err != nil {
			logger.Error("Failed to apply schema", "error", err)
			log.Fatalf("Failed to apply schema: %v", err)
		}
		logger.Info("Database schema applied")
	}

	return postgres.NewStore(db), func() { db.Close() }
}
