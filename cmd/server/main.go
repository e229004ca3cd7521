/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the attrition ROI dashboard API server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env, YAML config and ATTRITION_* overrides
  2. Apply command-line flags
  3. Initialize zap logger
  4. Initialize SQLite store
  5. Create API handler and router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  YAML config file (default: attrition.yaml, optional)
  -port    HTTP server port (overrides config)
  -db      SQLite database path (overrides config)
           Use ":memory:" for in-memory database

ENVIRONMENT:
  ATTRITION_PORT, ATTRITION_DB_PATH, ATTRITION_LOG_LEVEL,
  ATTRITION_LOG_FORMAT, ATTRITION_ALLOWED_ORIGINS (comma-separated).
  A .env file in the working directory is loaded first.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (server.shutdown_grace, 30s)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/attrition.db"

  # Run with in-memory database
  ./server -db=":memory:"

  # Run on different port with debug logs
  ATTRITION_LOG_LEVEL=debug ./server -port=3000

SEE ALSO:
  - internal/config/config.go: configuration
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/warp/attrition-engine/api"
	"github.com/warp/attrition-engine/internal/config"
	"github.com/warp/attrition-engine/internal/logging"
	"github.com/warp/attrition-engine/store/sqlite"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Flags
	configPath := flag.String("config", "attrition.yaml", "YAML config file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Server.DBPath = *dbPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logging.Initialize(cfg.Logging); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logging.Sync()
	log := logging.Logger

	// Initialize store
	store, err := sqlite.New(cfg.Server.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	handler := api.NewHandler(store, cfg.Defaults.Parameters(), log)
	router := api.NewRouter(handler, cfg.Server.AllowedOrigins)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	serveErr := make(chan error, 1)
	go func() {
		log.Info("server starting",
			zap.String("addr", server.Addr),
			zap.String("db", cfg.Server.DBPath))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-quit:
		log.Info("shutting down server", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}
