package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pitquant/fundcore/internal/api"
	"github.com/pitquant/fundcore/internal/api/handlers"
	"github.com/pitquant/fundcore/internal/fundamental"
	"github.com/pitquant/fundcore/internal/ingest"
	"github.com/pitquant/fundcore/internal/scheduler"
	"github.com/pitquant/fundcore/internal/scheduler/jobs"
	"github.com/pitquant/fundcore/pkg/config"
	"github.com/pitquant/fundcore/pkg/database"
	"github.com/pitquant/fundcore/pkg/logger"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the query API server",
	Long: `Starts the HTTP API server.

This command:
- Loads all persisted filings into memory
- Serves point-in-time field queries
- Refreshes newly filed records on a cron schedule
- Streams filing-visibility events over a websocket

Endpoints:
  GET /health
  GET /api/fields
  GET /api/securities/{id}/fields/{path}?at=RFC3339
  GET /api/status
  POST /api/jobs/{name}/run
  GET /ws/filings

Example:
  go run ./cmd/fundcore serve
  go run ./cmd/fundcore serve --port 8085`,
	RunE: runServe,
}

var servePort string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&servePort, "port", "", "API server port (overrides PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if servePort != "" {
		cfg.Port = servePort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing query server")

	// 3. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	log.Info("Connected to database")

	// 4. Build the engine: catalog, store, resolver
	registry := fundamental.NewRegistry()
	store := fundamental.NewStore()
	cache := fundamental.NewCache(cfg.Cache.MaxEntries)
	resolver := fundamental.NewResolver(registry, store, cache, log)

	// 5. Load persisted filings. The store stays unfrozen: the refresh
	// job appends live.
	repo := ingest.NewRepository(db.Pool)
	loader := ingest.NewLoader(repo, registry, store, log)

	loadStart := time.Now()
	res, err := loader.LoadAll(cmd.Context())
	if err != nil {
		return fmt.Errorf("load filings: %w", err)
	}

	log.WithFields(map[string]interface{}{
		"entries":  res.Loaded,
		"skipped":  res.Skipped,
		"duration": time.Since(loadStart),
	}).Info("Filings loaded")

	// 6. Schedule the filing refresh from the stored watermark
	hub := api.NewHub(log)

	watermark, ok, err := repo.MaxFiledDate(cmd.Context())
	if err != nil {
		return fmt.Errorf("read filing watermark: %w", err)
	}
	if !ok {
		log.Warn("No filings in storage, refresh starts from zero")
	}

	sched := scheduler.New(log)
	refreshJob := jobs.NewRefreshJob(loader, cache, hub, cfg.RefreshCron, watermark, log)
	if err := sched.AddJob(refreshJob); err != nil {
		return fmt.Errorf("schedule refresh job: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	// 7. Create handlers and router
	fieldsHandler := handlers.NewFieldsHandler(registry, log)
	queryHandler := handlers.NewQueryHandler(resolver, store, log)
	statusHandler := handlers.NewStatusHandler(resolver, store, sched, log)
	router := api.NewRouter(fieldsHandler, queryHandler, statusHandler, hub, log)

	// 8. Start server with graceful shutdown
	server := api.New(cfg, log, router)
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
