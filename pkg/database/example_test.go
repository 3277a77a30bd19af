package database_test

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/pitquant/fundcore/pkg/config"
	"github.com/pitquant/fundcore/pkg/database"
)

// Example demonstrates how to use the database package
func Example() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Create database connection
	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Check connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	stats := db.Stats()
	fmt.Printf("Max connections: %d\n", stats.MaxConns)
	fmt.Printf("Active connections: %d\n", stats.AcquiredConns)
	fmt.Printf("Idle connections: %d\n", stats.IdleConns)
}
