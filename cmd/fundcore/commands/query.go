package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pitquant/fundcore/internal/fundamental"
	"github.com/pitquant/fundcore/internal/ingest"
	"github.com/pitquant/fundcore/pkg/config"
	"github.com/pitquant/fundcore/pkg/database"
	"github.com/pitquant/fundcore/pkg/logger"
)

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query <security> <field-path>",
	Short: "Resolve one field as known at a time",
	Long: `Loads persisted filings and resolves a single point-in-time query.

The --at time bounds what is visible: a value counts only if it was
filed on or before that moment.

Example:
  go run ./cmd/fundcore query AAPL FinancialStatements.IncomeStatement.NetIncome --at 2024-03-01
  go run ./cmd/fundcore query AAPL OperationRatios.ROE`,
	Args: cobra.ExactArgs(2),
	RunE: runQuery,
}

var queryAt string

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().StringVar(&queryAt, "at", "", "query time, RFC3339 or YYYY-MM-DD (default: now)")
}

// parseQueryTime accepts a full RFC3339 timestamp or a bare date
func parseQueryTime(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("cannot parse time %q (want RFC3339 or YYYY-MM-DD)", s)
}

func runQuery(cmd *cobra.Command, args []string) error {
	security := args[0]
	path := args[1]

	at, err := parseQueryTime(queryAt)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	registry := fundamental.NewRegistry()
	store := fundamental.NewStore()
	loader := ingest.NewLoader(ingest.NewRepository(db.Pool), registry, store, log)

	if _, err := loader.LoadAll(cmd.Context()); err != nil {
		return fmt.Errorf("load filings: %w", err)
	}
	store.Freeze()

	resolver := fundamental.NewResolver(registry, store, fundamental.NewCache(cfg.Cache.MaxEntries), log)

	value, ok, err := resolver.Get(at, fundamental.SecurityID(security), path)
	if err != nil {
		return err
	}

	if !ok {
		fmt.Printf("%s %s @ %s: no value filed yet\n", security, path, at.Format(time.RFC3339))
		return nil
	}

	fmt.Printf("%s %s @ %s: %s\n", security, path, at.Format(time.RFC3339), value)
	return nil
}
