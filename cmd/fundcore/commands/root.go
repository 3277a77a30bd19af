package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fundcore",
	Short: "Point-in-time fundamental data engine",
	Long: `fundcore resolves fundamental data queries as of a moment in time:
a query at T only ever sees values filed on or before T, so backtests
cannot look ahead into filings that were not yet public.

Usage:
  go run ./cmd/fundcore [command]

Examples:
  go run ./cmd/fundcore serve
  go run ./cmd/fundcore fields
  go run ./cmd/fundcore query AAPL FinancialStatements.IncomeStatement.NetIncome --at 2024-03-01
  go run ./cmd/fundcore replay --from 2023-01-01 --to 2024-01-01 --securities AAPL,MSFT`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
