package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pitquant/fundcore/internal/fundamental"
)

// fieldsCmd represents the fields command
var fieldsCmd = &cobra.Command{
	Use:   "fields [prefix]",
	Short: "List the field catalog",
	Long: `Prints the built-in field catalog: every dotted path the engine
can resolve, its value kind and its code.

An optional prefix filters the listing.

Example:
  go run ./cmd/fundcore fields
  go run ./cmd/fundcore fields OperationRatios`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFields,
}

func init() {
	rootCmd.AddCommand(fieldsCmd)
}

func runFields(cmd *cobra.Command, args []string) error {
	prefix := ""
	if len(args) == 1 {
		prefix = args[0]
	}

	registry := fundamental.NewRegistry()

	count := 0
	for _, f := range registry.List() {
		if prefix != "" && !strings.HasPrefix(f.Path, prefix) {
			continue
		}
		fmt.Printf("%-6d %-9s %-62s %s\n", f.ID, f.Kind, f.Path, f.Description)
		count++
	}

	if count == 0 {
		return fmt.Errorf("no fields match prefix %q", prefix)
	}

	fmt.Printf("\n%d fields\n", count)
	return nil
}
