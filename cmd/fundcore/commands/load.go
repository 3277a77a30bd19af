package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pitquant/fundcore/internal/fundamental"
	"github.com/pitquant/fundcore/internal/ingest"
	"github.com/pitquant/fundcore/internal/ingest/edgar"
	"github.com/pitquant/fundcore/pkg/config"
	"github.com/pitquant/fundcore/pkg/database"
	"github.com/pitquant/fundcore/pkg/httputil"
	"github.com/pitquant/fundcore/pkg/logger"
	"github.com/pitquant/fundcore/pkg/redis"
)

// loadCmd represents the load command
var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Discover filings from EDGAR",
	Long: `Walks the EDGAR daily indexes over a date range and lists the
periodic reports filed. With --save, filing metadata (form type and
file date, keyed by CIK) is persisted; statement values arrive from
the extraction pipeline separately.

EDGAR requires an identifying User-Agent (EDGAR_USER_AGENT) and
enforces a per-requester rate limit; requests are throttled locally
and, when Redis is enabled, across processes.

Example:
  go run ./cmd/fundcore load --from 2024-02-01 --to 2024-02-07
  go run ./cmd/fundcore load --from 2024-02-01 --to 2024-02-07 --save`,
	RunE: runLoad,
}

var (
	loadFrom string
	loadTo   string
	loadSave bool
)

func init() {
	rootCmd.AddCommand(loadCmd)

	loadCmd.Flags().StringVar(&loadFrom, "from", "", "range start, YYYY-MM-DD (required)")
	loadCmd.Flags().StringVar(&loadTo, "to", "", "range end, YYYY-MM-DD (required)")
	loadCmd.Flags().BoolVar(&loadSave, "save", false, "persist filing metadata records")

	loadCmd.MarkFlagRequired("from")
	loadCmd.MarkFlagRequired("to")
}

func runLoad(cmd *cobra.Command, args []string) error {
	from, err := parseQueryTime(loadFrom)
	if err != nil {
		return err
	}
	to, err := parseQueryTime(loadTo)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	// Redis is optional; without it the index cache and the shared
	// limiter degrade to no-ops
	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	httpClient := httputil.New(log).
		WithUserAgent(cfg.EDGAR.UserAgent).
		WithLocalLimit(cfg.EDGAR.RatePerSec, cfg.EDGAR.Burst)
	if redisClient.Enabled() {
		httpClient = httpClient.WithRateLimiter(
			redis.NewRateLimiter(redisClient, "fundcore"), redis.EDGARRateLimit)
	}

	cache := redis.NewCache(redisClient, "fundcore")
	client := edgar.NewClient(httpClient, cache, log, cfg.EDGAR.BaseURL)

	refs, err := client.FetchIndexRange(cmd.Context(), from, to)
	if err != nil {
		return fmt.Errorf("fetch EDGAR indexes: %w", err)
	}

	for _, ref := range refs {
		fmt.Printf("%-12s %-8s %s  %s\n", ref.CIK, ref.FormType, ref.FiledDate.Format("2006-01-02"), ref.Company)
	}
	fmt.Printf("\n%d filings between %s and %s\n", len(refs),
		from.Format("2006-01-02"), to.Format("2006-01-02"))

	if !loadSave {
		return nil
	}

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	records, err := filingRecords(refs)
	if err != nil {
		return err
	}

	repo := ingest.NewRepository(db.Pool)
	if err := repo.SaveBatch(cmd.Context(), records); err != nil {
		return fmt.Errorf("save filing metadata: %w", err)
	}

	fmt.Printf("Saved %d metadata records\n", len(records))
	return nil
}

// filingRecords converts discovered filings into persistable metadata
// records: the form type and file date become point-in-time facts in
// their own right, visible from the filing date.
func filingRecords(refs []edgar.FilingRef) ([]ingest.Record, error) {
	registry := fundamental.NewRegistry()

	formField, err := registry.Resolve("FinancialStatements.FormType")
	if err != nil {
		return nil, err
	}
	fileDateField, err := registry.Resolve("FinancialStatements.FileDate")
	if err != nil {
		return nil, err
	}

	var records []ingest.Record
	for _, ref := range refs {
		formKind, _, formText, _, err := ingest.EncodeValue(fundamental.Enum(ref.FormType))
		if err != nil {
			return nil, err
		}
		records = append(records, ingest.Record{
			Security:      ref.CIK,
			FieldCode:     uint32(formField.ID),
			EffectiveDate: ref.FiledDate,
			FiledDate:     ref.FiledDate,
			Kind:          formKind,
			TextValue:     formText,
		})

		dateKind, _, _, dateVal, err := ingest.EncodeValue(fundamental.Date(ref.FiledDate))
		if err != nil {
			return nil, err
		}
		records = append(records, ingest.Record{
			Security:      ref.CIK,
			FieldCode:     uint32(fileDateField.ID),
			EffectiveDate: ref.FiledDate,
			FiledDate:     ref.FiledDate,
			Kind:          dateKind,
			DateValue:     dateVal,
		})
	}

	return records, nil
}
