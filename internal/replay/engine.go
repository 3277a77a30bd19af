package replay

import (
	"context"
	"fmt"
	"time"

	"github.com/pitquant/fundcore/internal/fundamental"
	"github.com/pitquant/fundcore/pkg/logger"
)

// Engine replays a historical timeline against the resolver: it steps
// day by day, asking at each step what was publicly known, exactly the
// way a sequential backtest consumes fundamentals. Useful both as a
// warm-up pass and as a lookahead audit before a strategy run.
type Engine struct {
	resolver *fundamental.Resolver
	logger   *logger.Logger
}

// Config holds replay configuration
type Config struct {
	StartDate  time.Time
	EndDate    time.Time
	Securities []fundamental.SecurityID
	Fields     []string // dotted paths; empty means the whole catalog
	StepDays   int      // timeline step, default 1
}

// Result holds replay results
type Result struct {
	Config      Config
	Duration    time.Duration
	Steps       int
	TradingDays int

	// Query metrics
	Queries       int
	Hits          int     // queries that returned a value
	Absent        int     // queries with nothing filed yet
	Errors        int
	CacheHitRate  float64
	QueriesPerSec float64

	// Coverage: fraction of (security, field) pairs visible by the
	// final step
	FinalCoverage float64
}

// NewEngine creates a new replay engine
func NewEngine(resolver *fundamental.Resolver, log *logger.Logger) *Engine {
	return &Engine{
		resolver: resolver,
		logger:   log,
	}
}

// Run executes a replay over the configured timeline
func (e *Engine) Run(ctx context.Context, config Config) (*Result, error) {
	if config.EndDate.Before(config.StartDate) {
		return nil, fmt.Errorf("end date %s before start date %s",
			config.EndDate.Format("2006-01-02"), config.StartDate.Format("2006-01-02"))
	}
	if len(config.Securities) == 0 {
		return nil, fmt.Errorf("no securities to replay")
	}
	if config.StepDays <= 0 {
		config.StepDays = 1
	}

	fields := config.Fields
	if len(fields) == 0 {
		for _, f := range e.resolver.Registry().List() {
			fields = append(fields, f.Path)
		}
	}

	e.logger.WithFields(map[string]interface{}{
		"start_date": config.StartDate.Format("2006-01-02"),
		"end_date":   config.EndDate.Format("2006-01-02"),
		"securities": len(config.Securities),
		"fields":     len(fields),
	}).Info("Starting replay")

	startTime := time.Now()
	statsBefore := e.resolver.CacheStats()

	result := &Result{Config: config}

	var lastDay time.Time
	for day := config.StartDate; !day.After(config.EndDate); day = day.AddDate(0, 0, config.StepDays) {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		result.Steps++
		if wd := day.Weekday(); wd != time.Saturday && wd != time.Sunday {
			result.TradingDays++
		}
		lastDay = day

		for _, sec := range config.Securities {
			for _, path := range fields {
				_, ok, err := e.resolver.Get(day, sec, path)
				result.Queries++
				switch {
				case err != nil:
					result.Errors++
				case ok:
					result.Hits++
				default:
					result.Absent++
				}
			}
		}
	}

	result.Duration = time.Since(startTime)
	if secs := result.Duration.Seconds(); secs > 0 {
		result.QueriesPerSec = float64(result.Queries) / secs
	}

	statsAfter := e.resolver.CacheStats()
	if lookups := (statsAfter.Hits - statsBefore.Hits) + (statsAfter.Misses - statsBefore.Misses); lookups > 0 {
		result.CacheHitRate = float64(statsAfter.Hits-statsBefore.Hits) / float64(lookups)
	}

	if !lastDay.IsZero() {
		result.FinalCoverage = e.coverage(lastDay, config.Securities, fields)
	}

	e.logger.WithFields(map[string]interface{}{
		"duration":       result.Duration.Seconds(),
		"steps":          result.Steps,
		"queries":        result.Queries,
		"hits":           result.Hits,
		"absent":         result.Absent,
		"cache_hit_rate": fmt.Sprintf("%.2f", result.CacheHitRate),
		"coverage":       fmt.Sprintf("%.2f", result.FinalCoverage),
	}).Info("Replay completed")

	return result, nil
}

// coverage computes the fraction of (security, field) pairs with a
// visible value at time t
func (e *Engine) coverage(t time.Time, securities []fundamental.SecurityID, fields []string) float64 {
	total := len(securities) * len(fields)
	if total == 0 {
		return 0
	}

	visible := 0
	for _, sec := range securities {
		for _, path := range fields {
			if _, ok, err := e.resolver.Get(t, sec, path); err == nil && ok {
				visible++
			}
		}
	}
	return float64(visible) / float64(total)
}
