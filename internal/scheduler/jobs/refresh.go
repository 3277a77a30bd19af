package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pitquant/fundcore/internal/api"
	"github.com/pitquant/fundcore/internal/fundamental"
	"github.com/pitquant/fundcore/internal/ingest"
	"github.com/pitquant/fundcore/pkg/logger"
)

// RefreshJob pulls newly filed records into the live store. The store
// stays unfrozen in serve mode; appends happen under its write lock so
// in-flight queries are never torn.
type RefreshJob struct {
	loader   *ingest.Loader
	cache    *fundamental.Cache
	hub      *api.Hub
	schedule string
	logger   *logger.Logger

	mu        sync.Mutex
	watermark time.Time
}

// NewRefreshJob creates a new refresh job. The watermark is the filed
// date up to which storage has already been loaded.
func NewRefreshJob(loader *ingest.Loader, cache *fundamental.Cache, hub *api.Hub, schedule string, watermark time.Time, log *logger.Logger) *RefreshJob {
	return &RefreshJob{
		loader:    loader,
		cache:     cache,
		hub:       hub,
		schedule:  schedule,
		watermark: watermark,
		logger:    log,
	}
}

// Name returns the job name
func (j *RefreshJob) Name() string {
	return "filing_refresh"
}

// Schedule returns the cron schedule expression
func (j *RefreshJob) Schedule() string {
	return j.schedule
}

// Run executes one refresh pass
func (j *RefreshJob) Run(ctx context.Context) error {
	j.mu.Lock()
	since := j.watermark
	j.mu.Unlock()

	res, err := j.loader.LoadSince(ctx, since)
	if err != nil {
		return fmt.Errorf("refresh load: %w", err)
	}

	if res.Loaded == 0 {
		j.logger.Debug("Refresh pass found no new filings")
		return nil
	}

	// Results memoized before this pass may predate the new filings;
	// drop them all rather than track which keys are affected.
	j.cache.Purge()

	// The watermark tracks filed dates, not wall-clock time: the
	// ingestion pipeline may persist a filing after the pass that
	// would otherwise have covered it.
	j.mu.Lock()
	if res.MaxFiledDate.After(j.watermark) {
		j.watermark = res.MaxFiledDate
	}
	j.mu.Unlock()

	j.hub.Publish(api.FilingEvent{
		Type:       "filings_refreshed",
		Securities: res.Securities,
		Entries:    res.Loaded,
		RefreshAt:  time.Now().UTC(),
	})

	j.logger.WithFields(map[string]interface{}{
		"loaded":     res.Loaded,
		"skipped":    res.Skipped,
		"securities": len(res.Securities),
		"watermark":  res.MaxFiledDate,
	}).Info("Filing refresh completed")

	return nil
}
