package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pitquant/fundcore/internal/fundamental"
	"github.com/pitquant/fundcore/internal/scheduler"
	"github.com/pitquant/fundcore/pkg/logger"
)

// StatusHandler serves engine diagnostics
type StatusHandler struct {
	resolver *fundamental.Resolver
	store    *fundamental.Store
	sched    *scheduler.Scheduler
	logger   *logger.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(resolver *fundamental.Resolver, store *fundamental.Store, sched *scheduler.Scheduler, log *logger.Logger) *StatusHandler {
	return &StatusHandler{
		resolver: resolver,
		store:    store,
		sched:    sched,
		logger:   log,
	}
}

// JobStatus summarizes one scheduled job for the status response
type JobStatus struct {
	Runs        int                  `json:"runs"`
	SuccessRate float64              `json:"success_rate"`
	LastRun     *scheduler.JobResult `json:"last_run,omitempty"`
}

// Get returns store, cache and scheduled-job statistics
// GET /api/status
func (h *StatusHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"store":  h.store.Stats(),
		"cache":  h.resolver.CacheStats(),
		"frozen": h.store.Frozen(),
		"jobs":   h.jobStatuses(),
	})
}

// RunJob triggers a scheduled job outside its schedule
// POST /api/jobs/{name}/run
func (h *StatusHandler) RunJob(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	if err := h.sched.RunJob(name); err != nil {
		respondError(w, http.StatusNotFound, "unknown job: "+name)
		return
	}

	h.logger.WithField("job", name).Info("Manual job run requested")
	respondJSON(w, http.StatusAccepted, map[string]string{
		"job":    name,
		"status": "started",
	})
}

func (h *StatusHandler) jobStatuses() map[string]JobStatus {
	statuses := make(map[string]JobStatus)
	for _, name := range h.sched.Jobs() {
		history, err := h.sched.History(name)
		if err != nil {
			continue
		}

		status := JobStatus{
			Runs:        len(history.Results),
			SuccessRate: history.SuccessRate(),
		}
		if latest := history.LatestResults(1); len(latest) == 1 {
			status.LastRun = &latest[0]
		}
		statuses[name] = status
	}
	return statuses
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
