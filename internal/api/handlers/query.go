package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/pitquant/fundcore/internal/fundamental"
	"github.com/pitquant/fundcore/pkg/logger"
)

// QueryHandler serves point-in-time field queries
type QueryHandler struct {
	resolver *fundamental.Resolver
	store    *fundamental.Store
	logger   *logger.Logger
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(resolver *fundamental.Resolver, store *fundamental.Store, log *logger.Logger) *QueryHandler {
	return &QueryHandler{
		resolver: resolver,
		store:    store,
		logger:   log,
	}
}

// QueryResponse represents a resolved field value
type QueryResponse struct {
	Security string            `json:"security"`
	Path     string            `json:"path"`
	At       string            `json:"at"`
	Value    fundamental.Value `json:"value"`
}

// GetField resolves one field for one security as known at a time
// GET /api/securities/{id}/fields/{path}?at=2024-03-01T00:00:00Z
func (h *QueryHandler) GetField(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	security := vars["id"]
	path := vars["path"]

	// Default to now: "what is known today"
	at := time.Now().UTC()
	if atStr := r.URL.Query().Get("at"); atStr != "" {
		parsed, err := time.Parse(time.RFC3339, atStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, "at must be RFC3339")
			return
		}
		at = parsed
	}

	value, ok, err := h.resolver.Get(at, fundamental.SecurityID(security), path)
	if err != nil {
		if errors.Is(err, fundamental.ErrUnknownField) {
			respondError(w, http.StatusBadRequest, "unknown field path")
			return
		}
		h.logger.WithError(err).WithFields(map[string]interface{}{
			"security": security,
			"path":     path,
		}).Error("Failed to resolve field")
		respondError(w, http.StatusInternalServerError, "Failed to resolve field")
		return
	}

	// Nothing filed by the query time: absence, not an error
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	respondJSON(w, http.StatusOK, QueryResponse{
		Security: security,
		Path:     path,
		At:       at.Format(time.RFC3339),
		Value:    value,
	})
}

// ListSecurities returns the securities present in the store
// GET /api/securities
func (h *QueryHandler) ListSecurities(w http.ResponseWriter, r *http.Request) {
	secs := h.store.Securities()

	result := make([]string, len(secs))
	for i, s := range secs {
		result[i] = string(s)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":      len(result),
		"securities": result,
	})
}
