package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pitquant/fundcore/internal/fundamental"
	"github.com/pitquant/fundcore/pkg/logger"
)

// FieldsHandler serves the field catalog
type FieldsHandler struct {
	registry *fundamental.Registry
	logger   *logger.Logger
}

// NewFieldsHandler creates a new fields handler
func NewFieldsHandler(registry *fundamental.Registry, log *logger.Logger) *FieldsHandler {
	return &FieldsHandler{
		registry: registry,
		logger:   log,
	}
}

// FieldResponse represents one catalog field for API responses
type FieldResponse struct {
	Code        uint32 `json:"code"`
	Path        string `json:"path"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
}

func toFieldResponse(f fundamental.Field) FieldResponse {
	return FieldResponse{
		Code:        uint32(f.ID),
		Path:        f.Path,
		Kind:        f.Kind.String(),
		Description: f.Description,
	}
}

// List returns the full field catalog
// GET /api/fields
func (h *FieldsHandler) List(w http.ResponseWriter, r *http.Request) {
	fields := h.registry.List()

	result := make([]FieldResponse, len(fields))
	for i, f := range fields {
		result[i] = toFieldResponse(f)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(result),
		"fields": result,
	})
}

// Get returns one catalog field by its dotted path
// GET /api/fields/{path}
func (h *FieldsHandler) Get(w http.ResponseWriter, r *http.Request) {
	path := mux.Vars(r)["path"]

	field, err := h.registry.Resolve(path)
	if err != nil {
		if errors.Is(err, fundamental.ErrUnknownField) {
			respondError(w, http.StatusNotFound, "unknown field path")
			return
		}
		h.logger.WithError(err).Error("Failed to resolve field")
		respondError(w, http.StatusInternalServerError, "Failed to resolve field")
		return
	}

	respondJSON(w, http.StatusOK, toFieldResponse(field))
}
