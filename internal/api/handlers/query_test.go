package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitquant/fundcore/internal/fundamental"
	"github.com/pitquant/fundcore/internal/scheduler"
	"github.com/pitquant/fundcore/pkg/logger"
)

const netIncomePath = "FinancialStatements.IncomeStatement.NetIncome"

type noopJob struct{}

func (noopJob) Name() string                  { return "filing_refresh" }
func (noopJob) Schedule() string              { return "0 30 6 * * MON-FRI" }
func (noopJob) Run(ctx context.Context) error { return nil }

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()

	registry := fundamental.NewRegistry()
	store := fundamental.NewStore()

	field, err := registry.Resolve(netIncomePath)
	require.NoError(t, err)

	eff := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
	filed := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Append("AAPL", field.ID,
		fundamental.Entry{EffectiveTime: eff, FiledTime: filed, Value: fundamental.Currency(1000)}))
	store.Freeze()

	resolver := fundamental.NewResolver(registry, store, fundamental.NewCache(64), logger.NewNop())

	sched := scheduler.New(logger.NewNop())
	require.NoError(t, sched.AddJob(noopJob{}))

	fieldsHandler := NewFieldsHandler(registry, logger.NewNop())
	queryHandler := NewQueryHandler(resolver, store, logger.NewNop())
	statusHandler := NewStatusHandler(resolver, store, sched, logger.NewNop())

	r := mux.NewRouter()
	r.HandleFunc("/api/fields", fieldsHandler.List).Methods("GET")
	r.HandleFunc("/api/fields/{path}", fieldsHandler.Get).Methods("GET")
	r.HandleFunc("/api/securities", queryHandler.ListSecurities).Methods("GET")
	r.HandleFunc("/api/securities/{id}/fields/{path}", queryHandler.GetField).Methods("GET")
	r.HandleFunc("/api/status", statusHandler.Get).Methods("GET")
	r.HandleFunc("/api/jobs/{name}/run", statusHandler.RunJob).Methods("POST")
	return r
}

func doRequest(t *testing.T, router *mux.Router, url string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGetFieldVisible(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, "/api/securities/AAPL/fields/"+netIncomePath+"?at=2024-03-01T00:00:00Z")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Security string `json:"security"`
		Path     string `json:"path"`
		Value    struct {
			Kind  string  `json:"kind"`
			Value float64 `json:"value"`
		} `json:"value"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "AAPL", resp.Security)
	assert.Equal(t, netIncomePath, resp.Path)
	assert.Equal(t, "currency", resp.Value.Kind)
	assert.Equal(t, float64(1000), resp.Value.Value)
}

func TestGetFieldNotYetFiled(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, "/api/securities/AAPL/fields/"+netIncomePath+"?at=2024-01-15T00:00:00Z")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestGetFieldUnknownSecurity(t *testing.T) {
	router := newTestRouter(t)

	// Unknown security is absence, not an error
	rec := doRequest(t, router, "/api/securities/TSLA/fields/"+netIncomePath+"?at=2024-03-01T00:00:00Z")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestGetFieldBadRequests(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, "/api/securities/AAPL/fields/No.Such.Field?at=2024-03-01T00:00:00Z")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, "/api/securities/AAPL/fields/"+netIncomePath+"?at=not-a-time")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListFields(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, "/api/fields")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Count  int             `json:"count"`
		Fields []FieldResponse `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Greater(t, resp.Count, 70)
	assert.Equal(t, resp.Count, len(resp.Fields))
	assert.NotEmpty(t, resp.Fields[0].Path)
	assert.NotEmpty(t, resp.Fields[0].Kind)
}

func TestGetFieldCatalogEntry(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, "/api/fields/"+netIncomePath)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp FieldResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, netIncomePath, resp.Path)
	assert.Equal(t, "currency", resp.Kind)

	rec = doRequest(t, router, "/api/fields/No.Such.Field")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListSecurities(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, "/api/securities")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Count      int      `json:"count"`
		Securities []string `json:"securities"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, []string{"AAPL"}, resp.Securities)
}

func TestStatus(t *testing.T) {
	router := newTestRouter(t)

	// Prime the cache with one query
	doRequest(t, router, "/api/securities/AAPL/fields/"+netIncomePath+"?at=2024-03-01T00:00:00Z")

	rec := doRequest(t, router, "/api/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Frozen bool `json:"frozen"`
		Store  struct {
			Securities int `json:"securities"`
			Entries    int `json:"entries"`
		} `json:"store"`
		Cache struct {
			Entries int `json:"entries"`
		} `json:"cache"`
		Jobs map[string]JobStatus `json:"jobs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Frozen)
	assert.Equal(t, 1, resp.Store.Securities)
	assert.Equal(t, 1, resp.Store.Entries)
	assert.Equal(t, 1, resp.Cache.Entries)

	// Registered jobs appear even before their first run
	require.Contains(t, resp.Jobs, "filing_refresh")
	assert.Equal(t, 0, resp.Jobs["filing_refresh"].Runs)
}

func TestRunJobEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/jobs/filing_refresh/run", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/jobs/no_such_job/run", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
