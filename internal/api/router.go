package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/pitquant/fundcore/internal/api/handlers"
	"github.com/pitquant/fundcore/pkg/logger"
)

// NewRouter creates and configures the HTTP router
func NewRouter(fieldsHandler *handlers.FieldsHandler, queryHandler *handlers.QueryHandler, statusHandler *handlers.StatusHandler, hub *Hub, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// Filing event stream
	r.HandleFunc("/ws/filings", hub.ServeWS).Methods("GET")

	// API v1
	api := r.PathPrefix("/api").Subrouter()

	// Field catalog
	api.HandleFunc("/fields", fieldsHandler.List).Methods("GET")
	api.HandleFunc("/fields/{path}", fieldsHandler.Get).Methods("GET")

	// Point-in-time queries
	api.HandleFunc("/securities", queryHandler.ListSecurities).Methods("GET")
	api.HandleFunc("/securities/{id}/fields/{path}", queryHandler.GetField).Methods("GET")

	// Diagnostics and job control
	api.HandleFunc("/status", statusHandler.Get).Methods("GET")
	api.HandleFunc("/jobs/{name}/run", statusHandler.RunJob).Methods("POST")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "fundcore-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
