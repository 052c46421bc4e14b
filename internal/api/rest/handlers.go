package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/fortuna/pythia/internal/cache"
	"github.com/fortuna/pythia/internal/projection"
)

// Handler contains dependencies for HTTP handlers
type Handler struct {
	cache     *cache.RedisCache
	runner    *projection.Runner
	onRefresh func(*projection.Result)
}

// NewHandler creates a new handler
func NewHandler(rc *cache.RedisCache, runner *projection.Runner, onRefresh func(*projection.Result)) *Handler {
	return &Handler{
		cache:     rc,
		runner:    runner,
		onRefresh: onRefresh,
	}
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "pythia",
		"version": "1.0.0",
	})
}

// GetProjections returns the latest completed projection run
func (h *Handler) GetProjections(w http.ResponseWriter, r *http.Request) {
	result, err := h.latestRun(r)
	if err != nil {
		respondError(w, http.StatusNotFound, "No projection run available yet", err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetMatchups returns the target date's games from the latest run
func (h *Handler) GetMatchups(w http.ResponseWriter, r *http.Request) {
	result, err := h.latestRun(r)
	if err != nil {
		respondError(w, http.StatusNotFound, "No projection run available yet", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"target_date": result.TargetDate,
		"matchups":    result.Matchups,
	})
}

// RefreshProjections re-runs the pipeline, optionally for an explicit
// ?date=YYYY-MM-DD, and returns the fresh result
func (h *Handler) RefreshProjections(w http.ResponseWriter, r *http.Request) {
	target := time.Now()
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
			return
		}
		target = parsed
	}

	result, err := h.runner.RunFor(r.Context(), target)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Projection run failed", err)
		return
	}

	if h.onRefresh != nil {
		h.onRefresh(result)
	}

	respondJSON(w, http.StatusOK, result)
}

// latestRun fetches the most recent run from the cache.
func (h *Handler) latestRun(r *http.Request) (*projection.Result, error) {
	if h.cache == nil {
		return nil, errors.New("cache not configured")
	}

	var result projection.Result
	if err := h.cache.GetJSON(r.Context(), cache.KeyLatestRun, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	json.NewEncoder(w).Encode(response)
}
