package handlers

import (
	"encoding/json"
	"net/http"
	"time"
)

// Health check endpoint
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// Ready reports whether the estimators can serve.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	checks := map[string]bool{
		"match_model":    h.match != nil && h.match.Trained(),
		"duration_model": h.duration != nil && h.duration.Trained(),
		"draft_model":    h.draft != nil && h.draft.Trained(),
	}

	allReady := true
	for _, ok := range checks {
		if !ok {
			allReady = false
			break
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if !allReady {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"ready":  allReady,
		"checks": checks,
	})
}

func (h *Handler) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) errorResponse(w http.ResponseWriter, status int, message string) {
	h.jsonResponse(w, status, map[string]string{"error": message})
}
