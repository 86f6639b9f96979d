package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/riftstats/predict-api/internal/predict"
)

type featuresRequest struct {
	Features []float64 `json:"features" validate:"required,min=1"`
}

type draftRequest struct {
	BlueTeam []string `json:"blue_team" validate:"required,len=5,dive,required"`
	RedTeam  []string `json:"red_team" validate:"required,len=5,dive,required"`
}

// PredictMatch scores a finished match's feature vector and returns the
// favored side with its win probability.
func (h *Handler) PredictMatch(w http.ResponseWriter, r *http.Request) {
	predictionRequests.WithLabelValues("match").Inc()

	var req featuresRequest
	if !h.decode(w, r, &req) {
		predictionErrors.WithLabelValues("match").Inc()
		return
	}

	proba, err := h.match.PredictProba(req.Features)
	if err != nil {
		predictionErrors.WithLabelValues("match").Inc()
		h.modelError(w, "match", err)
		return
	}

	winner := "Red Team"
	predicted := 0
	if proba >= 0.5 {
		winner = "Blue Team"
		predicted = 1
	}
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"prediction":      winner,
		"predicted_value": predicted,
		"probabilities": map[string]float64{
			"blue_team": proba,
			"red_team":  1 - proba,
		},
	})
}

// PredictDuration estimates game length in minutes.
func (h *Handler) PredictDuration(w http.ResponseWriter, r *http.Request) {
	predictionRequests.WithLabelValues("duration").Inc()

	var req featuresRequest
	if !h.decode(w, r, &req) {
		predictionErrors.WithLabelValues("duration").Inc()
		return
	}

	minutes, err := h.duration.Predict(req.Features)
	if err != nil {
		predictionErrors.WithLabelValues("duration").Inc()
		h.modelError(w, "duration", err)
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"predicted_duration_minutes": minutes,
		"predicted_duration_seconds": minutes * 60,
	})
}

// PredictDraft scores a pending draft from champion names only. Responses
// are cached briefly since identical drafts recur during pick phase.
func (h *Handler) PredictDraft(w http.ResponseWriter, r *http.Request) {
	predictionRequests.WithLabelValues("draft").Inc()

	var req draftRequest
	if !h.decode(w, r, &req) {
		predictionErrors.WithLabelValues("draft").Inc()
		return
	}

	ctx := r.Context()
	key := draftCacheKey(req.BlueTeam, req.RedTeam)
	if h.redis != nil {
		if cached, err := h.redis.Get(ctx, key).Result(); err == nil {
			cacheHits.Inc()
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(cached))
			return
		} else if !errors.Is(err, redis.Nil) {
			h.logger.Warnw("Draft cache read failed", "error", err)
		}
	}

	pred, err := h.draft.PredictDraft(req.BlueTeam, req.RedTeam)
	if err != nil {
		predictionErrors.WithLabelValues("draft").Inc()
		h.modelError(w, "draft", err)
		return
	}

	if h.redis != nil {
		if body, err := json.Marshal(pred); err == nil {
			if err := h.redis.Set(ctx, key, body, h.cacheTTL).Err(); err != nil {
				h.logger.Warnw("Draft cache write failed", "error", err)
			}
		}
	}
	h.jsonResponse(w, http.StatusOK, pred)
}

// decode reads, parses, and validates a JSON body. It writes the error
// response itself and reports whether the request survived.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	if err := h.validator.Struct(v); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return false
	}
	return true
}

// modelError maps estimator sentinels to HTTP statuses.
func (h *Handler) modelError(w http.ResponseWriter, model string, err error) {
	switch {
	case errors.Is(err, predict.ErrNotTrained):
		h.errorResponse(w, http.StatusServiceUnavailable, "Model not trained")
	case errors.Is(err, predict.ErrRosterSize):
		h.errorResponse(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Errorw("Prediction failed", "model", model, "error", err)
		h.errorResponse(w, http.StatusBadRequest, err.Error())
	}
}

func draftCacheKey(blue, red []string) string {
	h := sha256.New()
	h.Write([]byte(strings.Join(blue, ",")))
	h.Write([]byte{'|'})
	h.Write([]byte(strings.Join(red, ",")))
	return "draft_prediction:" + hex.EncodeToString(h.Sum(nil))[:32]
}
