package handlers

import (
	"net/http"

	"github.com/riftstats/predict-api/internal/models"
)

type modelInfo struct {
	Available bool        `json:"available"`
	Metrics   interface{} `json:"metrics,omitempty"`
}

// ModelsInfo reports which models are loaded and their headline metrics
// from the last training run.
func (h *Handler) ModelsInfo(w http.ResponseWriter, r *http.Request) {
	info := map[string]modelInfo{
		"match_prediction":    classifierInfo(h.match != nil && h.match.Trained(), metricsOf(h.match)),
		"duration_prediction": regressorInfo(h.duration != nil && h.duration.Trained(), durationMetricsOf(h.duration)),
		"draft_prediction":    classifierInfo(h.draft != nil && h.draft.Trained(), metricsOf(h.draft)),
	}
	h.jsonResponse(w, http.StatusOK, info)
}

type classifierHolder interface {
	Metrics() *models.ClassifierMetrics
}

func metricsOf(m classifierHolder) *models.ClassifierMetrics {
	if m == nil {
		return nil
	}
	return m.Metrics()
}

func durationMetricsOf(m DurationModel) *models.RegressionMetrics {
	if m == nil {
		return nil
	}
	return m.Metrics()
}

func classifierInfo(available bool, m *models.ClassifierMetrics) modelInfo {
	info := modelInfo{Available: available}
	if m != nil {
		info.Metrics = map[string]float64{
			"test_accuracy": m.TestAccuracy,
			"roc_auc":       m.ROCAUC,
			"cv_accuracy":   m.CVAccuracy,
		}
	}
	return info
}

func regressorInfo(available bool, m *models.RegressionMetrics) modelInfo {
	info := modelInfo{Available: available}
	if m != nil {
		info.Metrics = map[string]float64{
			"test_rmse":       m.TestRMSE,
			"test_r2":         m.TestR2,
			"improvement_pct": m.ImprovementPct,
		}
	}
	return info
}
