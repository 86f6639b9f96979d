// Package report writes the training-run artifacts: a machine-readable
// results summary, a human-readable markdown report, and an optional row in
// the Postgres training-run registry.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/riftstats/predict-api/internal/models"
)

// Summary aggregates the evaluation of one full training run.
type Summary struct {
	GeneratedAt     time.Time                 `json:"generated_at"`
	MatchesUsed     int                       `json:"matches_used"`
	DraftsUsed      int                       `json:"drafts_used"`
	ProfiledChamps  int                       `json:"profiled_champions"`
	SynergyPairs    int                       `json:"synergy_pairs"`
	MatchPrediction *models.ClassifierMetrics `json:"match_prediction,omitempty"`
	Duration        *models.RegressionMetrics `json:"duration_prediction,omitempty"`
	DraftPrediction *models.ClassifierMetrics `json:"draft_prediction,omitempty"`
}

// WriteSummaryJSON writes results_summary.json into dir.
func WriteSummaryJSON(dir string, s *Summary) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("report: create %s: %w", dir, err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("report: marshal summary: %w", err)
	}
	path := filepath.Join(dir, "results_summary.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	return nil
}

// ReadSummaryJSON loads the last run's summary, if any.
func ReadSummaryJSON(dir string) (*Summary, error) {
	data, err := os.ReadFile(filepath.Join(dir, "results_summary.json"))
	if err != nil {
		return nil, err
	}
	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("report: parse summary: %w", err)
	}
	return &s, nil
}

// WriteMarkdownReport writes ML_REPORT.md into dir: one section per model
// with a metric table and the top ten feature importances.
func WriteMarkdownReport(dir string, s *Summary) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("report: create %s: %w", dir, err)
	}

	var b strings.Builder
	b.WriteString("# Prediction Models: Evaluation Report\n\n")
	fmt.Fprintf(&b, "**Generated:** %s\n\n", s.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Trained on %d matches and %d complete drafts; %d champions profiled, %d synergy pairs.\n\n",
		s.MatchesUsed, s.DraftsUsed, s.ProfiledChamps, s.SynergyPairs)

	if m := s.MatchPrediction; m != nil {
		b.WriteString("## 1. Match Outcome (Random Forest Classifier)\n\n")
		writeClassifierTable(&b, m)
	}

	if m := s.Duration; m != nil {
		b.WriteString("## 2. Game Duration (Random Forest Regressor)\n\n")
		b.WriteString("| Metric | Score |\n|--------|-------|\n")
		fmt.Fprintf(&b, "| Test RMSE | %.4f min |\n", m.TestRMSE)
		fmt.Fprintf(&b, "| Test MAE | %.4f min |\n", m.TestMAE)
		fmt.Fprintf(&b, "| Test R2 | %.4f |\n", m.TestR2)
		fmt.Fprintf(&b, "| Test MAPE | %.2f%% |\n", m.TestMAPE*100)
		fmt.Fprintf(&b, "| Baseline RMSE (OLS) | %.4f min |\n", m.BaselineRMSE)
		fmt.Fprintf(&b, "| Improvement over baseline | %.2f%% |\n", m.ImprovementPct)
		fmt.Fprintf(&b, "| CV RMSE | %.4f (+/- %.4f) |\n\n", m.CVRMSEMean, m.CVRMSEStd)
		writeImportanceTable(&b, m.FeatureImportance)
	}

	if m := s.DraftPrediction; m != nil {
		b.WriteString("## 3. Draft Outcome (Gradient Boosted Classifier)\n\n")
		writeClassifierTable(&b, m)
	}

	path := filepath.Join(dir, "ML_REPORT.md")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	return nil
}

func writeClassifierTable(b *strings.Builder, m *models.ClassifierMetrics) {
	b.WriteString("| Metric | Score |\n|--------|-------|\n")
	fmt.Fprintf(b, "| Test Accuracy | %.4f |\n", m.TestAccuracy)
	fmt.Fprintf(b, "| Precision | %.4f |\n", m.Precision)
	fmt.Fprintf(b, "| Recall | %.4f |\n", m.Recall)
	fmt.Fprintf(b, "| F1-Score | %.4f |\n", m.F1Score)
	fmt.Fprintf(b, "| ROC-AUC | %.4f |\n", m.ROCAUC)
	fmt.Fprintf(b, "| CV Accuracy | %.4f (+/- %.4f) |\n\n", m.CVAccuracy, m.CVStd)
	fmt.Fprintf(b, "Confusion matrix (rows actual, cols predicted): `[[%d %d] [%d %d]]`\n\n",
		m.ConfusionMatrix[0][0], m.ConfusionMatrix[0][1],
		m.ConfusionMatrix[1][0], m.ConfusionMatrix[1][1])
	writeImportanceTable(b, m.FeatureImportance)
}

func writeImportanceTable(b *strings.Builder, importance map[string]float64) {
	if len(importance) == 0 {
		return
	}
	type entry struct {
		name  string
		value float64
	}
	entries := make([]entry, 0, len(importance))
	for name, v := range importance {
		entries = append(entries, entry{name, v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].value != entries[j].value {
			return entries[i].value > entries[j].value
		}
		return entries[i].name < entries[j].name
	})
	if len(entries) > 10 {
		entries = entries[:10]
	}

	b.WriteString("### Top Features\n\n| Feature | Importance |\n|---------|------------|\n")
	for _, e := range entries {
		fmt.Fprintf(b, "| %s | %.4f |\n", e.name, e.value)
	}
	b.WriteString("\n")
}
