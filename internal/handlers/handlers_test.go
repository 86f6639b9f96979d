package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/riftstats/predict-api/internal/models"
	"github.com/riftstats/predict-api/internal/predict"
)

// MockMatchModel implements MatchModel for testing
type MockMatchModel struct {
	TrainedVal bool
	ProbaVal   float64
	Err        error
}

func (m *MockMatchModel) Trained() bool { return m.TrainedVal }
func (m *MockMatchModel) Predict(features []float64) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	if m.ProbaVal >= 0.5 {
		return 1, nil
	}
	return 0, nil
}
func (m *MockMatchModel) PredictProba(features []float64) (float64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return m.ProbaVal, nil
}
func (m *MockMatchModel) Metrics() *models.ClassifierMetrics {
	return &models.ClassifierMetrics{TestAccuracy: 0.9}
}

// MockDurationModel implements DurationModel for testing
type MockDurationModel struct {
	TrainedVal bool
	Minutes    float64
	Err        error
}

func (m *MockDurationModel) Trained() bool { return m.TrainedVal }
func (m *MockDurationModel) Predict(features []float64) (float64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return m.Minutes, nil
}
func (m *MockDurationModel) Metrics() *models.RegressionMetrics {
	return &models.RegressionMetrics{TestRMSE: 2.2}
}

// MockDraftModel implements DraftModel for testing
type MockDraftModel struct {
	TrainedVal bool
	Result     *models.DraftPrediction
	Err        error
	Calls      int
}

func (m *MockDraftModel) Trained() bool { return m.TrainedVal }
func (m *MockDraftModel) PredictDraft(blue, red []string) (*models.DraftPrediction, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}
func (m *MockDraftModel) Metrics() *models.ClassifierMetrics {
	return &models.ClassifierMetrics{TestAccuracy: 0.62}
}

func newTestHandler(match MatchModel, duration DurationModel, draft DraftModel) *Handler {
	return New(Config{
		Match:    match,
		Duration: duration,
		Draft:    draft,
		Logger:   zap.NewNop(),
	})
}

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestPredictMatch(t *testing.T) {
	tests := []struct {
		name       string
		model      *MockMatchModel
		body       string
		wantStatus int
		wantWinner string
	}{
		{
			name:       "blue favored",
			model:      &MockMatchModel{TrainedVal: true, ProbaVal: 0.8},
			body:       `{"features": [1, 2, 3]}`,
			wantStatus: http.StatusOK,
			wantWinner: "Blue Team",
		},
		{
			name:       "red favored",
			model:      &MockMatchModel{TrainedVal: true, ProbaVal: 0.2},
			body:       `{"features": [1, 2, 3]}`,
			wantStatus: http.StatusOK,
			wantWinner: "Red Team",
		},
		{
			name:       "invalid json",
			model:      &MockMatchModel{TrainedVal: true},
			body:       `{"features": `,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing features",
			model:      &MockMatchModel{TrainedVal: true},
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "untrained model",
			model:      &MockMatchModel{Err: predict.ErrNotTrained},
			body:       `{"features": [1, 2, 3]}`,
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(tt.model, &MockDurationModel{}, &MockDraftModel{})
			w := postJSON(t, h.PredictMatch, tt.body)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantWinner != "" {
				var resp map[string]interface{}
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatal(err)
				}
				if resp["prediction"] != tt.wantWinner {
					t.Errorf("prediction = %v, want %s", resp["prediction"], tt.wantWinner)
				}
			}
		})
	}
}

func TestPredictDuration(t *testing.T) {
	h := newTestHandler(&MockMatchModel{}, &MockDurationModel{TrainedVal: true, Minutes: 31.5}, &MockDraftModel{})
	w := postJSON(t, h.PredictDuration, `{"features": [1, 2]}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp map[string]float64
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["predicted_duration_minutes"] != 31.5 {
		t.Errorf("minutes = %v, want 31.5", resp["predicted_duration_minutes"])
	}
	if resp["predicted_duration_seconds"] != 1890 {
		t.Errorf("seconds = %v, want 1890", resp["predicted_duration_seconds"])
	}
}

func TestPredictDraftValidation(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCalls  int
	}{
		{
			name:       "valid rosters",
			body:       `{"blue_team": ["A","B","C","D","E"], "red_team": ["F","G","H","I","J"]}`,
			wantStatus: http.StatusOK,
			wantCalls:  1,
		},
		{
			name:       "four blue picks",
			body:       `{"blue_team": ["A","B","C","D"], "red_team": ["F","G","H","I","J"]}`,
			wantStatus: http.StatusBadRequest,
			wantCalls:  0,
		},
		{
			name:       "six red picks",
			body:       `{"blue_team": ["A","B","C","D","E"], "red_team": ["F","G","H","I","J","K"]}`,
			wantStatus: http.StatusBadRequest,
			wantCalls:  0,
		},
		{
			name:       "missing red team",
			body:       `{"blue_team": ["A","B","C","D","E"]}`,
			wantStatus: http.StatusBadRequest,
			wantCalls:  0,
		},
		{
			name:       "empty pick name",
			body:       `{"blue_team": ["A","B","C","D",""], "red_team": ["F","G","H","I","J"]}`,
			wantStatus: http.StatusBadRequest,
			wantCalls:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := &MockDraftModel{
				TrainedVal: true,
				Result: &models.DraftPrediction{
					Prediction:    "Blue Team",
					Probabilities: map[string]float64{"blue_team": 0.6, "red_team": 0.4},
				},
			}
			h := newTestHandler(&MockMatchModel{}, &MockDurationModel{}, draft)
			w := postJSON(t, h.PredictDraft, tt.body)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if draft.Calls != tt.wantCalls {
				t.Errorf("model invoked %d times, want %d", draft.Calls, tt.wantCalls)
			}
		})
	}
}

func TestPredictDraftUntrained(t *testing.T) {
	draft := &MockDraftModel{Err: predict.ErrNotTrained}
	h := newTestHandler(&MockMatchModel{}, &MockDurationModel{}, draft)
	w := postJSON(t, h.PredictDraft, `{"blue_team": ["A","B","C","D","E"], "red_team": ["F","G","H","I","J"]}`)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestModelsInfo(t *testing.T) {
	h := newTestHandler(
		&MockMatchModel{TrainedVal: true},
		&MockDurationModel{TrainedVal: false},
		&MockDraftModel{TrainedVal: true},
	)

	req := httptest.NewRequest("GET", "/api/v1/models/info", nil)
	w := httptest.NewRecorder()
	h.ModelsInfo(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp map[string]struct {
		Available bool `json:"available"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp["match_prediction"].Available {
		t.Error("match model should be available")
	}
	if resp["duration_prediction"].Available {
		t.Error("duration model should be unavailable")
	}
}

func TestReady(t *testing.T) {
	h := newTestHandler(
		&MockMatchModel{TrainedVal: true},
		&MockDurationModel{TrainedVal: true},
		&MockDraftModel{TrainedVal: false},
	)
	req := httptest.NewRequest("GET", "/ready", nil)
	w := httptest.NewRecorder()
	h.Ready(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 with an untrained model", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"draft_model":false`) {
		t.Errorf("body missing failed check: %s", w.Body.String())
	}
}
