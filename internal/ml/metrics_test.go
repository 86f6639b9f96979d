package ml

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAccuracy(t *testing.T) {
	yTrue := []float64{1, 0, 1, 0}
	yPred := []float64{0.9, 0.1, 0.4, 0.6}
	if got := Accuracy(yTrue, yPred); !almostEqual(got, 0.5) {
		t.Errorf("Accuracy = %v, want 0.5", got)
	}
	if got := Accuracy(nil, nil); got != 0 {
		t.Errorf("Accuracy on empty = %v, want 0", got)
	}
}

func TestConfusionMatrix(t *testing.T) {
	yTrue := []float64{1, 1, 0, 0, 1}
	yPred := []float64{0.8, 0.2, 0.7, 0.3, 0.9}
	m := ConfusionMatrix(yTrue, yPred)
	// actual 0: one predicted 1, one predicted 0
	if m[0][0] != 1 || m[0][1] != 1 {
		t.Errorf("negative row = [%d %d], want [1 1]", m[0][0], m[0][1])
	}
	// actual 1: two predicted 1, one predicted 0
	if m[1][0] != 1 || m[1][1] != 2 {
		t.Errorf("positive row = [%d %d], want [1 2]", m[1][0], m[1][1])
	}
}

func TestPrecisionRecallF1(t *testing.T) {
	// tp=2 fp=1 fn=1
	yTrue := []float64{1, 1, 0, 0, 1}
	yPred := []float64{0.8, 0.2, 0.7, 0.3, 0.9}
	p, r, f1 := PrecisionRecallF1(yTrue, yPred)
	if !almostEqual(p, 2.0/3.0) {
		t.Errorf("precision = %v, want 2/3", p)
	}
	if !almostEqual(r, 2.0/3.0) {
		t.Errorf("recall = %v, want 2/3", r)
	}
	if !almostEqual(f1, 2.0/3.0) {
		t.Errorf("f1 = %v, want 2/3", f1)
	}
}

func TestROCAUC(t *testing.T) {
	tests := []struct {
		name   string
		yTrue  []float64
		scores []float64
		want   float64
	}{
		{
			name:   "perfect ranking",
			yTrue:  []float64{0, 0, 1, 1},
			scores: []float64{0.1, 0.2, 0.8, 0.9},
			want:   1.0,
		},
		{
			name:   "inverted ranking",
			yTrue:  []float64{1, 1, 0, 0},
			scores: []float64{0.1, 0.2, 0.8, 0.9},
			want:   0.0,
		},
		{
			name:   "all tied scores",
			yTrue:  []float64{0, 1, 0, 1},
			scores: []float64{0.5, 0.5, 0.5, 0.5},
			want:   0.5,
		},
		{
			name:   "single class",
			yTrue:  []float64{1, 1, 1},
			scores: []float64{0.1, 0.5, 0.9},
			want:   0.5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ROCAUC(tt.yTrue, tt.scores); !almostEqual(got, tt.want) {
				t.Errorf("ROCAUC = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRegressionMetrics(t *testing.T) {
	yTrue := []float64{2, 4, 6}
	yPred := []float64{3, 4, 5}

	if got := RMSE(yTrue, yPred); !almostEqual(got, math.Sqrt(2.0/3.0)) {
		t.Errorf("RMSE = %v", got)
	}
	if got := MAE(yTrue, yPred); !almostEqual(got, 2.0/3.0) {
		t.Errorf("MAE = %v", got)
	}
	// ssRes = 2, ssTot = 8
	if got := R2(yTrue, yPred); !almostEqual(got, 0.75) {
		t.Errorf("R2 = %v, want 0.75", got)
	}
	wantMAPE := (0.5 + 0 + 1.0/6.0) / 3
	if got := MAPE(yTrue, yPred); !almostEqual(got, wantMAPE) {
		t.Errorf("MAPE = %v, want %v", got, wantMAPE)
	}
}

func TestMeanStd(t *testing.T) {
	mean, std := MeanStd([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if !almostEqual(mean, 5) {
		t.Errorf("mean = %v, want 5", mean)
	}
	if !almostEqual(std, 2) {
		t.Errorf("std = %v, want 2", std)
	}
}
