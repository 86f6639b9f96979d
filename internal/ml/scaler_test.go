package ml

import (
	"math"
	"testing"
)

func TestStandardScaler(t *testing.T) {
	X := [][]float64{
		{1, 100, 5},
		{2, 200, 5},
		{3, 300, 5},
	}
	s := &StandardScaler{}
	scaled, err := s.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform: %v", err)
	}

	for j := 0; j < 3; j++ {
		mean := 0.0
		for i := range scaled {
			mean += scaled[i][j]
		}
		mean /= float64(len(scaled))
		if math.Abs(mean) > 1e-9 {
			t.Errorf("column %d mean = %v, want 0", j, mean)
		}
	}

	// Constant column stays centered at zero without dividing by zero.
	for i := range scaled {
		if scaled[i][2] != 0 {
			t.Errorf("constant column row %d = %v, want 0", i, scaled[i][2])
		}
	}
}

func TestStandardScalerUnfitted(t *testing.T) {
	s := &StandardScaler{}
	if _, err := s.Transform([][]float64{{1}}); err == nil {
		t.Error("Transform on unfitted scaler should error")
	}
}

func TestStandardScalerWidthMismatch(t *testing.T) {
	s := &StandardScaler{}
	s.Fit([][]float64{{1, 2}, {3, 4}})
	if _, err := s.Transform([][]float64{{1, 2, 3}}); err == nil {
		t.Error("Transform with wrong width should error")
	}
}
