package ml

import (
	"fmt"
	"math"
)

// StandardScaler centers features to zero mean and unit variance. Fields are
// exported so a fitted scaler serializes into the model bundle.
type StandardScaler struct {
	Means  []float64
	Stds   []float64
	Fitted bool
}

// Fit learns per-feature means and standard deviations.
func (s *StandardScaler) Fit(X [][]float64) {
	if len(X) == 0 {
		return
	}
	p := len(X[0])
	s.Means = make([]float64, p)
	s.Stds = make([]float64, p)

	n := float64(len(X))
	for _, row := range X {
		for j, v := range row {
			s.Means[j] += v
		}
	}
	for j := range s.Means {
		s.Means[j] /= n
	}
	for _, row := range X {
		for j, v := range row {
			d := v - s.Means[j]
			s.Stds[j] += d * d
		}
	}
	for j := range s.Stds {
		s.Stds[j] = math.Sqrt(s.Stds[j] / n)
		if s.Stds[j] == 0 {
			// Constant feature; leave it centered but unscaled.
			s.Stds[j] = 1
		}
	}
	s.Fitted = true
}

// Transform returns scaled copies of the rows.
func (s *StandardScaler) Transform(X [][]float64) ([][]float64, error) {
	if !s.Fitted {
		return nil, fmt.Errorf("ml: scaler not fitted")
	}
	out := make([][]float64, len(X))
	for i, row := range X {
		if len(row) != len(s.Means) {
			return nil, fmt.Errorf("ml: row has %d features, scaler fitted on %d", len(row), len(s.Means))
		}
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - s.Means[j]) / s.Stds[j]
		}
		out[i] = scaled
	}
	return out, nil
}

// FitTransform fits on X and returns the scaled rows.
func (s *StandardScaler) FitTransform(X [][]float64) ([][]float64, error) {
	s.Fit(X)
	return s.Transform(X)
}
