package ml

import (
	"fmt"

	"github.com/sajari/regression"
)

// LinearModel is an ordinary least squares fit kept as plain coefficients
// so it serializes into the model bundle without dragging the solver along.
type LinearModel struct {
	Intercept    float64
	Coefficients []float64
}

// FitLinear solves OLS over the named features and targets.
func FitLinear(d *Dataset, featureNames []string) (*LinearModel, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if len(featureNames) != len(d.X[0]) {
		return nil, fmt.Errorf("ml: %d feature names for %d columns", len(featureNames), len(d.X[0]))
	}

	r := new(regression.Regression)
	r.SetObserved("target")
	for i, name := range featureNames {
		r.SetVar(i, name)
	}
	for i, row := range d.X {
		r.Train(regression.DataPoint(d.Y[i], row))
	}
	if err := r.Run(); err != nil {
		return nil, fmt.Errorf("ml: linear fit: %w", err)
	}

	coeffs := make([]float64, len(featureNames))
	for i := range featureNames {
		coeffs[i] = r.Coeff(i + 1)
	}
	return &LinearModel{Intercept: r.Coeff(0), Coefficients: coeffs}, nil
}

// Predict evaluates the fitted line for one row.
func (m *LinearModel) Predict(x []float64) float64 {
	out := m.Intercept
	for i, c := range m.Coefficients {
		out += c * x[i]
	}
	return out
}

// PredictBatch applies Predict to every row.
func (m *LinearModel) PredictBatch(x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i, row := range x {
		out[i] = m.Predict(row)
	}
	return out
}
