package predict

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/riftstats/predict-api/internal/ml"
	"github.com/riftstats/predict-api/internal/models"
)

// DurationPredictor estimates game length in minutes with a random forest,
// benchmarked against an ordinary least squares baseline on the same
// features.
type DurationPredictor struct {
	logger *zap.SugaredLogger
	seed   int64

	forest       *ml.RandomForest
	baseline     *ml.LinearModel
	scaler       *ml.StandardScaler
	featureNames []string
	metrics      *models.RegressionMetrics
}

func NewDurationPredictor(logger *zap.SugaredLogger, seed int64) *DurationPredictor {
	return &DurationPredictor{logger: logger, seed: seed}
}

func (p *DurationPredictor) Trained() bool { return p.forest != nil }

func (p *DurationPredictor) Metrics() *models.RegressionMetrics { return p.metrics }

func (p *DurationPredictor) FeatureNames() []string { return p.featureNames }

// Train fits forest and baseline on an 80/20 split and cross-validates the
// forest's RMSE on the training partition.
func (p *DurationPredictor) Train(ctx context.Context, rows []models.DurationFeatureRow) (*models.RegressionMetrics, error) {
	if len(rows) == 0 {
		return nil, ErrNoData
	}

	data := &ml.Dataset{
		X: make([][]float64, len(rows)),
		Y: make([]float64, len(rows)),
	}
	for i := range rows {
		data.X[i] = rows[i].Vector()
		data.Y[i] = rows[i].DurationMinutes()
	}

	train, test := ml.TrainTestSplit(data, 0.2, false, p.seed)

	scaler := &ml.StandardScaler{}
	trainX, err := scaler.FitTransform(train.X)
	if err != nil {
		return nil, err
	}
	testX, err := scaler.Transform(test.X)
	if err != nil {
		return nil, err
	}
	scaledTrain := &ml.Dataset{X: trainX, Y: train.Y}

	cfg := ml.DefaultForestConfig()
	cfg.Seed = p.seed

	p.logger.Infow("training duration model",
		"rows", data.Len(), "train", train.Len(), "test", test.Len())

	forest, err := ml.FitForest(scaledTrain, cfg, true)
	if err != nil {
		return nil, fmt.Errorf("predict: fit duration forest: %w", err)
	}

	baseline, err := ml.FitLinear(scaledTrain, models.DurationFeatureNames)
	if err != nil {
		return nil, fmt.Errorf("predict: fit duration baseline: %w", err)
	}

	cvScores, err := ml.CrossValidate(ctx, scaledTrain, 5, p.seed, func(tr *ml.Dataset, testX [][]float64) ([]float64, error) {
		m, err := ml.FitForest(tr, cfg, true)
		if err != nil {
			return nil, err
		}
		return m.PredictBatch(testX), nil
	}, ml.RMSE)
	if err != nil {
		return nil, fmt.Errorf("predict: cross-validate duration model: %w", err)
	}
	cvMean, cvStd := ml.MeanStd(cvScores)

	trainPred := forest.PredictBatch(trainX)
	testPred := forest.PredictBatch(testX)
	basePred := baseline.PredictBatch(testX)

	testRMSE := ml.RMSE(test.Y, testPred)
	baseRMSE := ml.RMSE(test.Y, basePred)
	improvement := 0.0
	if baseRMSE > 0 {
		improvement = (baseRMSE - testRMSE) / baseRMSE * 100
	}

	m := &models.RegressionMetrics{
		TrainRMSE:         ml.RMSE(train.Y, trainPred),
		TestRMSE:          testRMSE,
		TestMAE:           ml.MAE(test.Y, testPred),
		TestR2:            ml.R2(test.Y, testPred),
		TestMAPE:          ml.MAPE(test.Y, testPred),
		BaselineRMSE:      baseRMSE,
		BaselineMAE:       ml.MAE(test.Y, basePred),
		BaselineR2:        ml.R2(test.Y, basePred),
		ImprovementPct:    improvement,
		CVRMSEMean:        cvMean,
		CVRMSEStd:         cvStd,
		FeatureImportance: importanceMap(models.DurationFeatureNames, forest.FeatureImportance()),
		TrainSamples:      train.Len(),
		TestSamples:       test.Len(),
	}

	p.forest = forest
	p.baseline = baseline
	p.scaler = scaler
	p.featureNames = append([]string{}, models.DurationFeatureNames...)
	p.metrics = m

	p.logger.Infow("duration model trained",
		"test_rmse", m.TestRMSE, "test_r2", m.TestR2,
		"baseline_rmse", m.BaselineRMSE, "improvement_pct", m.ImprovementPct)
	return m, nil
}

// Predict returns the expected duration in minutes for one feature vector
// in DurationFeatureNames order.
func (p *DurationPredictor) Predict(features []float64) (float64, error) {
	if !p.Trained() {
		return 0, ErrNotTrained
	}
	if err := checkWidth(len(features), len(p.featureNames)); err != nil {
		return 0, err
	}
	scaled, err := p.scaler.Transform([][]float64{features})
	if err != nil {
		return 0, err
	}
	return p.forest.Predict(scaled[0]), nil
}
