package predict

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/riftstats/predict-api/internal/ml"
	"github.com/riftstats/predict-api/internal/models"
)

// MatchPredictor classifies blue-side wins from the in-game aggregate and
// differential features of a finished match.
type MatchPredictor struct {
	logger *zap.SugaredLogger
	seed   int64

	forest       *ml.RandomForest
	scaler       *ml.StandardScaler
	featureNames []string
	metrics      *models.ClassifierMetrics
}

func NewMatchPredictor(logger *zap.SugaredLogger, seed int64) *MatchPredictor {
	return &MatchPredictor{logger: logger, seed: seed}
}

// Trained reports whether the predictor can serve.
func (p *MatchPredictor) Trained() bool { return p.forest != nil }

// Metrics returns the evaluation of the last Train call, or nil after a
// bundle load that carried none.
func (p *MatchPredictor) Metrics() *models.ClassifierMetrics { return p.metrics }

// FeatureNames returns the ordered input contract.
func (p *MatchPredictor) FeatureNames() []string { return p.featureNames }

// Train fits the forest on a stratified 80/20 split, cross-validates on the
// training partition, and evaluates on the hold-out.
func (p *MatchPredictor) Train(ctx context.Context, rows []models.MatchFeatureRow) (*models.ClassifierMetrics, error) {
	if len(rows) == 0 {
		return nil, ErrNoData
	}

	data := &ml.Dataset{
		X: make([][]float64, len(rows)),
		Y: make([]float64, len(rows)),
	}
	for i := range rows {
		data.X[i] = rows[i].Vector()
		data.Y[i] = float64(rows[i].BlueWin)
	}

	train, test := ml.TrainTestSplit(data, 0.2, true, p.seed)

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

	p.logger.Infow("training match outcome model",
		"rows", data.Len(), "train", train.Len(), "test", test.Len(),
		"trees", cfg.NumTrees)

	forest, err := ml.FitForest(scaledTrain, cfg, false)
	if err != nil {
		return nil, fmt.Errorf("predict: fit match forest: %w", err)
	}

	cvScores, err := ml.CrossValidate(ctx, scaledTrain, 5, p.seed, func(tr *ml.Dataset, testX [][]float64) ([]float64, error) {
		m, err := ml.FitForest(tr, cfg, false)
		if err != nil {
			return nil, err
		}
		return m.PredictBatch(testX), nil
	}, ml.Accuracy)
	if err != nil {
		return nil, fmt.Errorf("predict: cross-validate match model: %w", err)
	}
	cvMean, cvStd := ml.MeanStd(cvScores)

	trainProba := forest.PredictBatch(trainX)
	testProba := forest.PredictBatch(testX)
	precision, recall, f1 := ml.PrecisionRecallF1(test.Y, testProba)

	m := &models.ClassifierMetrics{
		TrainAccuracy:     ml.Accuracy(train.Y, trainProba),
		TestAccuracy:      ml.Accuracy(test.Y, testProba),
		Precision:         precision,
		Recall:            recall,
		F1Score:           f1,
		ROCAUC:            ml.ROCAUC(test.Y, testProba),
		ConfusionMatrix:   ml.ConfusionMatrix(test.Y, testProba),
		CVAccuracy:        cvMean,
		CVStd:             cvStd,
		FeatureImportance: importanceMap(models.MatchFeatureNames, forest.FeatureImportance()),
		TrainSamples:      train.Len(),
		TestSamples:       test.Len(),
	}

	p.forest = forest
	p.scaler = scaler
	p.featureNames = append([]string{}, models.MatchFeatureNames...)
	p.metrics = m

	p.logger.Infow("match outcome model trained",
		"test_accuracy", m.TestAccuracy, "roc_auc", m.ROCAUC,
		"cv_accuracy", m.CVAccuracy)
	return m, nil
}

// PredictProba returns the blue-win probability for one feature vector in
// MatchFeatureNames order.
func (p *MatchPredictor) PredictProba(features []float64) (float64, error) {
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

// Predict returns 1 when blue is favored, else 0.
func (p *MatchPredictor) Predict(features []float64) (int, error) {
	proba, err := p.PredictProba(features)
	if err != nil {
		return 0, err
	}
	if proba >= 0.5 {
		return 1, nil
	}
	return 0, nil
}

func importanceMap(names []string, values []float64) map[string]float64 {
	out := make(map[string]float64, len(names))
	for i, name := range names {
		if i < len(values) {
			out[name] = values[i]
		}
	}
	return out
}
