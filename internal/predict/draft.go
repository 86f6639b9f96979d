package predict

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/riftstats/predict-api/internal/composition"
	"github.com/riftstats/predict-api/internal/ml"
	"github.com/riftstats/predict-api/internal/models"
	"github.com/riftstats/predict-api/internal/roles"
	"github.com/riftstats/predict-api/internal/synergy"
)

// teamFeatureNames is the per-side feature contract, in vector order.
var teamFeatureNames = []string{
	"avg_win_rate", "avg_kda", "avg_kills", "avg_deaths", "avg_assists",
	"avg_gold", "avg_damage", "avg_cs", "total_games",
	"min_win_rate", "max_win_rate", "win_rate_variance", "team_synergy",
	"tank_count", "fighter_count", "assassin_count", "mage_count",
	"adc_count", "support_count",
	"role_diversity", "damage_balance", "has_tank", "has_support",
}

// DraftFeatureNames is the full draft model contract: every per-side
// feature for blue then red, then the blue-minus-red differentials.
var DraftFeatureNames = func() []string {
	names := make([]string, 0, 2*len(teamFeatureNames)+7)
	for _, n := range teamFeatureNames {
		names = append(names, "blue_"+n)
	}
	for _, n := range teamFeatureNames {
		names = append(names, "red_"+n)
	}
	return append(names,
		"win_rate_diff", "kda_diff", "damage_diff", "gold_diff",
		"cs_diff", "synergy_diff", "diversity_diff")
}()

// DraftPredictor classifies blue-side wins from pre-game information only:
// champion profiles, pair synergy, and roster composition.
type DraftPredictor struct {
	logger      *zap.SugaredLogger
	seed        int64
	searchIters int

	analyzer     *composition.Analyzer
	model        *ml.GradientBoost
	scaler       *ml.StandardScaler
	featureNames []string
	roleVersion  string
	metrics      *models.ClassifierMetrics
}

// NewDraftPredictor returns an untrained draft classifier. searchIters
// bounds the hyperparameter search; zero trains with the defaults only.
func NewDraftPredictor(logger *zap.SugaredLogger, seed int64, searchIters int) *DraftPredictor {
	return &DraftPredictor{logger: logger, seed: seed, searchIters: searchIters}
}

func (p *DraftPredictor) Trained() bool { return p.model != nil }

func (p *DraftPredictor) Metrics() *models.ClassifierMetrics { return p.metrics }

func (p *DraftPredictor) FeatureNames() []string { return p.featureNames }

// Train builds the synergy table from the drafts, derives one feature row
// per draft, optionally tunes hyperparameters, and fits the booster.
func (p *DraftPredictor) Train(ctx context.Context, drafts []models.Draft, profiles map[string]models.ChampionStatProfile) (*models.ClassifierMetrics, error) {
	if len(drafts) == 0 {
		return nil, ErrNoData
	}

	table := synergy.Build(drafts, p.logger)
	analyzer := composition.NewAnalyzer(profiles, table)

	data := &ml.Dataset{
		X: make([][]float64, len(drafts)),
		Y: make([]float64, len(drafts)),
	}
	for i := range drafts {
		data.X[i] = draftVector(analyzer, drafts[i].Blue, drafts[i].Red)
		if drafts[i].BlueWin {
			data.Y[i] = 1
		}
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

	cfg := ml.DefaultGBTConfig()
	cfg.Seed = p.seed
	if p.searchIters > 0 && train.Len() > ml.MinSearchRows {
		p.logger.Infow("tuning draft model",
			"train_rows", train.Len(), "iterations", p.searchIters)
		tuned, score, err := ml.RandomizedSearch(ctx, scaledTrain, ml.DefaultSearchSpace(), p.searchIters, 3, p.seed, p.logger)
		if err != nil {
			return nil, fmt.Errorf("predict: draft hyperparameter search: %w", err)
		}
		p.logger.Infow("draft search finished", "cv_accuracy", score)
		cfg = tuned
	}

	p.logger.Infow("training draft model",
		"drafts", len(drafts), "train", train.Len(), "test", test.Len(),
		"rounds", cfg.NumRounds, "depth", cfg.MaxDepth)

	model, err := ml.FitGBT(scaledTrain, cfg)
	if err != nil {
		return nil, fmt.Errorf("predict: fit draft model: %w", err)
	}

	cvScores, err := ml.CrossValidate(ctx, scaledTrain, 5, p.seed, func(tr *ml.Dataset, testX [][]float64) ([]float64, error) {
		m, err := ml.FitGBT(tr, cfg)
		if err != nil {
			return nil, err
		}
		return m.PredictBatch(testX), nil
	}, ml.Accuracy)
	if err != nil {
		return nil, fmt.Errorf("predict: cross-validate draft model: %w", err)
	}
	cvMean, cvStd := ml.MeanStd(cvScores)

	trainProba := model.PredictBatch(trainX)
	testProba := model.PredictBatch(testX)
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
		FeatureImportance: importanceMap(DraftFeatureNames, model.FeatureImportance()),
		TrainSamples:      train.Len(),
		TestSamples:       test.Len(),
	}

	p.analyzer = analyzer
	p.model = model
	p.scaler = scaler
	p.featureNames = append([]string{}, DraftFeatureNames...)
	p.roleVersion = roles.Version()
	p.metrics = m

	p.logger.Infow("draft model trained",
		"test_accuracy", m.TestAccuracy, "roc_auc", m.ROCAUC,
		"cv_accuracy", m.CVAccuracy, "synergy_pairs", table.Len())
	return m, nil
}

// PredictDraft scores a pending draft. Both rosters must name exactly five
// champions; no model call happens otherwise.
func (p *DraftPredictor) PredictDraft(blue, red []string) (*models.DraftPrediction, error) {
	if len(blue) != 5 || len(red) != 5 {
		return nil, fmt.Errorf("%w: got %d blue, %d red", ErrRosterSize, len(blue), len(red))
	}
	if !p.Trained() {
		return nil, ErrNotTrained
	}

	blueTF := p.analyzer.TeamFeatures(blue)
	redTF := p.analyzer.TeamFeatures(red)

	vec := draftVector(p.analyzer, blue, red)
	scaled, err := p.scaler.Transform([][]float64{vec})
	if err != nil {
		return nil, err
	}
	proba := p.model.PredictProba(scaled[0])

	prediction := "Red Team"
	predicted := 0
	if proba >= 0.5 {
		prediction = "Blue Team"
		predicted = 1
	}

	winRateAdv, damageAdv := "Red", "Red"
	if blueTF.AvgWinRate > redTF.AvgWinRate {
		winRateAdv = "Blue"
	}
	if blueTF.AvgDamage > redTF.AvgDamage {
		damageAdv = "Blue"
	}

	return &models.DraftPrediction{
		Prediction:     prediction,
		PredictedValue: predicted,
		Confidence:     math.Max(proba, 1-proba),
		Probabilities: map[string]float64{
			"blue_team": proba,
			"red_team":  1 - proba,
		},
		Analysis: models.DraftAnalysis{
			BlueTeamStrength: blueTF.AvgWinRate,
			RedTeamStrength:  redTF.AvgWinRate,
			BlueAvgKDA:       blueTF.AvgKDA,
			RedAvgKDA:        redTF.AvgKDA,
			WinRateAdvantage: winRateAdv,
			DamageAdvantage:  damageAdv,
		},
		BlueFeatures: toDraftFeatures(blueTF),
		RedFeatures:  toDraftFeatures(redTF),
		Differentials: map[string]float64{
			"win_rate_diff": blueTF.AvgWinRate - redTF.AvgWinRate,
			"kda_diff":      blueTF.AvgKDA - redTF.AvgKDA,
			"damage_diff":   blueTF.AvgDamage - redTF.AvgDamage,
			"gold_diff":     blueTF.AvgGold - redTF.AvgGold,
			"cs_diff":       blueTF.AvgCS - redTF.AvgCS,
		},
	}, nil
}

// Analyzer exposes the fitted auxiliary tables.
func (p *DraftPredictor) Analyzer() *composition.Analyzer { return p.analyzer }

func draftVector(a *composition.Analyzer, blue, red []string) []float64 {
	blueTF := a.TeamFeatures(blue)
	redTF := a.TeamFeatures(red)

	vec := make([]float64, 0, len(DraftFeatureNames))
	vec = append(vec, teamVector(blueTF)...)
	vec = append(vec, teamVector(redTF)...)
	return append(vec,
		blueTF.AvgWinRate-redTF.AvgWinRate,
		blueTF.AvgKDA-redTF.AvgKDA,
		blueTF.AvgDamage-redTF.AvgDamage,
		blueTF.AvgGold-redTF.AvgGold,
		blueTF.AvgCS-redTF.AvgCS,
		blueTF.TeamSynergy-redTF.TeamSynergy,
		blueTF.Balance.RoleDiversity-redTF.Balance.RoleDiversity,
	)
}

func teamVector(tf composition.TeamFeatures) []float64 {
	b := tf.Balance
	return []float64{
		tf.AvgWinRate, tf.AvgKDA, tf.AvgKills, tf.AvgDeaths, tf.AvgAssists,
		tf.AvgGold, tf.AvgDamage, tf.AvgCS, float64(tf.TotalGames),
		tf.MinWinRate, tf.MaxWinRate, tf.WinRateVariance, tf.TeamSynergy,
		float64(b.TankCount), float64(b.FighterCount), float64(b.AssassinCount),
		float64(b.MageCount), float64(b.ADCCount), float64(b.SupportCount),
		b.RoleDiversity, b.DamageBalance, boolFeature(b.HasTank), boolFeature(b.HasSupport),
	}
}

func toDraftFeatures(tf composition.TeamFeatures) models.TeamDraftFeatures {
	return models.TeamDraftFeatures{
		AvgWinRate:      tf.AvgWinRate,
		AvgKDA:          tf.AvgKDA,
		AvgKills:        tf.AvgKills,
		AvgDeaths:       tf.AvgDeaths,
		AvgAssists:      tf.AvgAssists,
		AvgGold:         tf.AvgGold,
		AvgDamage:       tf.AvgDamage,
		AvgCS:           tf.AvgCS,
		TotalGames:      tf.TotalGames,
		MinWinRate:      tf.MinWinRate,
		MaxWinRate:      tf.MaxWinRate,
		WinRateVariance: tf.WinRateVariance,
		TeamSynergy:     tf.TeamSynergy,
		RoleDiversity:   tf.Balance.RoleDiversity,
	}
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
