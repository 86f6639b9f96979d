package predict

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"go.uber.org/zap"

	"github.com/riftstats/predict-api/internal/ml"
	"github.com/riftstats/predict-api/internal/models"
	"github.com/riftstats/predict-api/internal/storage"
)

func testLogger() *zap.SugaredLogger { return zap.NewNop().Sugar() }

// syntheticMatchRows builds rows where the gold differential decides the
// winner, with everything else mild noise.
func syntheticMatchRows(n int, seed int64) []models.MatchFeatureRow {
	rng := rand.New(rand.NewSource(seed))
	rows := make([]models.MatchFeatureRow, n)
	for i := range rows {
		goldDiff := rng.Float64()*10000 - 5000
		blueGold := 55000 + goldDiff/2
		redGold := 55000 - goldDiff/2

		r := models.MatchFeatureRow{
			MatchID:      "synthetic",
			GameDuration: 1500 + rng.Float64()*900,
			BlueAvgLevel: 13 + rng.Float64()*4,
			RedAvgLevel:  13 + rng.Float64()*4,
			BlueKills:    20 + rng.Float64()*20,
			RedKills:     20 + rng.Float64()*20,
			BlueDeaths:   20 + rng.Float64()*20,
			RedDeaths:    20 + rng.Float64()*20,
			BlueAssists:  40 + rng.Float64()*30,
			RedAssists:   40 + rng.Float64()*30,
			BlueGold:     blueGold,
			RedGold:      redGold,
			BlueDamage:   80000 + rng.Float64()*40000,
			RedDamage:    80000 + rng.Float64()*40000,
			BlueCS:       600 + rng.Float64()*200,
			RedCS:        600 + rng.Float64()*200,
			BlueBarons:   float64(rng.Intn(2)),
			RedBarons:    float64(rng.Intn(2)),
			BlueDragons:  float64(rng.Intn(5)),
			RedDragons:   float64(rng.Intn(5)),
			BlueTowers:   float64(rng.Intn(11)),
			RedTowers:    float64(rng.Intn(11)),
		}
		r.GoldDiff = r.BlueGold - r.RedGold
		r.KillsDiff = r.BlueKills - r.RedKills
		r.DamageDiff = r.BlueDamage - r.RedDamage
		r.CSDiff = r.BlueCS - r.RedCS
		r.TowerDiff = r.BlueTowers - r.RedTowers
		r.DragonDiff = r.BlueDragons - r.RedDragons
		if goldDiff > 0 {
			r.BlueWin = 1
		}
		rows[i] = r
	}
	return rows
}

func syntheticDurationRows(n int, seed int64) []models.DurationFeatureRow {
	base := syntheticMatchRows(n, seed)
	rows := make([]models.DurationFeatureRow, n)
	for i, m := range base {
		minutes := m.GameDuration / 60
		rows[i] = models.DurationFeatureRow{
			MatchFeatureRow: m,
			TotalKills:      m.BlueKills + m.RedKills,
			TotalObjectives: m.BlueDragons + m.RedDragons + m.BlueBarons + m.RedBarons,
			BlueGoldPerMin:  m.BlueGold / minutes,
			RedGoldPerMin:   m.RedGold / minutes,
			BlueKillsPerMin: m.BlueKills / minutes,
			RedKillsPerMin:  m.RedKills / minutes,
			KillsPerMin:     (m.BlueKills + m.RedKills) / minutes,
		}
	}
	return rows
}

func TestMatchPredictorUntrained(t *testing.T) {
	p := NewMatchPredictor(testLogger(), ml.DefaultSeed)
	if _, err := p.PredictProba(make([]float64, len(models.MatchFeatureNames))); !errors.Is(err, ErrNotTrained) {
		t.Errorf("PredictProba untrained = %v, want ErrNotTrained", err)
	}
	if _, err := p.Predict(make([]float64, len(models.MatchFeatureNames))); !errors.Is(err, ErrNotTrained) {
		t.Errorf("Predict untrained = %v, want ErrNotTrained", err)
	}
}

func TestMatchPredictorTrainAndPredict(t *testing.T) {
	p := NewMatchPredictor(testLogger(), ml.DefaultSeed)
	rows := syntheticMatchRows(200, 1)

	m, err := p.Train(context.Background(), rows)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	if m.TestAccuracy < 0.7 {
		t.Errorf("test accuracy = %v, want >= 0.7 on gold-separable data", m.TestAccuracy)
	}
	if m.TrainSamples+m.TestSamples != 200 {
		t.Errorf("split sizes %d + %d != 200", m.TrainSamples, m.TestSamples)
	}
	if len(m.FeatureImportance) != len(models.MatchFeatureNames) {
		t.Errorf("importance entries = %d, want %d", len(m.FeatureImportance), len(models.MatchFeatureNames))
	}

	// A heavy blue gold lead should favor blue.
	strongBlue := rows[0]
	strongBlue.BlueGold = 70000
	strongBlue.RedGold = 45000
	strongBlue.GoldDiff = 25000
	label, err := p.Predict(strongBlue.Vector())
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if label != 1 {
		t.Error("massive gold lead predicted as a blue loss")
	}
}

func TestMatchPredictorWidthCheck(t *testing.T) {
	p := NewMatchPredictor(testLogger(), ml.DefaultSeed)
	if _, err := p.Train(context.Background(), syntheticMatchRows(100, 2)); err != nil {
		t.Fatal(err)
	}
	if _, err := p.PredictProba([]float64{1, 2, 3}); err == nil {
		t.Error("short feature vector should be rejected")
	}
}

func TestMatchPredictorTrainEmpty(t *testing.T) {
	p := NewMatchPredictor(testLogger(), ml.DefaultSeed)
	if _, err := p.Train(context.Background(), nil); !errors.Is(err, ErrNoData) {
		t.Errorf("Train(nil) = %v, want ErrNoData", err)
	}
}

func TestMatchBundleRoundTrip(t *testing.T) {
	store, err := storage.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	trained := NewMatchPredictor(testLogger(), ml.DefaultSeed)
	rows := syntheticMatchRows(150, 3)
	if _, err := trained.Train(context.Background(), rows); err != nil {
		t.Fatal(err)
	}
	if err := trained.SaveBundle(store); err != nil {
		t.Fatalf("SaveBundle: %v", err)
	}

	loaded := NewMatchPredictor(testLogger(), ml.DefaultSeed)
	if err := loaded.LoadBundle(store); err != nil {
		t.Fatalf("LoadBundle: %v", err)
	}

	for i := 0; i < 20; i++ {
		vec := rows[i].Vector()
		want, err := trained.PredictProba(vec)
		if err != nil {
			t.Fatal(err)
		}
		got, err := loaded.PredictProba(vec)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("row %d: loaded bundle predicts %v, original %v", i, got, want)
		}
	}
}

func TestDurationPredictorUntrained(t *testing.T) {
	p := NewDurationPredictor(testLogger(), ml.DefaultSeed)
	if _, err := p.Predict(make([]float64, len(models.DurationFeatureNames))); !errors.Is(err, ErrNotTrained) {
		t.Errorf("Predict untrained = %v, want ErrNotTrained", err)
	}
}

func TestDurationPredictorTrain(t *testing.T) {
	p := NewDurationPredictor(testLogger(), ml.DefaultSeed)
	rows := syntheticDurationRows(200, 4)

	m, err := p.Train(context.Background(), rows)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	if m.TestRMSE <= 0 {
		t.Errorf("TestRMSE = %v, want > 0", m.TestRMSE)
	}
	if m.BaselineRMSE <= 0 {
		t.Errorf("BaselineRMSE = %v, want > 0", m.BaselineRMSE)
	}

	minutes, err := p.Predict(rows[0].Vector())
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if minutes < 15 || minutes > 50 {
		t.Errorf("predicted %v minutes, outside the training range", minutes)
	}
}

func TestDurationBundleRoundTrip(t *testing.T) {
	store, err := storage.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	trained := NewDurationPredictor(testLogger(), ml.DefaultSeed)
	rows := syntheticDurationRows(150, 5)
	if _, err := trained.Train(context.Background(), rows); err != nil {
		t.Fatal(err)
	}
	if err := trained.SaveBundle(store); err != nil {
		t.Fatal(err)
	}

	loaded := NewDurationPredictor(testLogger(), ml.DefaultSeed)
	if err := loaded.LoadBundle(store); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		vec := rows[i].Vector()
		want, _ := trained.Predict(vec)
		got, err := loaded.Predict(vec)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("row %d: loaded bundle predicts %v, original %v", i, got, want)
		}
	}
}
