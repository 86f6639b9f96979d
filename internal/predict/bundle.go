package predict

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/riftstats/predict-api/internal/composition"
	"github.com/riftstats/predict-api/internal/ml"
	"github.com/riftstats/predict-api/internal/models"
	"github.com/riftstats/predict-api/internal/roles"
	"github.com/riftstats/predict-api/internal/storage"
	"github.com/riftstats/predict-api/internal/synergy"
)

// Bundles are gob documents carrying everything inference needs: the model
// parameters, the fitted scaler, the ordered feature names, and for the
// draft model the auxiliary tables it was trained with. A loaded bundle
// must reproduce the predictions of the estimator that saved it.

type matchBundle struct {
	FeatureNames []string
	Scaler       *ml.StandardScaler
	Forest       *ml.RandomForest
	Metrics      *models.ClassifierMetrics
}

type durationBundle struct {
	FeatureNames []string
	Scaler       *ml.StandardScaler
	Forest       *ml.RandomForest
	Baseline     *ml.LinearModel
	Metrics      *models.RegressionMetrics
}

type draftBundle struct {
	FeatureNames []string
	Scaler       *ml.StandardScaler
	Model        *ml.GradientBoost
	Metrics      *models.ClassifierMetrics
	Profiles     map[string]models.ChampionStatProfile
	SynergyRates map[synergy.Pair]float64
	RoleVersion  string
}

func encodeBundle(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("predict: encode bundle: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeBundle(data []byte, v any) error {
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(v); err != nil {
		return fmt.Errorf("predict: decode bundle: %w", err)
	}
	return nil
}

func checkFeatureNames(got, want []string) error {
	if len(got) != len(want) {
		return fmt.Errorf("predict: bundle has %d features, expected %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			return fmt.Errorf("predict: bundle feature %d is %q, expected %q", i, got[i], want[i])
		}
	}
	return nil
}

// SaveBundle persists the trained classifier.
func (p *MatchPredictor) SaveBundle(store storage.Store) error {
	if !p.Trained() {
		return ErrNotTrained
	}
	data, err := encodeBundle(&matchBundle{
		FeatureNames: p.featureNames,
		Scaler:       p.scaler,
		Forest:       p.forest,
		Metrics:      p.metrics,
	})
	if err != nil {
		return err
	}
	return store.Save(MatchBundleName, data)
}

// LoadBundle restores a previously saved classifier.
func (p *MatchPredictor) LoadBundle(store storage.Store) error {
	data, err := store.Load(MatchBundleName)
	if err != nil {
		return err
	}
	var b matchBundle
	if err := decodeBundle(data, &b); err != nil {
		return err
	}
	if err := checkFeatureNames(b.FeatureNames, models.MatchFeatureNames); err != nil {
		return err
	}
	p.featureNames = b.FeatureNames
	p.scaler = b.Scaler
	p.forest = b.Forest
	p.metrics = b.Metrics
	return nil
}

// SaveBundle persists the trained regressor and its baseline.
func (p *DurationPredictor) SaveBundle(store storage.Store) error {
	if !p.Trained() {
		return ErrNotTrained
	}
	data, err := encodeBundle(&durationBundle{
		FeatureNames: p.featureNames,
		Scaler:       p.scaler,
		Forest:       p.forest,
		Baseline:     p.baseline,
		Metrics:      p.metrics,
	})
	if err != nil {
		return err
	}
	return store.Save(DurationBundleName, data)
}

// LoadBundle restores a previously saved regressor.
func (p *DurationPredictor) LoadBundle(store storage.Store) error {
	data, err := store.Load(DurationBundleName)
	if err != nil {
		return err
	}
	var b durationBundle
	if err := decodeBundle(data, &b); err != nil {
		return err
	}
	if err := checkFeatureNames(b.FeatureNames, models.DurationFeatureNames); err != nil {
		return err
	}
	p.featureNames = b.FeatureNames
	p.scaler = b.Scaler
	p.forest = b.Forest
	p.baseline = b.Baseline
	p.metrics = b.Metrics
	return nil
}

// SaveBundle persists the trained draft classifier with its auxiliary
// tables and the version of the role map it was trained against.
func (p *DraftPredictor) SaveBundle(store storage.Store) error {
	if !p.Trained() {
		return ErrNotTrained
	}
	data, err := encodeBundle(&draftBundle{
		FeatureNames: p.featureNames,
		Scaler:       p.scaler,
		Model:        p.model,
		Metrics:      p.metrics,
		Profiles:     p.analyzer.Profiles(),
		SynergyRates: p.analyzer.Synergy().Rates(),
		RoleVersion:  p.roleVersion,
	})
	if err != nil {
		return err
	}
	return store.Save(DraftBundleName, data)
}

// LoadBundle restores a previously saved draft classifier. A bundle trained
// against a different role table is refused rather than served with skewed
// composition features.
func (p *DraftPredictor) LoadBundle(store storage.Store) error {
	data, err := store.Load(DraftBundleName)
	if err != nil {
		return err
	}
	var b draftBundle
	if err := decodeBundle(data, &b); err != nil {
		return err
	}
	if err := checkFeatureNames(b.FeatureNames, DraftFeatureNames); err != nil {
		return err
	}
	if b.RoleVersion != roles.Version() {
		return fmt.Errorf("%w: bundle %s, current %s", ErrRoleVersion, b.RoleVersion, roles.Version())
	}
	p.featureNames = b.FeatureNames
	p.scaler = b.Scaler
	p.model = b.Model
	p.metrics = b.Metrics
	p.analyzer = composition.NewAnalyzer(b.Profiles, synergy.FromRates(b.SynergyRates))
	p.roleVersion = b.RoleVersion
	return nil
}
