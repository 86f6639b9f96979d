package models

// ClassifierMetrics is the evaluation document produced by a classification
// training run. Key names in the serialized form are a stable contract
// consumed by the reporting layer.
type ClassifierMetrics struct {
	TrainAccuracy     float64            `json:"train_accuracy"`
	TestAccuracy      float64            `json:"test_accuracy"`
	Precision         float64            `json:"precision"`
	Recall            float64            `json:"recall"`
	F1Score           float64            `json:"f1_score"`
	ROCAUC            float64            `json:"roc_auc"`
	ConfusionMatrix   [2][2]int          `json:"confusion_matrix"` // [actual][predicted]
	CVAccuracy        float64            `json:"cv_accuracy"`
	CVStd             float64            `json:"cv_std"`
	FeatureImportance map[string]float64 `json:"feature_importance"`
	TrainSamples      int                `json:"train_samples"`
	TestSamples       int                `json:"test_samples"`
}

// RegressionMetrics is the evaluation document for the duration regressor,
// including the linear baseline it is compared against.
type RegressionMetrics struct {
	TrainRMSE         float64            `json:"train_rmse"`
	TestRMSE          float64            `json:"test_rmse"`
	TestMAE           float64            `json:"test_mae"`
	TestR2            float64            `json:"test_r2"`
	TestMAPE          float64            `json:"test_mape"`
	BaselineRMSE      float64            `json:"baseline_rmse"`
	BaselineMAE       float64            `json:"baseline_mae"`
	BaselineR2        float64            `json:"baseline_r2"`
	ImprovementPct    float64            `json:"improvement_pct"`
	CVRMSEMean        float64            `json:"cv_rmse_mean"`
	CVRMSEStd         float64            `json:"cv_rmse_std"`
	FeatureImportance map[string]float64 `json:"feature_importance"`
	TrainSamples      int                `json:"train_samples"`
	TestSamples       int                `json:"test_samples"`
}

// TeamDraftFeatures is the human-readable per-team breakdown attached to a
// draft prediction.
type TeamDraftFeatures struct {
	AvgWinRate      float64 `json:"avg_win_rate"`
	AvgKDA          float64 `json:"avg_kda"`
	AvgKills        float64 `json:"avg_kills"`
	AvgDeaths       float64 `json:"avg_deaths"`
	AvgAssists      float64 `json:"avg_assists"`
	AvgGold         float64 `json:"avg_gold"`
	AvgDamage       float64 `json:"avg_damage"`
	AvgCS           float64 `json:"avg_cs"`
	TotalGames      int     `json:"total_games"`
	MinWinRate      float64 `json:"min_win_rate"`
	MaxWinRate      float64 `json:"max_win_rate"`
	WinRateVariance float64 `json:"win_rate_variance"`
	TeamSynergy     float64 `json:"team_synergy"`
	RoleDiversity   float64 `json:"role_diversity"`
}

// DraftAnalysis summarizes which side the pre-game numbers favor.
type DraftAnalysis struct {
	BlueTeamStrength float64 `json:"blue_team_strength"`
	RedTeamStrength  float64 `json:"red_team_strength"`
	BlueAvgKDA       float64 `json:"blue_avg_kda"`
	RedAvgKDA        float64 `json:"red_avg_kda"`
	WinRateAdvantage string  `json:"win_rate_advantage"` // "Blue" or "Red"
	DamageAdvantage  string  `json:"damage_advantage"`
}

// DraftPrediction is the full response for a predict-draft call.
type DraftPrediction struct {
	Prediction     string             `json:"prediction"` // "Blue Team" or "Red Team"
	PredictedValue int                `json:"predicted_value"`
	Confidence     float64            `json:"confidence"`
	Probabilities  map[string]float64 `json:"probabilities"` // keys: blue_team, red_team
	Analysis       DraftAnalysis      `json:"analysis"`
	BlueFeatures   TeamDraftFeatures  `json:"blue_features"`
	RedFeatures    TeamDraftFeatures  `json:"red_features"`
	Differentials  map[string]float64 `json:"differentials"`
}
