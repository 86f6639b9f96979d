package models

// MatchFeatureNames is the ordered feature-name list for in-game match rows.
// The order is a contract: MatchFeatureRow.Vector() emits values in exactly
// this order, and trained bundles persist this list so a stale binary cannot
// silently feed a model features in the wrong order.
var MatchFeatureNames = []string{
	"blue_avg_level", "red_avg_level",
	"blue_kills", "red_kills",
	"blue_deaths", "red_deaths",
	"blue_assists", "red_assists",
	"blue_gold", "red_gold",
	"blue_damage", "red_damage",
	"blue_cs", "red_cs",
	"blue_barons", "red_barons",
	"blue_dragons", "red_dragons",
	"blue_towers", "red_towers",
	"gold_diff", "kills_diff", "damage_diff", "cs_diff",
	"tower_diff", "dragon_diff",
}

// DurationFeatureNames extends the match features with game-pace counts used
// by the duration regressor.
var DurationFeatureNames = append(append([]string{}, MatchFeatureNames...),
	"total_kills", "total_objectives",
)

// MatchFeatureRow is one match flattened into per-team aggregates and
// blue-minus-red differentials. Fixed fields rather than a map so feature
// order is structural, not an iteration accident.
type MatchFeatureRow struct {
	MatchID      string  `json:"match_id"`
	GameDuration float64 `json:"game_duration"` // seconds

	BlueAvgLevel float64 `json:"blue_avg_level"`
	RedAvgLevel  float64 `json:"red_avg_level"`
	BlueKills    float64 `json:"blue_kills"`
	RedKills     float64 `json:"red_kills"`
	BlueDeaths   float64 `json:"blue_deaths"`
	RedDeaths    float64 `json:"red_deaths"`
	BlueAssists  float64 `json:"blue_assists"`
	RedAssists   float64 `json:"red_assists"`
	BlueGold     float64 `json:"blue_gold"`
	RedGold      float64 `json:"red_gold"`
	BlueDamage   float64 `json:"blue_damage"`
	RedDamage    float64 `json:"red_damage"`
	BlueCS       float64 `json:"blue_cs"`
	RedCS        float64 `json:"red_cs"`
	BlueBarons   float64 `json:"blue_barons"`
	RedBarons    float64 `json:"red_barons"`
	BlueDragons  float64 `json:"blue_dragons"`
	RedDragons   float64 `json:"red_dragons"`
	BlueTowers   float64 `json:"blue_towers"`
	RedTowers    float64 `json:"red_towers"`

	GoldDiff   float64 `json:"gold_diff"`
	KillsDiff  float64 `json:"kills_diff"`
	DamageDiff float64 `json:"damage_diff"`
	CSDiff     float64 `json:"cs_diff"`
	TowerDiff  float64 `json:"tower_diff"`
	DragonDiff float64 `json:"dragon_diff"`

	BlueWin int `json:"blue_win"` // 1 = blue won
}

// Vector returns the feature values in MatchFeatureNames order.
func (r *MatchFeatureRow) Vector() []float64 {
	return []float64{
		r.BlueAvgLevel, r.RedAvgLevel,
		r.BlueKills, r.RedKills,
		r.BlueDeaths, r.RedDeaths,
		r.BlueAssists, r.RedAssists,
		r.BlueGold, r.RedGold,
		r.BlueDamage, r.RedDamage,
		r.BlueCS, r.RedCS,
		r.BlueBarons, r.RedBarons,
		r.BlueDragons, r.RedDragons,
		r.BlueTowers, r.RedTowers,
		r.GoldDiff, r.KillsDiff, r.DamageDiff, r.CSDiff,
		r.TowerDiff, r.DragonDiff,
	}
}

// DurationFeatureRow adds pace indicators on top of the match features. The
// per-minute rates are derived from the target duration and are reported for
// analysis only; they are deliberately absent from DurationFeatureNames.
type DurationFeatureRow struct {
	MatchFeatureRow

	TotalKills      float64 `json:"total_kills"`
	TotalObjectives float64 `json:"total_objectives"`

	BlueGoldPerMin  float64 `json:"blue_gold_per_min"`
	RedGoldPerMin   float64 `json:"red_gold_per_min"`
	BlueKillsPerMin float64 `json:"blue_kills_per_min"`
	RedKillsPerMin  float64 `json:"red_kills_per_min"`
	KillsPerMin     float64 `json:"kills_per_min"`
}

// Vector returns the feature values in DurationFeatureNames order.
func (r *DurationFeatureRow) Vector() []float64 {
	return append(r.MatchFeatureRow.Vector(), r.TotalKills, r.TotalObjectives)
}

// DurationMinutes is the regression target.
func (r *DurationFeatureRow) DurationMinutes() float64 {
	return r.GameDuration / 60.0
}
