package models

// Team identifiers as sent by the game client.
const (
	TeamBlue = 100
	TeamRed  = 200
)

// ParticipantRecord is one player's line in a finished match. It is owned by
// its MatchRecord and never updated after ingest.
type ParticipantRecord struct {
	Champion             string `json:"champion"`
	TeamID               int    `json:"team_id"`
	Level                int    `json:"level"`
	Kills                int    `json:"kills"`
	Deaths               int    `json:"deaths"`
	Assists              int    `json:"assists"`
	GoldEarned           int    `json:"gold_earned"`
	DamageToChampions    int    `json:"damage_to_champions"`
	MinionsKilled        int    `json:"minions_killed"`
	NeutralMinionsKilled int    `json:"neutral_minions_killed"`
	Role                 string `json:"role"`
	Lane                 string `json:"lane"`
	Win                  bool   `json:"win"`
}

// CS returns total creep score including jungle camps.
func (p *ParticipantRecord) CS() int {
	return p.MinionsKilled + p.NeutralMinionsKilled
}

// TeamObjectives summarizes one side's objective takes and the win flag.
type TeamObjectives struct {
	TeamID      int  `json:"team_id"`
	Win         bool `json:"win"`
	BaronKills  int  `json:"baron_kills"`
	DragonKills int  `json:"dragon_kills"`
	TowerKills  int  `json:"tower_kills"`
}

// MatchRecord is a single ingested 5v5 match. Immutable once created; the
// pipeline only ever reads it.
type MatchRecord struct {
	MatchID      string              `json:"match_id"`
	GameDuration int                 `json:"game_duration"` // seconds
	Teams        []TeamObjectives    `json:"teams"`
	Participants []ParticipantRecord `json:"participants"`
}

// TeamParticipants returns the participants on the given side in pick order.
func (m *MatchRecord) TeamParticipants(teamID int) []ParticipantRecord {
	out := make([]ParticipantRecord, 0, 5)
	for _, p := range m.Participants {
		if p.TeamID == teamID {
			out = append(out, p)
		}
	}
	return out
}

// TeamObjectives returns the objective summary for the given side, or nil if
// the record is missing that team entry.
func (m *MatchRecord) TeamObjectivesFor(teamID int) *TeamObjectives {
	for i := range m.Teams {
		if m.Teams[i].TeamID == teamID {
			return &m.Teams[i]
		}
	}
	return nil
}

// Draft is the pre-game view of a match: five picks per side plus the outcome.
type Draft struct {
	Blue    []string `json:"blue"`
	Red     []string `json:"red"`
	BlueWin bool     `json:"blue_win"`
}

// ChampionStatProfile is a per-champion aggregate over the full corpus.
// Recomputed per training run, never updated incrementally.
type ChampionStatProfile struct {
	Champion    string  `json:"champion"`
	GamesPlayed int     `json:"games_played"`
	Wins        int     `json:"wins"`
	WinRate     float64 `json:"win_rate"` // fraction in [0,1]
	AvgKills    float64 `json:"avg_kills"`
	AvgDeaths   float64 `json:"avg_deaths"`
	AvgAssists  float64 `json:"avg_assists"`
	AvgKDA      float64 `json:"avg_kda"`
	AvgGold     float64 `json:"avg_gold"`
	AvgDamage   float64 `json:"avg_damage"`
	AvgCS       float64 `json:"avg_cs"`
}
