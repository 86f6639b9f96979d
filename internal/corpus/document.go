package corpus

import (
	"encoding/json"
	"fmt"

	"github.com/riftstats/predict-api/internal/models"
)

// matchDocument mirrors the nested shape the ingest pipeline writes into the
// raw_json column. The corpus package owns this wire format; everything
// downstream sees the flat models.MatchRecord.
type matchDocument struct {
	MatchID    string `json:"matchId"`
	Timestamps struct {
		GameDuration int `json:"gameDuration"`
	} `json:"timestamps"`
	Teams []struct {
		TeamID     int  `json:"teamId"`
		Win        bool `json:"win"`
		Objectives struct {
			Baron  struct{ Kills int } `json:"baron"`
			Dragon struct{ Kills int } `json:"dragon"`
			Tower  struct{ Kills int } `json:"tower"`
		} `json:"objectives"`
	} `json:"teams"`
	Participants []struct {
		Champion struct {
			Name  string `json:"name"`
			Level int    `json:"level"`
		} `json:"champion"`
		Position struct {
			TeamID int    `json:"teamId"`
			Role   string `json:"role"`
			Lane   string `json:"lane"`
		} `json:"position"`
		KDA struct {
			Kills   int `json:"kills"`
			Deaths  int `json:"deaths"`
			Assists int `json:"assists"`
		} `json:"kda"`
		Gold struct {
			Earned int `json:"earned"`
		} `json:"gold"`
		Damage struct {
			TotalDealtToChampions int `json:"totalDealtToChampions"`
		} `json:"damage"`
		Farming struct {
			TotalMinionsKilled   int `json:"totalMinionsKilled"`
			NeutralMinionsKilled int `json:"neutralMinionsKilled"`
		} `json:"farming"`
		Win bool `json:"win"`
	} `json:"participants"`
}

// DecodeMatch parses one raw match document. A record that cannot yield a
// usable MatchRecord (no id, missing team entries) is a decode error; the
// caller counts it and moves on.
func DecodeMatch(raw []byte) (*models.MatchRecord, error) {
	var doc matchDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("corpus: decode match: %w", err)
	}
	if doc.MatchID == "" {
		return nil, fmt.Errorf("corpus: match document missing matchId")
	}
	if len(doc.Teams) < 2 {
		return nil, fmt.Errorf("corpus: match %s has %d team entries, want 2", doc.MatchID, len(doc.Teams))
	}

	rec := &models.MatchRecord{
		MatchID:      doc.MatchID,
		GameDuration: doc.Timestamps.GameDuration,
		Teams:        make([]models.TeamObjectives, 0, len(doc.Teams)),
		Participants: make([]models.ParticipantRecord, 0, len(doc.Participants)),
	}
	for _, t := range doc.Teams {
		rec.Teams = append(rec.Teams, models.TeamObjectives{
			TeamID:      t.TeamID,
			Win:         t.Win,
			BaronKills:  t.Objectives.Baron.Kills,
			DragonKills: t.Objectives.Dragon.Kills,
			TowerKills:  t.Objectives.Tower.Kills,
		})
	}
	for _, p := range doc.Participants {
		rec.Participants = append(rec.Participants, models.ParticipantRecord{
			Champion:             p.Champion.Name,
			TeamID:               p.Position.TeamID,
			Level:                p.Champion.Level,
			Kills:                p.KDA.Kills,
			Deaths:               p.KDA.Deaths,
			Assists:              p.KDA.Assists,
			GoldEarned:           p.Gold.Earned,
			DamageToChampions:    p.Damage.TotalDealtToChampions,
			MinionsKilled:        p.Farming.TotalMinionsKilled,
			NeutralMinionsKilled: p.Farming.NeutralMinionsKilled,
			Role:                 p.Position.Role,
			Lane:                 p.Position.Lane,
			Win:                  p.Win,
		})
	}
	return rec, nil
}
