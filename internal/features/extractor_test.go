package features

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/riftstats/predict-api/internal/corpus"
	"github.com/riftstats/predict-api/internal/models"
)

func testMatch(id string, blueWin bool, blueChamps, redChamps []string) models.MatchRecord {
	rec := models.MatchRecord{
		MatchID:      id,
		GameDuration: 1800,
		Teams: []models.TeamObjectives{
			{TeamID: models.TeamBlue, Win: blueWin, BaronKills: 1, DragonKills: 2, TowerKills: 7},
			{TeamID: models.TeamRed, Win: !blueWin, BaronKills: 0, DragonKills: 1, TowerKills: 3},
		},
	}
	for i, c := range blueChamps {
		rec.Participants = append(rec.Participants, models.ParticipantRecord{
			Champion: c, TeamID: models.TeamBlue, Level: 14 + i,
			Kills: 3, Deaths: 2, Assists: 5,
			GoldEarned: 11000, DamageToChampions: 18000, MinionsKilled: 150,
			Win: blueWin,
		})
	}
	for i, c := range redChamps {
		rec.Participants = append(rec.Participants, models.ParticipantRecord{
			Champion: c, TeamID: models.TeamRed, Level: 13 + i,
			Kills: 2, Deaths: 3, Assists: 4,
			GoldEarned: 10000, DamageToChampions: 16000, MinionsKilled: 140,
			Win: !blueWin,
		})
	}
	return rec
}

var (
	blueFive = []string{"Ahri", "Garen", "Ashe", "Thresh", "LeeSin"}
	redFive  = []string{"Zed", "Malphite", "Jinx", "Leona", "Vi"}
)

func newTestExtractor(records []models.MatchRecord) *Extractor {
	return NewExtractor(corpus.NewMemoryReader(records, 42), zap.NewNop().Sugar())
}

func TestMatchRowsValues(t *testing.T) {
	e := newTestExtractor([]models.MatchRecord{testMatch("m1", true, blueFive, redFive)})

	rows, err := e.MatchRows(context.Background(), ExtractOptions{})
	if err != nil {
		t.Fatalf("MatchRows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}

	r := rows[0]
	if r.BlueKills != 15 {
		t.Errorf("BlueKills = %v, want 15", r.BlueKills)
	}
	if r.RedKills != 10 {
		t.Errorf("RedKills = %v, want 10", r.RedKills)
	}
	if r.GoldDiff != 5000 {
		t.Errorf("GoldDiff = %v, want 5000", r.GoldDiff)
	}
	if r.TowerDiff != 4 {
		t.Errorf("TowerDiff = %v, want 4", r.TowerDiff)
	}
	if r.BlueWin != 1 {
		t.Errorf("BlueWin = %d, want 1", r.BlueWin)
	}
	if got := len(r.Vector()); got != len(models.MatchFeatureNames) {
		t.Errorf("vector width = %d, want %d", got, len(models.MatchFeatureNames))
	}
}

func TestMatchRowsSkipsIncomplete(t *testing.T) {
	missingRed := models.MatchRecord{
		MatchID: "broken",
		Teams: []models.TeamObjectives{
			{TeamID: models.TeamBlue, Win: true},
		},
		Participants: []models.ParticipantRecord{
			{Champion: "Ahri", TeamID: models.TeamBlue},
		},
	}
	e := newTestExtractor([]models.MatchRecord{missingRed, testMatch("ok", false, blueFive, redFive)})

	rows, err := e.MatchRows(context.Background(), ExtractOptions{})
	if err != nil {
		t.Fatalf("MatchRows: %v", err)
	}
	if len(rows) != 1 || rows[0].MatchID != "ok" {
		t.Fatalf("expected only the complete match, got %d rows", len(rows))
	}
}

func TestMatchRowsSkipsMalformedRaw(t *testing.T) {
	reader := corpus.NewMemoryReader([]models.MatchRecord{testMatch("ok", true, blueFive, redFive)}, 42)
	reader.AddRaw([]byte(`{"not a match`))
	e := NewExtractor(reader, zap.NewNop().Sugar())

	rows, err := e.MatchRows(context.Background(), ExtractOptions{})
	if err != nil {
		t.Fatalf("MatchRows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
}

func TestDurationRowsSkipZeroDuration(t *testing.T) {
	zeroDur := testMatch("zero", true, blueFive, redFive)
	zeroDur.GameDuration = 0
	e := newTestExtractor([]models.MatchRecord{zeroDur, testMatch("ok", true, blueFive, redFive)})

	rows, err := e.DurationRows(context.Background(), ExtractOptions{})
	if err != nil {
		t.Fatalf("DurationRows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}

	r := rows[0]
	if r.TotalKills != 25 {
		t.Errorf("TotalKills = %v, want 25", r.TotalKills)
	}
	if r.TotalObjectives != 4 {
		t.Errorf("TotalObjectives = %v, want 4", r.TotalObjectives)
	}
	if r.DurationMinutes() != 30 {
		t.Errorf("DurationMinutes = %v, want 30", r.DurationMinutes())
	}
	if got := len(r.Vector()); got != len(models.DurationFeatureNames) {
		t.Errorf("vector width = %d, want %d", got, len(models.DurationFeatureNames))
	}
}

func TestDraftsRequireFullRosters(t *testing.T) {
	fourPick := testMatch("four", true, blueFive[:4], redFive)
	e := newTestExtractor([]models.MatchRecord{fourPick, testMatch("ok", false, blueFive, redFive)})

	drafts, err := e.Drafts(context.Background(), ExtractOptions{})
	if err != nil {
		t.Fatalf("Drafts: %v", err)
	}
	if len(drafts) != 1 {
		t.Fatalf("got %d drafts, want 1", len(drafts))
	}
	d := drafts[0]
	if d.BlueWin {
		t.Error("BlueWin = true, want false")
	}
	if len(d.Blue) != 5 || len(d.Red) != 5 {
		t.Errorf("roster sizes %d/%d, want 5/5", len(d.Blue), len(d.Red))
	}
}

func TestChampionProfilesThreshold(t *testing.T) {
	var records []models.MatchRecord
	for i := 0; i < 12; i++ {
		records = append(records, testMatch("m", i%2 == 0, blueFive, redFive))
	}
	// One appearance only; must fall under the threshold.
	rare := testMatch("rare", true, []string{"Singed", "Garen", "Ashe", "Thresh", "LeeSin"}, redFive)
	records = append(records, rare)

	e := newTestExtractor(records)
	profiles, err := e.ChampionProfiles(context.Background(), MinProfileGames)
	if err != nil {
		t.Fatalf("ChampionProfiles: %v", err)
	}

	if _, ok := profiles["Singed"]; ok {
		t.Error("Singed profiled with 1 game, threshold is 10")
	}
	ahri, ok := profiles["Ahri"]
	if !ok {
		t.Fatal("Ahri missing from profiles")
	}
	if ahri.GamesPlayed != 12 {
		t.Errorf("Ahri games = %d, want 12", ahri.GamesPlayed)
	}
	if ahri.WinRate != 0.5 {
		t.Errorf("Ahri win rate = %v, want 0.5", ahri.WinRate)
	}
	if ahri.AvgKDA != 4 {
		t.Errorf("Ahri KDA = %v, want (3+5)/2 = 4", ahri.AvgKDA)
	}
}

func TestKDARatioZeroDeaths(t *testing.T) {
	if got := KDARatio(4, 0, 6); got != 10 {
		t.Errorf("KDARatio(4,0,6) = %v, want 10", got)
	}
	if got := KDARatio(4, 0.5, 6); got != 10 {
		t.Errorf("KDARatio floors deaths below 1: got %v, want 10", got)
	}
	if got := KDARatio(4, 2, 6); got != 5 {
		t.Errorf("KDARatio(4,2,6) = %v, want 5", got)
	}
}

func TestSamplingDeterministic(t *testing.T) {
	var records []models.MatchRecord
	for i := 0; i < 50; i++ {
		id := string(rune('a' + i%26))
		records = append(records, testMatch(id, i%2 == 0, blueFive, redFive))
	}

	run := func() []string {
		e := newTestExtractor(records)
		rows, err := e.MatchRows(context.Background(), ExtractOptions{Limit: 10, Sample: true})
		if err != nil {
			t.Fatalf("MatchRows: %v", err)
		}
		ids := make([]string, len(rows))
		for i, r := range rows {
			ids[i] = r.MatchID
		}
		return ids
	}

	first, second := run(), run()
	if len(first) != 10 {
		t.Fatalf("sampled %d rows, want 10", len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("same seed produced different samples at %d", i)
		}
	}
}
