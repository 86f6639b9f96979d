// Package features turns raw match records into the flat rows the estimators
// train on. Extraction is a best-effort bulk job: malformed records are
// skipped and counted, never fatal to the batch.
package features

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/riftstats/predict-api/internal/corpus"
	"github.com/riftstats/predict-api/internal/models"
)

// Champion sample-size thresholds. Profiles below MinProfileGames are not
// emitted at all; downstream statistics that need trustworthy averages
// (clustering-grade) additionally require MinReliableGames.
const (
	MinProfileGames  = 10
	MinReliableGames = 100
)

var (
	matchesExtracted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rift_matches_extracted_total",
		Help: "Matches successfully flattened into feature rows",
	})
	recordsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rift_records_skipped_total",
		Help: "Corpus records skipped during extraction (malformed or incomplete)",
	})
)

// ExtractOptions bounds an extraction pass.
type ExtractOptions struct {
	// Limit caps the number of matches. Zero scans the whole corpus.
	Limit int
	// Sample takes a uniform random sample of Limit matches.
	Sample bool
}

// Extractor reads the corpus and produces feature rows, drafts, and champion
// profiles.
type Extractor struct {
	reader corpus.Reader
	logger *zap.SugaredLogger
}

// NewExtractor returns an Extractor over the given corpus.
func NewExtractor(reader corpus.Reader, logger *zap.SugaredLogger) *Extractor {
	return &Extractor{reader: reader, logger: logger}
}

// MatchRows produces one MatchFeatureRow per usable match.
func (e *Extractor) MatchRows(ctx context.Context, opts ExtractOptions) ([]models.MatchFeatureRow, error) {
	var rows []models.MatchFeatureRow
	skippedHere := 0

	skipped, err := e.reader.ForEachMatch(ctx, corpus.ScanOptions{Limit: opts.Limit, Sample: opts.Sample},
		func(rec *models.MatchRecord) error {
			row, ok := flattenMatch(rec)
			if !ok {
				skippedHere++
				return nil
			}
			rows = append(rows, *row)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("features: extract match rows: %w", err)
	}

	matchesExtracted.Add(float64(len(rows)))
	recordsSkipped.Add(float64(skipped + skippedHere))
	e.logger.Infow("Extracted match feature rows",
		"rows", len(rows), "skipped", skipped+skippedHere)
	return rows, nil
}

// DurationRows produces duration-regression rows: the match features plus
// pace indicators. Matches with a non-positive duration are skipped.
func (e *Extractor) DurationRows(ctx context.Context, opts ExtractOptions) ([]models.DurationFeatureRow, error) {
	base, err := e.MatchRows(ctx, opts)
	if err != nil {
		return nil, err
	}

	rows := make([]models.DurationFeatureRow, 0, len(base))
	for _, m := range base {
		if m.GameDuration <= 0 {
			recordsSkipped.Inc()
			continue
		}
		minutes := m.GameDuration / 60.0
		row := models.DurationFeatureRow{
			MatchFeatureRow: m,
			TotalKills:      m.BlueKills + m.RedKills,
			TotalObjectives: m.BlueDragons + m.RedDragons + m.BlueBarons + m.RedBarons,
			BlueGoldPerMin:  m.BlueGold / minutes,
			RedGoldPerMin:   m.RedGold / minutes,
			BlueKillsPerMin: m.BlueKills / minutes,
			RedKillsPerMin:  m.RedKills / minutes,
		}
		row.KillsPerMin = row.TotalKills / minutes
		rows = append(rows, row)
	}
	return rows, nil
}

// Drafts extracts the pre-game view: five picks per side plus the outcome.
// Incomplete drafts (missing picks, unknown winner) are skipped.
func (e *Extractor) Drafts(ctx context.Context, opts ExtractOptions) ([]models.Draft, error) {
	var drafts []models.Draft
	skippedHere := 0

	skipped, err := e.reader.ForEachMatch(ctx, corpus.ScanOptions{Limit: opts.Limit, Sample: opts.Sample},
		func(rec *models.MatchRecord) error {
			d, ok := draftOf(rec)
			if !ok {
				skippedHere++
				return nil
			}
			drafts = append(drafts, *d)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("features: extract drafts: %w", err)
	}

	recordsSkipped.Add(float64(skipped + skippedHere))
	e.logger.Infow("Extracted drafts", "drafts", len(drafts), "skipped", skipped+skippedHere)
	return drafts, nil
}

// ChampionProfiles aggregates per-champion statistics over the full corpus.
// This needs a complete pass before any profile is final. Champions with
// fewer than minGames games are omitted from the result.
func (e *Extractor) ChampionProfiles(ctx context.Context, minGames int) (map[string]models.ChampionStatProfile, error) {
	type acc struct {
		games, wins                              int
		kills, deaths, assists, gold, damage, cs int
	}
	accs := make(map[string]*acc)

	skipped, err := e.reader.ForEachMatch(ctx, corpus.ScanOptions{}, func(rec *models.MatchRecord) error {
		for i := range rec.Participants {
			p := &rec.Participants[i]
			if p.Champion == "" {
				continue
			}
			a := accs[p.Champion]
			if a == nil {
				a = &acc{}
				accs[p.Champion] = a
			}
			a.games++
			if p.Win {
				a.wins++
			}
			a.kills += p.Kills
			a.deaths += p.Deaths
			a.assists += p.Assists
			a.gold += p.GoldEarned
			a.damage += p.DamageToChampions
			a.cs += p.CS()
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("features: champion profiles: %w", err)
	}
	recordsSkipped.Add(float64(skipped))

	profiles := make(map[string]models.ChampionStatProfile, len(accs))
	for champ, a := range accs {
		if a.games < minGames {
			continue
		}
		n := float64(a.games)
		p := models.ChampionStatProfile{
			Champion:    champ,
			GamesPlayed: a.games,
			Wins:        a.wins,
			WinRate:     float64(a.wins) / n,
			AvgKills:    float64(a.kills) / n,
			AvgDeaths:   float64(a.deaths) / n,
			AvgAssists:  float64(a.assists) / n,
			AvgGold:     float64(a.gold) / n,
			AvgDamage:   float64(a.damage) / n,
			AvgCS:       float64(a.cs) / n,
		}
		p.AvgKDA = KDARatio(p.AvgKills, p.AvgDeaths, p.AvgAssists)
		profiles[champ] = p
	}

	e.logger.Infow("Aggregated champion profiles",
		"champions", len(profiles), "min_games", minGames)
	return profiles, nil
}

// KDARatio computes (kills + assists) / max(deaths, 1). Flooring the
// denominator at 1 keeps a zero-death average finite; this convention must
// match across training and inference.
func KDARatio(avgKills, avgDeaths, avgAssists float64) float64 {
	den := avgDeaths
	if den < 1 {
		den = 1
	}
	return (avgKills + avgAssists) / den
}

// flattenMatch turns a raw record into a feature row. Returns false when the
// record lacks either side's participants or objective entries.
func flattenMatch(rec *models.MatchRecord) (*models.MatchFeatureRow, bool) {
	blue := rec.TeamParticipants(models.TeamBlue)
	red := rec.TeamParticipants(models.TeamRed)
	if len(blue) == 0 || len(red) == 0 {
		return nil, false
	}
	blueObj := rec.TeamObjectivesFor(models.TeamBlue)
	redObj := rec.TeamObjectivesFor(models.TeamRed)
	if blueObj == nil || redObj == nil {
		return nil, false
	}

	row := &models.MatchFeatureRow{
		MatchID:      rec.MatchID,
		GameDuration: float64(rec.GameDuration),
		BlueAvgLevel: avgLevel(blue),
		RedAvgLevel:  avgLevel(red),
		BlueBarons:   float64(blueObj.BaronKills),
		RedBarons:    float64(redObj.BaronKills),
		BlueDragons:  float64(blueObj.DragonKills),
		RedDragons:   float64(redObj.DragonKills),
		BlueTowers:   float64(blueObj.TowerKills),
		RedTowers:    float64(redObj.TowerKills),
	}
	for _, p := range blue {
		row.BlueKills += float64(p.Kills)
		row.BlueDeaths += float64(p.Deaths)
		row.BlueAssists += float64(p.Assists)
		row.BlueGold += float64(p.GoldEarned)
		row.BlueDamage += float64(p.DamageToChampions)
		row.BlueCS += float64(p.MinionsKilled)
	}
	for _, p := range red {
		row.RedKills += float64(p.Kills)
		row.RedDeaths += float64(p.Deaths)
		row.RedAssists += float64(p.Assists)
		row.RedGold += float64(p.GoldEarned)
		row.RedDamage += float64(p.DamageToChampions)
		row.RedCS += float64(p.MinionsKilled)
	}

	row.GoldDiff = row.BlueGold - row.RedGold
	row.KillsDiff = row.BlueKills - row.RedKills
	row.DamageDiff = row.BlueDamage - row.RedDamage
	row.CSDiff = row.BlueCS - row.RedCS
	row.TowerDiff = row.BlueTowers - row.RedTowers
	row.DragonDiff = row.BlueDragons - row.RedDragons
	if blueObj.Win {
		row.BlueWin = 1
	}
	return row, true
}

func draftOf(rec *models.MatchRecord) (*models.Draft, bool) {
	blue := rec.TeamParticipants(models.TeamBlue)
	red := rec.TeamParticipants(models.TeamRed)
	if len(blue) != 5 || len(red) != 5 {
		return nil, false
	}
	blueObj := rec.TeamObjectivesFor(models.TeamBlue)
	redObj := rec.TeamObjectivesFor(models.TeamRed)
	if blueObj == nil || redObj == nil {
		return nil, false
	}
	if !blueObj.Win && !redObj.Win {
		return nil, false
	}

	d := &models.Draft{BlueWin: blueObj.Win}
	for _, p := range blue {
		if p.Champion == "" {
			return nil, false
		}
		d.Blue = append(d.Blue, p.Champion)
	}
	for _, p := range red {
		if p.Champion == "" {
			return nil, false
		}
		d.Red = append(d.Red, p.Champion)
	}
	return d, true
}

func avgLevel(ps []models.ParticipantRecord) float64 {
	if len(ps) == 0 {
		return 0
	}
	sum := 0
	for _, p := range ps {
		sum += p.Level
	}
	return float64(sum) / float64(len(ps))
}
