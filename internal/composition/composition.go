// Package composition scores a five-champion roster: role balance, damage
// mix, and aggregate performance drawn from champion profiles.
package composition

import (
	"math"

	"github.com/riftstats/predict-api/internal/models"
	"github.com/riftstats/predict-api/internal/roles"
	"github.com/riftstats/predict-api/internal/synergy"
)

// Balance describes the role makeup of a roster.
type Balance struct {
	TankCount     int
	FighterCount  int
	AssassinCount int
	MageCount     int
	ADCCount      int
	SupportCount  int
	RoleDiversity float64 // normalized Shannon entropy in [0,1]
	DamageBalance float64 // magic share of damage-leaning picks; 0.5 is balanced
	HasTank       bool
	HasSupport    bool
}

// TeamFeatures is the full pre-game feature set for one roster.
type TeamFeatures struct {
	AvgWinRate      float64
	AvgKDA          float64
	AvgKills        float64
	AvgDeaths       float64
	AvgAssists      float64
	AvgGold         float64
	AvgDamage       float64
	AvgCS           float64
	TotalGames      int
	MinWinRate      float64
	MaxWinRate      float64
	WinRateVariance float64
	TeamSynergy     float64
	Balance         Balance
}

// Analyzer combines champion profiles, the synergy table, and the role
// knowledge base. All three are immutable per training run.
type Analyzer struct {
	profiles map[string]models.ChampionStatProfile
	table    *synergy.Table
}

// NewAnalyzer returns an Analyzer over the given auxiliary tables.
func NewAnalyzer(profiles map[string]models.ChampionStatProfile, table *synergy.Table) *Analyzer {
	if profiles == nil {
		profiles = map[string]models.ChampionStatProfile{}
	}
	if table == nil {
		table = synergy.FromRates(nil)
	}
	return &Analyzer{profiles: profiles, table: table}
}

// Profiles exposes the profile table for persistence.
func (a *Analyzer) Profiles() map[string]models.ChampionStatProfile { return a.profiles }

// Synergy exposes the synergy table.
func (a *Analyzer) Synergy() *synergy.Table { return a.table }

// RoleBalance computes role counts and derived balance scores. Duplicate
// picks are tolerated and counted as separate picks.
func RoleBalance(team []string) Balance {
	counts := map[roles.Role]int{}
	for _, champ := range team {
		counts[roles.Of(champ)]++
	}

	b := Balance{
		TankCount:     counts[roles.Tank],
		FighterCount:  counts[roles.Fighter],
		AssassinCount: counts[roles.Assassin],
		MageCount:     counts[roles.Mage],
		ADCCount:      counts[roles.ADC],
		SupportCount:  counts[roles.Support],
		HasTank:       counts[roles.Tank] > 0,
		HasSupport:    counts[roles.Support] > 0,
	}

	// Shannon entropy of the role distribution, normalized by log2(5): five
	// picks can occupy at most five distinct roles.
	total := float64(len(team))
	if total > 0 {
		entropy := 0.0
		for _, c := range counts {
			if c > 0 {
				p := float64(c) / total
				entropy -= p * math.Log2(p)
			}
		}
		b.RoleDiversity = entropy / math.Log2(5)
	}

	physical := counts[roles.Fighter] + counts[roles.Assassin] + counts[roles.ADC]
	magic := counts[roles.Mage]
	if physical+magic > 0 {
		b.DamageBalance = float64(magic) / float64(physical+magic)
	} else {
		b.DamageBalance = 0.5
	}
	return b
}

// TeamFeatures computes the full pre-game feature set for a roster. Champions
// without a profile are excluded from the averages; a roster with no profiled
// champions at all falls back to neutral values.
func (a *Analyzer) TeamFeatures(team []string) TeamFeatures {
	f := TeamFeatures{
		MinWinRate:  0.5,
		MaxWinRate:  0.5,
		TeamSynergy: a.table.TeamScore(team),
		Balance:     RoleBalance(team),
	}

	var winRates []float64
	for _, champ := range team {
		p, ok := a.profiles[champ]
		if !ok {
			continue
		}
		f.AvgWinRate += p.WinRate
		f.AvgKDA += p.AvgKDA
		f.AvgKills += p.AvgKills
		f.AvgDeaths += p.AvgDeaths
		f.AvgAssists += p.AvgAssists
		f.AvgGold += p.AvgGold
		f.AvgDamage += p.AvgDamage
		f.AvgCS += p.AvgCS
		f.TotalGames += p.GamesPlayed
		winRates = append(winRates, p.WinRate)
	}

	if len(winRates) == 0 {
		f.AvgWinRate = 0.5
		return f
	}

	n := float64(len(winRates))
	f.AvgWinRate /= n
	f.AvgKDA /= n
	f.AvgKills /= n
	f.AvgDeaths /= n
	f.AvgAssists /= n
	f.AvgGold /= n
	f.AvgDamage /= n
	f.AvgCS /= n

	f.MinWinRate, f.MaxWinRate = winRates[0], winRates[0]
	mean := f.AvgWinRate
	variance := 0.0
	for _, wr := range winRates {
		if wr < f.MinWinRate {
			f.MinWinRate = wr
		}
		if wr > f.MaxWinRate {
			f.MaxWinRate = wr
		}
		variance += (wr - mean) * (wr - mean)
	}
	f.WinRateVariance = variance / n
	return f
}
