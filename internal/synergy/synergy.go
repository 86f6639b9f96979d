// Package synergy computes empirical pairwise champion win rates from
// historical drafts. A pair's entry exists only once it has been seen together
// often enough; absence means "insufficient data", not a zero win rate.
package synergy

import (
	"go.uber.org/zap"

	"github.com/riftstats/predict-api/internal/models"
)

// MinPairGames is the minimum number of shared games before a pair earns a
// table entry.
const MinPairGames = 5

// NeutralScore is returned when a roster has no known pairs at all. It is an
// explicit no-information signal, not an error.
const NeutralScore = 0.5

// Pair is an unordered champion pair stored in canonical order (A <= B), so
// (X,Y) and (Y,X) address the same entry.
type Pair struct {
	A, B string
}

// NewPair canonicalizes the two champions into a Pair.
func NewPair(a, b string) Pair {
	if b < a {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// Table maps champion pairs to their empirical shared win rate.
type Table struct {
	rates map[Pair]float64
}

// counter accumulates a pair's record during the build pass.
type counter struct {
	wins, games int
}

// Build runs the full synergy pass: for every draft, all C(5,2)=10 teammate
// pairs on each side are credited with a game, and with a win if that side
// won. The table is only valid after the complete pass; it is not
// incrementally updatable.
func Build(drafts []models.Draft, logger *zap.SugaredLogger) *Table {
	counts := make(map[Pair]*counter)
	credit := func(team []string, won bool) {
		for i := 0; i < len(team); i++ {
			for j := i + 1; j < len(team); j++ {
				p := NewPair(team[i], team[j])
				c := counts[p]
				if c == nil {
					c = &counter{}
					counts[p] = c
				}
				c.games++
				if won {
					c.wins++
				}
			}
		}
	}

	for _, d := range drafts {
		credit(d.Blue, d.BlueWin)
		credit(d.Red, !d.BlueWin)
	}

	t := &Table{rates: make(map[Pair]float64)}
	for p, c := range counts {
		if c.games >= MinPairGames {
			t.rates[p] = float64(c.wins) / float64(c.games)
		}
	}

	if logger != nil {
		logger.Infow("Built synergy table",
			"pairs_observed", len(counts), "pairs_kept", len(t.rates))
	}
	return t
}

// FromRates reconstructs a table from persisted entries (bundle load path).
func FromRates(rates map[Pair]float64) *Table {
	if rates == nil {
		rates = map[Pair]float64{}
	}
	return &Table{rates: rates}
}

// Rates exposes the underlying entries for persistence.
func (t *Table) Rates() map[Pair]float64 { return t.rates }

// Len returns the number of pairs meeting the sample threshold.
func (t *Table) Len() int { return len(t.rates) }

// Lookup returns the win rate for an unordered pair. ok is false when the
// pair never met the sample threshold.
func (t *Table) Lookup(a, b string) (rate float64, ok bool) {
	rate, ok = t.rates[NewPair(a, b)]
	return rate, ok
}

// TeamScore averages the known pairwise win rates across a roster's pairs.
// Unknown pairs contribute no term; a roster with zero known pairs scores
// exactly NeutralScore.
func (t *Table) TeamScore(team []string) float64 {
	sum, n := 0.0, 0
	for i := 0; i < len(team); i++ {
		for j := i + 1; j < len(team); j++ {
			if rate, ok := t.Lookup(team[i], team[j]); ok {
				sum += rate
				n++
			}
		}
	}
	if n == 0 {
		return NeutralScore
	}
	return sum / float64(n)
}
