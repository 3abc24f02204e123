package scoring

import (
	"cmp"
	"math"
	"slices"

	"github.com/pgctour/scoring-engine/internal/models"
)

// TeamGolfers resolves a team's drafted golfer ids against the tournament's
// golfer pool. Ids with no matching entry are skipped.
func TeamGolfers(team *models.Team, pool map[int64]*models.Golfer) []*models.Golfer {
	golfers := make([]*models.Golfer, 0, len(team.GolferIDs))
	for _, id := range team.GolferIDs {
		if g, ok := pool[id]; ok {
			golfers = append(golfers, g)
		}
	}
	return golfers
}

// ActiveGolfers filters resolved golfers to those not cut, withdrawn or
// disqualified.
func ActiveGolfers(golfers []*models.Golfer) []*models.Golfer {
	active := make([]*models.Golfer, 0, len(golfers))
	for _, g := range golfers {
		if g.Status.IsActive() {
			active = append(active, g)
		}
	}
	return active
}

// roundKey returns the value a golfer is ranked by for a round: the live
// today delta during live play, otherwise raw round strokes relative to par.
// Withdrawn and disqualified golfers carry the fixed penalty for rounds they
// never completed, so they still rank (last, in practice).
func roundKey(g *models.Golfer, round int, live bool, par int) (float64, bool) {
	if live {
		if g.Today == nil {
			return 0, false
		}
		return float64(*g.Today), true
	}
	strokes, ok := effectiveRoundStrokes(g, round, par)
	if !ok {
		return 0, false
	}
	return float64(strokes - par), true
}

// effectiveRoundStrokes returns the strokes that count for a round: the raw
// reported value, or par + 8 for a WD/DQ golfer who never completed it.
func effectiveRoundStrokes(g *models.Golfer, round, par int) (int, bool) {
	if raw := g.RoundStrokes(round); raw != nil {
		return *raw, true
	}
	if g.Status == models.GolferWithdrawn || g.Status == models.GolferDisqualified {
		return par + missedRoundPenalty, true
	}
	return 0, false
}

// missedRoundPenalty is the stroke penalty over par charged to WD/DQ golfers
// for rounds they did not complete.
const missedRoundPenalty = 8

// RankForRound orders golfers ascending by their round key, breaking ties by
// cumulative score then external id. The cascade makes the order total: no
// two distinct golfers ever compare equal. Golfers with no value for the
// round sort last.
func RankForRound(golfers []*models.Golfer, round int, live bool, par int) []*models.Golfer {
	ranked := make([]*models.Golfer, len(golfers))
	copy(ranked, golfers)

	slices.SortFunc(ranked, func(a, b *models.Golfer) int {
		av, aok := roundKey(a, round, live, par)
		bv, bok := roundKey(b, round, live, par)
		if aok != bok {
			if aok {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(av, bv); c != 0 {
			return c
		}
		if c := cmp.Compare(cumulativeScore(a), cumulativeScore(b)); c != 0 {
			return c
		}
		return cmp.Compare(a.ApiID, b.ApiID)
	})

	return ranked
}

// TopNForRound returns the best n golfers for a round per RankForRound. It
// returns all golfers when n is at least the pool size.
func TopNForRound(golfers []*models.Golfer, round int, live bool, par, n int) []*models.Golfer {
	if n < 0 {
		n = 0
	}
	ranked := RankForRound(golfers, round, live, par)
	if n >= len(ranked) {
		return ranked
	}
	return ranked[:n]
}

func cumulativeScore(g *models.Golfer) float64 {
	if g.Score == nil {
		return math.Inf(1)
	}
	return float64(*g.Score)
}
