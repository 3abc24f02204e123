package scoring

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/pgctour/scoring-engine/internal/models"
)

// AssignStandings post-processes the full team-row set: within each
// comparison group (tour for the regular season, playoff bracket otherwise)
// it sorts eligible teams, assigns tie-aware positions and past positions,
// and allocates points and earnings from the tier tables. CUT and no-score
// teams stay in the output but never enter a comparison.
func AssignStandings(snap *Snapshot, event int, results []TeamResult) error {
	tier := snap.Tournament.Tier
	if tier == nil {
		return fmt.Errorf("%w: tournament tier not loaded", ErrInsufficientData)
	}

	groups := make(map[string][]*TeamResult)
	for i := range results {
		r := &results[i]
		if r.IsCut() || r.Score == nil {
			continue
		}
		var key string
		if event > 0 {
			key = r.Bracket.String()
		} else {
			card := snap.TourCards[r.TourCardID]
			if card == nil {
				continue
			}
			key = card.TourID.String()
		}
		groups[key] = append(groups[key], r)
	}

	for _, group := range groups {
		assignPositions(group)
		assignPastPositions(group)
		if err := assignPrizes(tier, event, group); err != nil {
			return err
		}
	}
	return nil
}

// positionLabel formats a tie-aware rank: "T4" when shared, "4" otherwise.
func positionLabel(rank, ties int) string {
	if ties > 1 {
		return "T" + strconv.Itoa(rank)
	}
	return strconv.Itoa(rank)
}

func sortByScore(group []*TeamResult, score func(*TeamResult) float64) {
	slices.SortFunc(group, func(a, b *TeamResult) int {
		if c := cmp.Compare(score(a), score(b)); c != 0 {
			return c
		}
		return cmp.Compare(a.TeamID.String(), b.TeamID.String())
	})
}

// walkTies visits each run of equal scores in an already-sorted group with
// its 1-based rank and run length.
func walkTies(group []*TeamResult, score func(*TeamResult) float64, visit func(rank int, tied []*TeamResult)) {
	i := 0
	for i < len(group) {
		j := i
		for j < len(group) && score(group[j]) == score(group[i]) {
			j++
		}
		visit(i+1, group[i:j])
		i = j
	}
}

func assignPositions(group []*TeamResult) {
	score := func(r *TeamResult) float64 { return *r.Score }
	sortByScore(group, score)
	walkTies(group, score, func(rank int, tied []*TeamResult) {
		for _, r := range tied {
			r.Position = positionLabel(rank, len(tied))
		}
	})
}

func assignPastPositions(group []*TeamResult) {
	past := make([]*TeamResult, 0, len(group))
	for _, r := range group {
		if r.PastScore != nil {
			past = append(past, r)
		}
	}
	score := func(r *TeamResult) float64 { return *r.PastScore }
	sortByScore(past, score)
	walkTies(past, score, func(rank int, tied []*TeamResult) {
		for _, r := range tied {
			r.PastPosition = positionLabel(rank, len(tied))
		}
	})
	// Restore the score ordering disturbed by the past-score sort.
	sortByScore(group, func(r *TeamResult) float64 { return *r.Score })
}

// assignPrizes allocates points and earnings for one sorted comparison group.
// Tied teams split the corresponding table slice evenly. Playoff events one
// and two award nothing; the playoff final awards earnings only, from the
// bracket's reserved range of the shared payout table.
func assignPrizes(tier *models.Tier, event int, group []*TeamResult) error {
	if event == 1 || event == 2 {
		for _, r := range group {
			r.Points = floatPtr(0)
			r.Earnings = floatPtr(0)
		}
		return nil
	}

	payoutOffset := 0
	if event == 3 && len(group) > 0 && group[0].Bracket == BracketSilver {
		payoutOffset = silverPayoutOffset
	}

	points := []float64(tier.Points)
	payouts := []float64(tier.Payouts)

	var walkErr error
	score := func(r *TeamResult) float64 { return *r.Score }
	walkTies(group, score, func(rank int, tied []*TeamResult) {
		if walkErr != nil {
			return
		}
		k := len(tied)

		earnings, err := sliceAverage(payouts, payoutOffset+rank-1, k)
		if err != nil {
			walkErr = fmt.Errorf("%w: payout table short at position %d", ErrInsufficientData, rank)
			return
		}

		var pts float64
		if event == 0 {
			pts, err = sliceAverage(points, rank-1, k)
			if err != nil {
				walkErr = fmt.Errorf("%w: points table short at position %d", ErrInsufficientData, rank)
				return
			}
			pts = math.Round(pts)
		}

		for _, r := range tied {
			r.Points = floatPtr(pts)
			r.Earnings = floatPtr(RoundTo2(earnings))
		}
	})
	return walkErr
}

func sliceAverage(table []float64, start, n int) (float64, error) {
	if start < 0 || n <= 0 || start+n > len(table) {
		return 0, fmt.Errorf("table slice [%d:%d) out of range", start, start+n)
	}
	var sum float64
	for _, v := range table[start : start+n] {
		sum += v
	}
	return sum / float64(n), nil
}
