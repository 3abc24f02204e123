package scoring

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/pgctour/scoring-engine/internal/models"
)

// Bracket is the playoff division a tour card competes within.
type Bracket int

const (
	BracketNone Bracket = iota
	BracketGold
	BracketSilver
)

func (b Bracket) String() string {
	switch b {
	case BracketGold:
		return "gold"
	case BracketSilver:
		return "silver"
	}
	return "none"
}

// BracketForCard derives the bracket from the card's playoff flag.
func BracketForCard(card *models.TourCard) Bracket {
	if card == nil {
		return BracketNone
	}
	switch card.Playoff {
	case 1:
		return BracketGold
	case 2:
		return BracketSilver
	}
	return BracketNone
}

// Starting-stroke table sizes and the silver payout offset within a shared
// playoff payout table.
const (
	goldStrokeSlots    = 30
	silverStrokeSlots  = 40
	silverPayoutOffset = 75
)

// SelectionCount returns how many of a team's golfers count toward the team
// total for a round. Event 0 is the regular season.
func SelectionCount(event, round int) int {
	earlyRound := round <= 2
	switch event {
	case 1:
		if earlyRound {
			return 10
		}
		return 5
	case 2:
		return 5
	case 3:
		return 3
	default:
		// Regular season: everyone counts through the cut, then the best five.
		if earlyRound {
			return 10
		}
		return 5
	}
}

// WorstOfDay returns the worst (maximum) contribution among eligible bracket
// peers, the fallback value for teams without enough active golfers. With no
// eligible peers the fallback is even par.
func WorstOfDay(values []float64) float64 {
	worst := 0.0
	for i, v := range values {
		if i == 0 || v > worst {
			worst = v
		}
	}
	return worst
}

// rankedCard pairs a tour card with its 1-based rank within a bracket, where
// ties share a rank range.
type rankedCard struct {
	card *models.TourCard
	rank int
	ties int
}

// rankBracketCards orders a bracket's participating cards by season points
// descending and assigns tie-aware ranks.
func rankBracketCards(cards []*models.TourCard) []rankedCard {
	sorted := make([]*models.TourCard, len(cards))
	copy(sorted, cards)
	slices.SortFunc(sorted, func(a, b *models.TourCard) int {
		if c := cmp.Compare(b.Points, a.Points); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})

	ranked := make([]rankedCard, len(sorted))
	i := 0
	for i < len(sorted) {
		j := i
		for j < len(sorted) && sorted[j].Points == sorted[i].Points {
			j++
		}
		for k := i; k < j; k++ {
			ranked[k] = rankedCard{card: sorted[k], rank: i + 1, ties: j - i}
		}
		i = j
	}
	return ranked
}

// StartingStrokes computes the event-one handicap for one tour card: the
// stroke-table entry at the card's rank within its bracket, averaging across
// the tied rank range when cards share season points. The table is the head
// of the playoff tier's points sequence (30 slots gold, 40 silver); ranks
// past the table carry no strokes.
func StartingStrokes(tier *models.Tier, bracket Bracket, cards []*models.TourCard, cardID uuid.UUID) (float64, error) {
	if tier == nil {
		return 0, fmt.Errorf("%w: playoff tier missing", ErrInsufficientData)
	}

	slots := goldStrokeSlots
	if bracket == BracketSilver {
		slots = silverStrokeSlots
	}
	table := tier.Points
	if len(table) > slots {
		table = table[:slots]
	}

	for _, rc := range rankBracketCards(cards) {
		if rc.card.ID != cardID {
			continue
		}
		var sum float64
		var n int
		for r := rc.rank; r < rc.rank+rc.ties; r++ {
			if r-1 < len(table) {
				sum += table[r-1]
				n++
			}
		}
		if n == 0 {
			return 0, nil
		}
		return RoundTo1(sum / float64(n)), nil
	}

	return 0, fmt.Errorf("tour card %s not seeded in %s bracket", cardID, bracket)
}

// CarryInFor returns the card's cumulative score entering this event,
// inherited from the most recent prior playoff event. Absent cards start
// from zero.
func (p *PlayoffContext) CarryInFor(cardID uuid.UUID) float64 {
	if p == nil || p.CarryIn == nil {
		return 0
	}
	return p.CarryIn[cardID]
}
