package scoring

import (
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgctour/scoring-engine/internal/models"
)

func TestSelectionCount(t *testing.T) {
	tests := []struct {
		name  string
		event int
		round int
		want  int
	}{
		{name: "event 1 early", event: 1, round: 1, want: 10},
		{name: "event 1 round 2", event: 1, round: 2, want: 10},
		{name: "event 1 weekend", event: 1, round: 3, want: 5},
		{name: "event 2 early", event: 2, round: 1, want: 5},
		{name: "event 2 weekend", event: 2, round: 4, want: 5},
		{name: "event 3 early", event: 3, round: 2, want: 3},
		{name: "event 3 weekend", event: 3, round: 3, want: 3},
		{name: "regular early", event: 0, round: 1, want: 10},
		{name: "regular weekend", event: 0, round: 4, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectionCount(tt.event, tt.round))
		})
	}
}

func TestBracketForCard(t *testing.T) {
	assert.Equal(t, BracketGold, BracketForCard(&models.TourCard{Playoff: 1}))
	assert.Equal(t, BracketSilver, BracketForCard(&models.TourCard{Playoff: 2}))
	assert.Equal(t, BracketNone, BracketForCard(&models.TourCard{Playoff: 0}))
	assert.Equal(t, BracketNone, BracketForCard(nil))
}

func TestIsPlayoff(t *testing.T) {
	assert.True(t, (&models.Tournament{Name: "PGC Playoff Event 2"}).IsPlayoff())
	assert.True(t, (&models.Tournament{Name: "Finale", Tier: &models.Tier{Name: "Playoffs"}}).IsPlayoff())
	assert.False(t, (&models.Tournament{Name: "The Open", Tier: &models.Tier{Name: "major"}}).IsPlayoff())
}

func TestWorstOfDay(t *testing.T) {
	assert.Equal(t, 3.2, WorstOfDay([]float64{-2.0, 3.2, 0.4}))
	assert.Equal(t, -1.0, WorstOfDay([]float64{-4.0, -1.0}))
	assert.Equal(t, 0.0, WorstOfDay(nil))
}

func strokeTier(entries int) *models.Tier {
	points := make(pq.Float64Array, entries)
	for i := range points {
		points[i] = float64(entries-i) / 2 // descending stroke handicap
	}
	return &models.Tier{ID: uuid.New(), Name: "playoffs", Points: points}
}

func seededCards(points ...float64) []*models.TourCard {
	cards := make([]*models.TourCard, len(points))
	for i, p := range points {
		cards[i] = &models.TourCard{ID: uuid.New(), Points: p, Playoff: 1}
	}
	return cards
}

// Third of thirty in the gold bracket with no ties seeds from the third
// stroke-table entry.
func TestStartingStrokesRankThree(t *testing.T) {
	tier := strokeTier(30)
	points := make([]float64, 30)
	for i := range points {
		points[i] = float64(1000 - i*10)
	}
	cards := seededCards(points...)

	strokes, err := StartingStrokes(tier, BracketGold, cards, cards[2].ID)

	require.NoError(t, err)
	assert.InDelta(t, float64(tier.Points[2]), strokes, 1e-9)
}

// Cards tied on season points average the stroke values across the tied
// rank range.
func TestStartingStrokesTiedSeeds(t *testing.T) {
	tier := strokeTier(30)
	cards := seededCards(900, 900, 700)

	for _, id := range []uuid.UUID{cards[0].ID, cards[1].ID} {
		strokes, err := StartingStrokes(tier, BracketGold, cards, id)
		require.NoError(t, err)
		assert.InDelta(t, RoundTo1((tier.Points[0]+tier.Points[1])/2), strokes, 1e-9)
	}

	third, err := StartingStrokes(tier, BracketGold, cards, cards[2].ID)
	require.NoError(t, err)
	assert.InDelta(t, float64(tier.Points[2]), third, 1e-9)
}

// Seeds past the stroke table carry no handicap.
func TestStartingStrokesBeyondTable(t *testing.T) {
	tier := strokeTier(2)
	cards := seededCards(900, 800, 700)

	strokes, err := StartingStrokes(tier, BracketGold, cards, cards[2].ID)

	require.NoError(t, err)
	assert.Equal(t, 0.0, strokes)
}

func TestStartingStrokesUnknownCard(t *testing.T) {
	tier := strokeTier(30)
	cards := seededCards(900)

	_, err := StartingStrokes(tier, BracketGold, cards, uuid.New())
	assert.Error(t, err)
}

func TestCarryInFor(t *testing.T) {
	cardID := uuid.New()
	p := &PlayoffContext{Event: 2, CarryIn: map[uuid.UUID]float64{cardID: -12.5}}

	assert.Equal(t, -12.5, p.CarryInFor(cardID))
	assert.Equal(t, 0.0, p.CarryInFor(uuid.New()))

	var nilCtx *PlayoffContext
	assert.Equal(t, 0.0, nilCtx.CarryInFor(cardID))
}
