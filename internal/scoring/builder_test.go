package scoring

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgctour/scoring-engine/internal/models"
)

func testEngine() *Engine {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewEngine(logger)
}

// Post-round-three regular tournament: ten golfers count in rounds one and
// two, the best five actives in round three. Raw round-three scores of
// 68/70/71/72/74 on par 72 average 71.0 and one under.
func TestComputeRegularPostRoundThree(t *testing.T) {
	sb := newSnapshotBuilder(72, 4, false)

	specs := make([]golferSpec, 0, 10)
	r3 := []int{68, 70, 71, 72, 74}
	for i := 0; i < 5; i++ {
		specs = append(specs, golferSpec{
			apiID:  int64(i + 1),
			rounds: [4]*int{intPtr(72), intPtr(72), intPtr(r3[i])},
			score:  intPtr(r3[i] - 72),
		})
	}
	for i := 5; i < 10; i++ {
		specs = append(specs, golferSpec{
			apiID:  int64(i + 1),
			status: models.GolferCut,
			rounds: [4]*int{intPtr(72), intPtr(72)},
		})
	}
	sb.addGolfers(specs...)
	teamID, _ := sb.addTeam([]int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0, 0)

	results, err := testEngine().Compute(sb.build())
	require.NoError(t, err)

	r := resultByTeam(results, teamID)
	require.NotNil(t, r)
	assert.Equal(t, 4, r.Round)
	require.NotNil(t, r.RoundOne)
	assert.InDelta(t, 72.0, *r.RoundOne, 1e-9)
	require.NotNil(t, r.RoundTwo)
	assert.InDelta(t, 72.0, *r.RoundTwo, 1e-9)
	require.NotNil(t, r.RoundThree)
	assert.InDelta(t, 71.0, *r.RoundThree, 1e-9)
	require.NotNil(t, r.Today)
	assert.InDelta(t, -1.0, *r.Today, 1e-9)
	require.NotNil(t, r.Thru)
	assert.Equal(t, 18.0, *r.Thru)
	require.NotNil(t, r.Score)
	assert.InDelta(t, -1.0, *r.Score, 1e-9)
	assert.Equal(t, "1", r.Position)
	assert.Equal(t, "1", r.PastPosition)
}

// Fewer than five actives from round three on puts the team out: opening
// rounds freeze, everything else nulls, and the team never re-enters
// scoring for the rest of the tournament.
func TestComputeRegularSeasonCut(t *testing.T) {
	for _, currentRound := range []int{3, 4, 5} {
		sb := newSnapshotBuilder(72, currentRound, false)

		specs := make([]golferSpec, 0, 10)
		for i := 0; i < 10; i++ {
			status := models.GolferActive
			if i >= 4 {
				status = models.GolferCut
			}
			specs = append(specs, golferSpec{
				apiID:  int64(i + 1),
				status: status,
				rounds: [4]*int{intPtr(71), intPtr(73)},
			})
		}
		sb.addGolfers(specs...)
		cutTeamID, _ := sb.addTeam([]int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0, 0)

		results, err := testEngine().Compute(sb.build())
		require.NoError(t, err)

		r := resultByTeam(results, cutTeamID)
		require.NotNil(t, r)
		assert.Equal(t, PositionCut, r.Position)
		assert.Equal(t, PositionCut, r.PastPosition)
		require.NotNil(t, r.RoundOne)
		assert.InDelta(t, 71.0, *r.RoundOne, 1e-9)
		require.NotNil(t, r.RoundTwo)
		assert.InDelta(t, 73.0, *r.RoundTwo, 1e-9)
		assert.Nil(t, r.RoundThree)
		assert.Nil(t, r.Score)
		assert.Nil(t, r.Today)
		require.NotNil(t, r.Points)
		assert.Equal(t, 0.0, *r.Points)
	}
}

// Live round one in the regular season averages the pool's cumulative
// scores rather than applying a base offset.
func TestComputeRegularLiveRoundOne(t *testing.T) {
	sb := newSnapshotBuilder(72, 1, true)
	sb.addGolfers(
		golferSpec{apiID: 1, today: intPtr(-2), thru: intPtr(9), score: intPtr(-2)},
		golferSpec{apiID: 2, today: intPtr(0), thru: intPtr(18), score: intPtr(0)},
	)
	teamID, _ := sb.addTeam([]int64{1, 2}, 0, 0)

	results, err := testEngine().Compute(sb.build())
	require.NoError(t, err)

	r := resultByTeam(results, teamID)
	require.NotNil(t, r)
	require.NotNil(t, r.Today)
	assert.InDelta(t, -1.0, *r.Today, 1e-9)
	require.NotNil(t, r.Thru)
	assert.InDelta(t, 13.5, *r.Thru, 1e-9)
	require.NotNil(t, r.Score)
	assert.InDelta(t, -1.0, *r.Score, 1e-9)
}

// A live middle round adds the live today mean on top of the completed
// rounds' over-par contributions.
func TestComputeRegularLiveRoundThree(t *testing.T) {
	sb := newSnapshotBuilder(72, 3, true)
	specs := make([]golferSpec, 0, 5)
	for i := 0; i < 5; i++ {
		specs = append(specs, golferSpec{
			apiID:  int64(i + 1),
			rounds: [4]*int{intPtr(70), intPtr(74)},
			today:  intPtr(-1),
			thru:   intPtr(12),
			score:  intPtr(i - 2),
		})
	}
	sb.addGolfers(specs...)
	teamID, _ := sb.addTeam([]int64{1, 2, 3, 4, 5}, 0, 0)

	results, err := testEngine().Compute(sb.build())
	require.NoError(t, err)

	r := resultByTeam(results, teamID)
	require.NotNil(t, r)
	// Rounds one (-2) and two (+2) cancel; live today carries the score.
	require.NotNil(t, r.Today)
	assert.InDelta(t, -1.0, *r.Today, 1e-9)
	require.NotNil(t, r.Thru)
	assert.InDelta(t, 12.0, *r.Thru, 1e-9)
	require.NotNil(t, r.Score)
	assert.InDelta(t, -1.0, *r.Score, 1e-9)
}

// After the final round all four round means are populated and today shows
// the closing round.
func TestComputeFinal(t *testing.T) {
	sb := newSnapshotBuilder(72, 5, false)
	specs := make([]golferSpec, 0, 5)
	for i := 0; i < 5; i++ {
		specs = append(specs, golferSpec{
			apiID:  int64(i + 1),
			rounds: [4]*int{intPtr(72), intPtr(71), intPtr(73), intPtr(70)},
			score:  intPtr(-2),
		})
	}
	sb.addGolfers(specs...)
	teamID, _ := sb.addTeam([]int64{1, 2, 3, 4, 5}, 0, 0)

	results, err := testEngine().Compute(sb.build())
	require.NoError(t, err)

	r := resultByTeam(results, teamID)
	require.NotNil(t, r)
	for _, round := range []*float64{r.RoundOne, r.RoundTwo, r.RoundThree, r.RoundFour} {
		require.NotNil(t, round)
	}
	assert.InDelta(t, 70.0, *r.RoundFour, 1e-9)
	require.NotNil(t, r.Today)
	assert.InDelta(t, -2.0, *r.Today, 1e-9)
	require.NotNil(t, r.Thru)
	assert.Equal(t, 18.0, *r.Thru)
	// -0 + -1 + +1 + -2
	require.NotNil(t, r.Score)
	assert.InDelta(t, -2.0, *r.Score, 1e-9)
}

func TestComputeDeterminism(t *testing.T) {
	build := func() *Snapshot {
		sb := newSnapshotBuilder(72, 4, false)
		specs := make([]golferSpec, 0, 10)
		for i := 0; i < 10; i++ {
			specs = append(specs, golferSpec{
				apiID:  int64(i + 1),
				rounds: [4]*int{intPtr(70 + i%3), intPtr(72), intPtr(71)},
				score:  intPtr(i % 4),
			})
		}
		sb.addGolfers(specs...)
		sb.addTeam([]int64{1, 2, 3, 4, 5}, 0, 0)
		sb.addTeam([]int64{6, 7, 8, 9, 10}, 0, 0)
		return sb.build()
	}

	first, err := testEngine().Compute(build())
	require.NoError(t, err)
	second, err := testEngine().Compute(build())
	require.NoError(t, err)

	// Fixture UUIDs differ between builds, so compare the derived fields.
	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Score, second[i].Score)
		assert.Equal(t, first[i].Today, second[i].Today)
		assert.Equal(t, first[i].Position, second[i].Position)
		assert.Equal(t, first[i].Points, second[i].Points)
	}

	// And the same snapshot computed twice is byte-identical.
	snap := build()
	a, err := testEngine().Compute(snap)
	require.NoError(t, err)
	b, err := testEngine().Compute(snap)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

// A team whose tour card is missing from the snapshot is excluded from
// ranking, not fatal to the run.
func TestComputeAnomalousTeamExcluded(t *testing.T) {
	sb := newSnapshotBuilder(72, 2, false)
	sb.addGolfers(
		golferSpec{apiID: 1, rounds: [4]*int{intPtr(70)}},
		golferSpec{apiID: 2, rounds: [4]*int{intPtr(72)}},
	)
	goodTeamID, _ := sb.addTeam([]int64{1}, 0, 0)
	badTeamID, badCardID := sb.addTeam([]int64{2}, 0, 0)
	delete(sb.cards, badCardID)

	results, err := testEngine().Compute(sb.build())
	require.NoError(t, err)

	bad := resultByTeam(results, badTeamID)
	require.NotNil(t, bad)
	assert.True(t, bad.Excluded)
	assert.Nil(t, bad.Score)
	assert.Empty(t, bad.Position)

	good := resultByTeam(results, goodTeamID)
	require.NotNil(t, good)
	assert.False(t, good.Excluded)
	assert.Equal(t, "1", good.Position)
}

func TestEarliestTeeTime(t *testing.T) {
	golfers := []*models.Golfer{
		{RoundOneTeeTime: strPtr("10:30 AM")},
		{RoundOneTeeTime: strPtr("8:45 AM")},
		{RoundOneTeeTime: strPtr("not a time")},
		{},
	}
	got := earliestTeeTime(golfers, 1)
	require.NotNil(t, got)
	assert.Equal(t, "8:45 AM", *got)

	assert.Nil(t, earliestTeeTime(golfers, 2))

	military := []*models.Golfer{
		{RoundTwoTeeTime: strPtr("13:10")},
		{RoundTwoTeeTime: strPtr("09:20")},
	}
	got = earliestTeeTime(military, 2)
	require.NotNil(t, got)
	assert.Equal(t, "09:20", *got)
}

func TestComputeInsufficientData(t *testing.T) {
	t.Run("nil snapshot", func(t *testing.T) {
		_, err := testEngine().Compute(nil)
		assert.ErrorIs(t, err, ErrInsufficientData)
	})

	t.Run("no teams", func(t *testing.T) {
		sb := newSnapshotBuilder(72, 1, false)
		_, err := testEngine().Compute(sb.build())
		assert.ErrorIs(t, err, ErrInsufficientData)
	})

	t.Run("no tour cards", func(t *testing.T) {
		sb := newSnapshotBuilder(72, 1, false)
		sb.addTeam([]int64{1}, 0, 0)
		sb.cards = map[uuid.UUID]*models.TourCard{}
		_, err := testEngine().Compute(sb.build())
		assert.ErrorIs(t, err, ErrInsufficientData)
	})

	t.Run("playoff without context", func(t *testing.T) {
		sb := newSnapshotBuilder(72, 1, false)
		sb.tournament.Name = "PGC Playoff Event 1"
		sb.addTeam([]int64{1}, 0, 1)
		_, err := testEngine().Compute(sb.build())
		assert.ErrorIs(t, err, ErrInsufficientData)
	})
}
