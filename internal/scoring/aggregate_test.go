package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgctour/scoring-engine/internal/models"
)

func TestMean(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   *float64
	}{
		{name: "simple", values: []float64{1, 2, 3}, want: f64Ptr(2)},
		{name: "empty", values: nil, want: nil},
		{name: "skips non-finite", values: []float64{2, math.NaN(), math.Inf(1), 4}, want: f64Ptr(3)},
		{name: "all non-finite", values: []float64{math.NaN(), math.Inf(-1)}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Mean(tt.values)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

// Five active golfers at 68/70/71/72/74 on a par-72 course average 71.0 raw,
// one under par.
func TestMeanRoundStrokesScenario(t *testing.T) {
	golfers := []models.Golfer{
		makeGolfer(golferSpec{apiID: 1, rounds: [4]*int{nil, nil, intPtr(68)}}),
		makeGolfer(golferSpec{apiID: 2, rounds: [4]*int{nil, nil, intPtr(70)}}),
		makeGolfer(golferSpec{apiID: 3, rounds: [4]*int{nil, nil, intPtr(71)}}),
		makeGolfer(golferSpec{apiID: 4, rounds: [4]*int{nil, nil, intPtr(72)}}),
		makeGolfer(golferSpec{apiID: 5, rounds: [4]*int{nil, nil, intPtr(74)}}),
	}

	raw := MeanRoundStrokes(golferPtrs(golfers), 3, 72)
	require.NotNil(t, raw)
	assert.InDelta(t, 71.0, *raw, 1e-9)

	overPar := MeanOverPar(golferPtrs(golfers), 3, 72)
	require.NotNil(t, overPar)
	assert.InDelta(t, -1.0, *overPar, 1e-9)
}

// A golfer who withdrew after round one is charged par+8 for round two.
func TestMeanRoundStrokesWithdrawnPenalty(t *testing.T) {
	g := makeGolfer(golferSpec{
		apiID:  1,
		status: models.GolferWithdrawn,
		rounds: [4]*int{intPtr(70)},
	})

	roundTwo := MeanRoundStrokes([]*models.Golfer{&g}, 2, 72)
	require.NotNil(t, roundTwo)
	assert.InDelta(t, 80.0, *roundTwo, 1e-9)

	// The completed round keeps its real score.
	roundOne := MeanRoundStrokes([]*models.Golfer{&g}, 1, 72)
	require.NotNil(t, roundOne)
	assert.InDelta(t, 70.0, *roundOne, 1e-9)
}

func TestMeanRoundStrokesNoValues(t *testing.T) {
	g := makeGolfer(golferSpec{apiID: 1})
	assert.Nil(t, MeanRoundStrokes([]*models.Golfer{&g}, 1, 72))
}

func TestMeanTodayCountsMissingAsEven(t *testing.T) {
	golfers := []models.Golfer{
		makeGolfer(golferSpec{apiID: 1, today: intPtr(-4)}),
		makeGolfer(golferSpec{apiID: 2}),
	}

	assert.InDelta(t, -2.0, MeanToday(golferPtrs(golfers)), 1e-9)
	assert.Equal(t, 0.0, MeanToday(nil))
}

func TestMeanThru(t *testing.T) {
	golfers := []models.Golfer{
		makeGolfer(golferSpec{apiID: 1, thru: intPtr(18)}),
		makeGolfer(golferSpec{apiID: 2, thru: intPtr(9)}),
		makeGolfer(golferSpec{apiID: 3}),
	}

	assert.InDelta(t, 9.0, MeanThru(golferPtrs(golfers)), 1e-9)
}

func TestRounding(t *testing.T) {
	assert.InDelta(t, 71.1, RoundTo1(71.06), 1e-9)
	assert.InDelta(t, -1.3, RoundTo1(-1.25), 1e-9)
	assert.InDelta(t, 12.35, RoundTo2(12.346), 1e-9)
}
