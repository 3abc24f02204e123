package scoring

import (
	"math"

	"github.com/pgctour/scoring-engine/internal/models"
)

// Mean averages a slice of values, skipping NaN and infinities. It returns
// nil when nothing finite remains.
func Mean(values []float64) *float64 {
	var sum float64
	var n int
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return nil
	}
	return floatPtr(sum / float64(n))
}

// MeanRoundStrokes averages the strokes that count for a round across a
// golfer set, including the WD/DQ penalty value for uncompleted rounds.
// Golfers with no value at all are excluded. Returns nil for an empty result.
func MeanRoundStrokes(golfers []*models.Golfer, round, par int) *float64 {
	values := make([]float64, 0, len(golfers))
	for _, g := range golfers {
		if strokes, ok := effectiveRoundStrokes(g, round, par); ok {
			values = append(values, float64(strokes))
		}
	}
	return Mean(values)
}

// MeanOverPar averages a golfer set's round strokes relative to par.
func MeanOverPar(golfers []*models.Golfer, round, par int) *float64 {
	raw := MeanRoundStrokes(golfers, round, par)
	if raw == nil {
		return nil
	}
	return floatPtr(*raw - float64(par))
}

// MeanToday averages the live today deltas across a golfer set. A golfer with
// no live value counts as even par so a partially-started team still averages
// over its whole pool.
func MeanToday(golfers []*models.Golfer) float64 {
	if len(golfers) == 0 {
		return 0
	}
	var sum float64
	for _, g := range golfers {
		if g.Today != nil {
			sum += float64(*g.Today)
		}
	}
	return sum / float64(len(golfers))
}

// MeanThru averages holes completed across a golfer set, counting a golfer
// with no live value as not started.
func MeanThru(golfers []*models.Golfer) float64 {
	if len(golfers) == 0 {
		return 0
	}
	var sum float64
	for _, g := range golfers {
		if g.Thru != nil {
			sum += float64(*g.Thru)
		}
	}
	return sum / float64(len(golfers))
}

// MeanCumulativeScore averages the cumulative to-par scores across a golfer
// set, skipping golfers with no score. Returns nil for an empty result.
func MeanCumulativeScore(golfers []*models.Golfer) *float64 {
	values := make([]float64, 0, len(golfers))
	for _, g := range golfers {
		if g.Score != nil {
			values = append(values, float64(*g.Score))
		}
	}
	return Mean(values)
}

// RoundTo1 rounds to one decimal place, the precision every persisted scoring
// field standardizes on.
func RoundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}

// RoundTo2 rounds to two decimal places, used for earnings.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
