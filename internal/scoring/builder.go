package scoring

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pgctour/scoring-engine/internal/models"
)

// minActiveForCut is the regular-season cut line: a team needs this many
// active golfers from round three on to stay in contention.
const minActiveForCut = 5

// builder derives one result row per team from a snapshot. It only reads the
// snapshot, so teams are independent of each other except through the
// worst-of-day lookup the engine precomputes.
type builder struct {
	snap   *Snapshot
	pool   map[int64]*models.Golfer
	par    int
	event  int // 0 for regular season
	logger *logrus.Logger
}

func newBuilder(snap *Snapshot, event int, logger *logrus.Logger) *builder {
	return &builder{
		snap:   snap,
		pool:   snap.GolferPool(),
		par:    snap.Tournament.CoursePar,
		event:  event,
		logger: logger,
	}
}

// teamContext is everything resolved once per team before assembly.
type teamContext struct {
	team    *models.Team
	card    *models.TourCard
	golfers []*models.Golfer
	active  []*models.Golfer
	bracket Bracket
	base    float64
}

func (b *builder) newTeamContext(team *models.Team) (*teamContext, error) {
	card := b.snap.Card(team)
	if card == nil {
		return nil, fmt.Errorf("team %s: tour card %s not in snapshot", team.ID, team.TourCardID)
	}

	golfers := TeamGolfers(team, b.pool)
	tc := &teamContext{
		team:    team,
		card:    card,
		golfers: golfers,
		active:  ActiveGolfers(golfers),
	}
	if b.event > 0 {
		tc.bracket = BracketForCard(card)
		if tc.bracket == BracketNone {
			return nil, fmt.Errorf("team %s: tour card %s has no playoff bracket", team.ID, card.ID)
		}
	}
	return tc, nil
}

// eligible reports whether the team fields enough active golfers for a round's
// selection count. Only meaningful for playoff events; regular-season teams
// are always scored from whatever they have (the cut rule handles attrition).
func (b *builder) eligible(tc *teamContext, round int) bool {
	return len(tc.active) >= SelectionCount(b.event, round)
}

// contributors picks the golfer pool whose scores count for a round: the full
// roster when everyone counts, otherwise the top n of the active golfers.
func (b *builder) contributors(tc *teamContext, round int, live bool) []*models.Golfer {
	n := SelectionCount(b.event, round)
	if n >= 10 {
		if live {
			return tc.active
		}
		return tc.golfers
	}
	return TopNForRound(tc.active, round, live, b.par, n)
}

// worstLookup resolves the worst-of-day fallback for a bracket. The bool is
// false outside playoffs.
type worstLookup func(round int, live bool) (float64, bool)

// roundContribution computes a completed round's raw-mean and over-par
// contribution for a team, falling back to the bracket's worst-of-day value
// when the team is ineligible.
func (b *builder) roundContribution(tc *teamContext, round int, worst worstLookup) (raw, overPar *float64) {
	if b.event > 0 && !b.eligible(tc, round) {
		fallback, _ := worst(round, false)
		return floatPtr(float64(b.par) + fallback), floatPtr(fallback)
	}
	m := MeanRoundStrokes(b.contributors(tc, round, false), round, b.par)
	if m == nil {
		return nil, nil
	}
	return m, floatPtr(*m - float64(b.par))
}

// liveContribution computes the live today/thru means for the in-progress
// round, with the same worst-of-day fallback on today for ineligible teams.
func (b *builder) liveContribution(tc *teamContext, round int, worst worstLookup) (today, thru float64) {
	if b.event > 0 && !b.eligible(tc, round) {
		fallback, _ := worst(round, true)
		return fallback, MeanThru(tc.active)
	}
	pool := b.contributors(tc, round, true)
	return MeanToday(pool), MeanThru(pool)
}

// buildTeam assembles the full result row for one team.
func (b *builder) buildTeam(tc *teamContext, worst worstLookup) *TeamResult {
	t := b.snap.Tournament
	cr := t.CurrentRound

	res := &TeamResult{
		TeamID:     tc.team.ID,
		TourCardID: tc.card.ID,
		Round:      cr,
		Bracket:    tc.bracket,
	}

	// Earliest reported tee time per round; back-nine rounds only once the
	// tournament has reached them.
	for round := 1; round <= 4; round++ {
		if round <= 2 || cr >= round {
			res.setTeeTime(round, earliestTeeTime(tc.golfers, round))
		}
	}

	// A bracket participant with an empty roster scores at par plus base.
	if b.event > 0 && len(tc.golfers) == 0 {
		b.fillAtPar(res, tc, cr)
		return res
	}

	// Regular-season cut: freeze the opening rounds and stop.
	if b.event == 0 && cr >= 3 && len(tc.active) < minActiveForCut {
		res.Position = PositionCut
		res.PastPosition = PositionCut
		if m := MeanRoundStrokes(tc.golfers, 1, b.par); m != nil {
			res.RoundOne = floatPtr(RoundTo1(*m))
		}
		if m := MeanRoundStrokes(tc.golfers, 2, b.par); m != nil {
			res.RoundTwo = floatPtr(RoundTo1(*m))
		}
		res.Points = floatPtr(0)
		res.Earnings = floatPtr(0)
		return res
	}

	// Completed-round contributions.
	overPar := make(map[int]float64, 4)
	for round := 1; round <= min(cr-1, 4); round++ {
		raw, op := b.roundContribution(tc, round, worst)
		if raw == nil {
			continue
		}
		overPar[round] = *op
		res.setRoundValue(round, floatPtr(RoundTo1(*raw)))
	}
	completedSum := func(through int) float64 {
		var sum float64
		for round := 1; round <= through; round++ {
			sum += overPar[round]
		}
		return sum
	}

	switch {
	case cr <= 1 && !t.LivePlay:
		// Pre-tournament: playoff teams already show their base offset.
		if b.event > 0 {
			res.Score = floatPtr(RoundTo1(tc.base))
		}

	case cr <= 1 && t.LivePlay:
		today, thru := b.liveContribution(tc, 1, worst)
		res.Today = floatPtr(RoundTo1(today))
		res.Thru = floatPtr(RoundTo1(thru))
		if b.event > 0 {
			res.Score = floatPtr(RoundTo1(tc.base + today))
		} else if m := MeanCumulativeScore(b.contributors(tc, 1, true)); m != nil {
			res.Score = floatPtr(RoundTo1(*m))
		} else {
			res.Score = floatPtr(RoundTo1(today))
		}

	case cr <= 4 && !t.LivePlay:
		if v, ok := overPar[cr-1]; ok {
			res.Today = floatPtr(RoundTo1(v))
		}
		res.Thru = floatPtr(18)
		res.Score = floatPtr(RoundTo1(tc.base + completedSum(cr-1)))

	case cr <= 4 && t.LivePlay:
		today, thru := b.liveContribution(tc, cr, worst)
		res.Today = floatPtr(RoundTo1(today))
		res.Thru = floatPtr(RoundTo1(thru))
		res.Score = floatPtr(RoundTo1(tc.base + completedSum(cr-1) + today))

	default: // cr >= 5: tournament complete
		if v, ok := overPar[4]; ok {
			res.Today = floatPtr(RoundTo1(v))
		}
		res.Thru = floatPtr(18)
		res.Score = floatPtr(RoundTo1(tc.base + completedSum(4)))
	}

	if res.Score != nil {
		past := *res.Score
		if res.Today != nil {
			past -= *res.Today
		}
		res.PastScore = floatPtr(RoundTo1(past))
	}

	return res
}

// fillAtPar scores an empty-roster playoff team: every completed round at
// par, today even, score equal to the base offset.
func (b *builder) fillAtPar(res *TeamResult, tc *teamContext, currentRound int) {
	for round := 1; round <= min(currentRound-1, 4); round++ {
		res.setRoundValue(round, floatPtr(float64(b.par)))
	}
	if currentRound > 1 || b.snap.Tournament.LivePlay {
		res.Today = floatPtr(0)
		if !b.snap.Tournament.LivePlay {
			res.Thru = floatPtr(18)
		} else {
			res.Thru = floatPtr(0)
		}
	}
	res.Score = floatPtr(RoundTo1(tc.base))
	res.PastScore = floatPtr(RoundTo1(tc.base))
}

// teeTimeLayouts are the clock formats the feed reports tee times in.
var teeTimeLayouts = []string{"3:04 PM", "15:04"}

// earliestTeeTime returns the earliest parseable tee time reported for a
// round across a golfer set, in its original string form.
func earliestTeeTime(golfers []*models.Golfer, round int) *string {
	var earliest *string
	var earliestAt time.Time
	for _, g := range golfers {
		s := g.TeeTime(round)
		if s == nil {
			continue
		}
		at, ok := parseTeeTime(*s)
		if !ok {
			continue
		}
		if earliest == nil || at.Before(earliestAt) {
			earliest = s
			earliestAt = at
		}
	}
	return earliest
}

func parseTeeTime(s string) (time.Time, bool) {
	for _, layout := range teeTimeLayouts {
		if at, err := time.Parse(layout, s); err == nil {
			return at, true
		}
	}
	return time.Time{}, false
}
