package scoring

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/pgctour/scoring-engine/internal/models"
)

// Engine computes the full team-row set for one tournament snapshot. It is a
// pure function of the snapshot: identical inputs produce byte-identical
// rows, so overlapping cycles are idempotent.
type Engine struct {
	logger *logrus.Logger
}

// NewEngine creates a scoring engine.
func NewEngine(logger *logrus.Logger) *Engine {
	return &Engine{logger: logger}
}

// Compute derives every team's result row and assigns standings. A team
// whose inputs are malformed is logged and left without a score; it drops
// out of ranking without aborting the run. Missing snapshot-level data
// returns ErrInsufficientData.
func (e *Engine) Compute(snap *Snapshot) ([]TeamResult, error) {
	if err := validateSnapshot(snap); err != nil {
		return nil, err
	}

	t := snap.Tournament
	event := 0
	if snap.Playoff != nil {
		event = snap.Playoff.Event
	}

	b := newBuilder(snap, event, e.logger)

	contexts := make([]*teamContext, len(t.Teams))
	for i := range t.Teams {
		tc, err := b.newTeamContext(&t.Teams[i])
		if err != nil {
			e.logger.WithFields(logrus.Fields{
				"tournament": t.ID,
				"team":       t.Teams[i].ID,
			}).Warnf("Excluding team from scoring: %v", err)
			continue
		}
		contexts[i] = tc
	}

	if event > 0 {
		if err := e.assignPlayoffBases(snap, b, contexts); err != nil {
			return nil, err
		}
	}
	worst := e.worstOfDayLookups(b, contexts)

	results := make([]TeamResult, len(t.Teams))
	for i := range t.Teams {
		tc := contexts[i]
		if tc == nil {
			// Anomalous team: keep the row, but with no score it never
			// enters a comparison group, and marked excluded it is never
			// written over the team's stored standing.
			results[i] = TeamResult{
				TeamID:     t.Teams[i].ID,
				TourCardID: t.Teams[i].TourCardID,
				Round:      t.CurrentRound,
				Excluded:   true,
			}
			continue
		}
		results[i] = *b.buildTeam(tc, worst(tc.bracket))
	}

	if err := AssignStandings(snap, event, results); err != nil {
		return nil, err
	}
	return results, nil
}

func validateSnapshot(snap *Snapshot) error {
	if snap == nil || snap.Tournament == nil {
		return fmt.Errorf("%w: no current tournament", ErrInsufficientData)
	}
	if snap.Tournament.Tier == nil {
		return fmt.Errorf("%w: tournament tier not loaded", ErrInsufficientData)
	}
	if len(snap.Tournament.Teams) == 0 {
		return fmt.Errorf("%w: tournament has no teams", ErrInsufficientData)
	}
	if len(snap.TourCards) == 0 {
		return fmt.Errorf("%w: no tour cards for season", ErrInsufficientData)
	}
	if snap.Tournament.IsPlayoff() && snap.Playoff == nil {
		return fmt.Errorf("%w: playoff tournament without playoff context", ErrInsufficientData)
	}
	if snap.Playoff != nil && (snap.Playoff.Event < 1 || snap.Playoff.Event > 3) {
		return fmt.Errorf("%w: playoff event %d out of range", ErrInsufficientData, snap.Playoff.Event)
	}
	return nil
}

// assignPlayoffBases computes each team's base offset: event-one starting
// strokes seeded from regular-season points, or the carry-in score inherited
// from the prior event.
func (e *Engine) assignPlayoffBases(snap *Snapshot, b *builder, contexts []*teamContext) error {
	if snap.Playoff.Event >= 2 {
		for _, tc := range contexts {
			if tc != nil {
				tc.base = snap.Playoff.CarryInFor(tc.card.ID)
			}
		}
		return nil
	}

	bracketCards := make(map[Bracket][]*models.TourCard)
	for _, tc := range contexts {
		if tc != nil {
			bracketCards[tc.bracket] = append(bracketCards[tc.bracket], tc.card)
		}
	}
	for _, tc := range contexts {
		if tc == nil {
			continue
		}
		strokes, err := StartingStrokes(snap.Tournament.Tier, tc.bracket, bracketCards[tc.bracket], tc.card.ID)
		if err != nil {
			return fmt.Errorf("starting strokes: %w", err)
		}
		tc.base = strokes
	}
	return nil
}

// worstOfDayLookups precomputes, per bracket and round, the worst
// contribution among eligible teams. Ineligible teams pull their fallback
// from here during assembly.
func (e *Engine) worstOfDayLookups(b *builder, contexts []*teamContext) func(Bracket) worstLookup {
	if b.event == 0 {
		none := worstLookup(func(int, bool) (float64, bool) { return 0, false })
		return func(Bracket) worstLookup { return none }
	}

	type key struct {
		bracket Bracket
		round   int
		live    bool
	}
	values := make(map[key][]float64)

	t := b.snap.Tournament
	for _, tc := range contexts {
		if tc == nil || len(tc.golfers) == 0 {
			continue
		}
		for round := 1; round <= min(t.CurrentRound-1, 4); round++ {
			if !b.eligible(tc, round) {
				continue
			}
			if op := MeanOverPar(b.contributors(tc, round, false), round, b.par); op != nil {
				k := key{tc.bracket, round, false}
				values[k] = append(values[k], *op)
			}
		}
		if t.LivePlay && t.CurrentRound <= 4 && b.eligible(tc, t.CurrentRound) {
			k := key{tc.bracket, t.CurrentRound, true}
			values[k] = append(values[k], MeanToday(b.contributors(tc, t.CurrentRound, true)))
		}
	}

	worst := make(map[key]float64, len(values))
	for k, vs := range values {
		worst[k] = WorstOfDay(vs)
	}

	return func(bracket Bracket) worstLookup {
		return func(round int, live bool) (float64, bool) {
			v, ok := worst[key{bracket, round, live}]
			return v, ok
		}
	}
}
