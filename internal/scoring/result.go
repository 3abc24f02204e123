package scoring

import "github.com/google/uuid"

// TeamResult is the fully-assembled output row for one team. Every field is
// present (nullable) and the row is built once per cycle; the persistence
// adapter diffs it against the stored team and writes only what changed.
type TeamResult struct {
	TeamID     uuid.UUID `json:"team_id"`
	TourCardID uuid.UUID `json:"tour_card_id"`

	Round      int      `json:"round"`
	RoundOne   *float64 `json:"round_one"`
	RoundTwo   *float64 `json:"round_two"`
	RoundThree *float64 `json:"round_three"`
	RoundFour  *float64 `json:"round_four"`

	Today *float64 `json:"today"`
	Thru  *float64 `json:"thru"`
	Score *float64 `json:"score"`

	Position     string `json:"position"`
	PastPosition string `json:"past_position"`

	Points   *float64 `json:"points"`
	Earnings *float64 `json:"earnings"`

	RoundOneTeeTime   *string `json:"round_one_tee_time"`
	RoundTwoTeeTime   *string `json:"round_two_tee_time"`
	RoundThreeTeeTime *string `json:"round_three_tee_time"`
	RoundFourTeeTime  *string `json:"round_four_tee_time"`

	// PastScore feeds the past-position walk; it is derived display input,
	// not a persisted column.
	PastScore *float64 `json:"-"`

	// Bracket is set for playoff teams so standings can compare within the
	// right group.
	Bracket Bracket `json:"-"`

	// Excluded marks a team the engine could not score this cycle (malformed
	// inputs, missing tour card). The row stays in the output but must not be
	// persisted over the team's stored standing.
	Excluded bool `json:"-"`
}

// IsCut reports whether this team fell to the tournament cut.
func (r *TeamResult) IsCut() bool {
	return r.Position == PositionCut
}

// PositionCut is the sentinel position label for teams out of contention.
const PositionCut = "CUT"

func (r *TeamResult) setRoundValue(round int, value *float64) {
	switch round {
	case 1:
		r.RoundOne = value
	case 2:
		r.RoundTwo = value
	case 3:
		r.RoundThree = value
	case 4:
		r.RoundFour = value
	}
}

func (r *TeamResult) setTeeTime(round int, value *string) {
	switch round {
	case 1:
		r.RoundOneTeeTime = value
	case 2:
		r.RoundTwoTeeTime = value
	case 3:
		r.RoundThreeTeeTime = value
	case 4:
		r.RoundFourTeeTime = value
	}
}

func floatPtr(v float64) *float64 { return &v }
