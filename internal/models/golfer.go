package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// GolferStatus represents a golfer's standing within a tournament. It is
// resolved once from the feed's position string when a snapshot is loaded;
// everything downstream switches on the enum rather than re-parsing strings.
type GolferStatus string

const (
	GolferActive       GolferStatus = "active"
	GolferCut          GolferStatus = "cut"
	GolferWithdrawn    GolferStatus = "wd"
	GolferDisqualified GolferStatus = "dq"
)

// GolferStatusFromPosition maps a raw leaderboard position string onto the
// status enum. Anything that is not CUT, WD or DQ is an active entry.
func GolferStatusFromPosition(position string) GolferStatus {
	switch strings.ToUpper(strings.TrimSpace(position)) {
	case "CUT":
		return GolferCut
	case "WD":
		return GolferWithdrawn
	case "DQ":
		return GolferDisqualified
	default:
		return GolferActive
	}
}

// IsActive reports whether the golfer still counts toward team scoring.
func (s GolferStatus) IsActive() bool {
	return s == GolferActive || s == ""
}

// Golfer represents a player's entry in one tournament. Raw round strokes stay
// nil until the round is complete for that golfer.
type Golfer struct {
	ID           uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ApiID        int64        `gorm:"not null;uniqueIndex:idx_golfer_tournament,priority:1" json:"api_id"`
	TournamentID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_golfer_tournament,priority:2" json:"tournament_id"`
	PlayerName   string       `gorm:"not null" json:"player_name"`
	Status       GolferStatus `gorm:"type:varchar(10);default:'active'" json:"status"`
	Position     string       `json:"position"`

	// Live fields
	Today *int `json:"today"`
	Thru  *int `json:"thru"`
	Score *int `json:"score"`

	// Completed-round raw strokes
	RoundOne   *int `json:"round_one"`
	RoundTwo   *int `json:"round_two"`
	RoundThree *int `json:"round_three"`
	RoundFour  *int `json:"round_four"`

	RoundOneTeeTime   *string `json:"round_one_tee_time"`
	RoundTwoTeeTime   *string `json:"round_two_tee_time"`
	RoundThreeTeeTime *string `json:"round_three_tee_time"`
	RoundFourTeeTime  *string `json:"round_four_tee_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Golfer) TableName() string {
	return "golfers"
}

// RoundStrokes returns the raw strokes reported for a round, or nil if the
// golfer has not completed it.
func (g *Golfer) RoundStrokes(round int) *int {
	switch round {
	case 1:
		return g.RoundOne
	case 2:
		return g.RoundTwo
	case 3:
		return g.RoundThree
	case 4:
		return g.RoundFour
	}
	return nil
}

// TeeTime returns the reported tee time string for a round, if any.
func (g *Golfer) TeeTime(round int) *string {
	switch round {
	case 1:
		return g.RoundOneTeeTime
	case 2:
		return g.RoundTwoTeeTime
	case 3:
		return g.RoundThreeTeeTime
	case 4:
		return g.RoundFourTeeTime
	}
	return nil
}
