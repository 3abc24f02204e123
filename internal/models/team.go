package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Team represents a member's fantasy entry in one tournament. The golfer
// roster is drafted once and referenced by external golfer id; it is resolved
// against the tournament's golfer pool at computation time. Everything below
// the roster is derived and overwritten on every scoring cycle.
type Team struct {
	ID           uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TournamentID uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_team_tournament_card,priority:1" json:"tournament_id"`
	TourCardID   uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_team_tournament_card,priority:2" json:"tour_card_id"`
	TourCard     *TourCard     `gorm:"foreignKey:TourCardID" json:"tour_card,omitempty"`
	GolferIDs    pq.Int64Array `gorm:"type:bigint[]" json:"golfer_ids"`

	// Derived scoring fields
	Round        *int     `json:"round"`
	RoundOne     *float64 `json:"round_one"`
	RoundTwo     *float64 `json:"round_two"`
	RoundThree   *float64 `json:"round_three"`
	RoundFour    *float64 `json:"round_four"`
	Today        *float64 `json:"today"`
	Thru         *float64 `json:"thru"`
	Score        *float64 `json:"score"`
	Position     string   `json:"position"`
	PastPosition string   `json:"past_position"`
	Points       *float64 `json:"points"`
	Earnings     *float64 `json:"earnings"`

	RoundOneTeeTime   *string `json:"round_one_tee_time"`
	RoundTwoTeeTime   *string `json:"round_two_tee_time"`
	RoundThreeTeeTime *string `json:"round_three_tee_time"`
	RoundFourTeeTime  *string `json:"round_four_tee_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Team) TableName() string {
	return "teams"
}

// TourCard represents a member's seasonal membership to one tour. Playoff
// eligibility rides on the card: 0 = none, 1 = gold bracket, 2 = silver.
type TourCard struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	MemberID    string    `gorm:"not null;index" json:"member_id"`
	TourID      uuid.UUID `gorm:"type:uuid;not null;index" json:"tour_id"`
	SeasonID    string    `gorm:"not null;index" json:"season_id"`
	DisplayName string    `json:"display_name"`
	Points      float64   `gorm:"default:0" json:"points"`
	Earnings    float64   `gorm:"default:0" json:"earnings"`
	Playoff     int       `gorm:"default:0" json:"playoff"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (TourCard) TableName() string {
	return "tour_cards"
}

// Tier holds a tournament's prize schedule: two same-indexed sequences of
// points and payouts keyed by finishing position (position 1 = index 0). For
// playoff tiers the points sequence doubles as the starting-stroke table and
// the payout sequence reserves disjoint index ranges per bracket.
type Tier struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name      string          `gorm:"not null" json:"name"`
	SeasonID  string          `gorm:"not null;index" json:"season_id"`
	Points    pq.Float64Array `gorm:"type:numeric[]" json:"points"`
	Payouts   pq.Float64Array `gorm:"type:numeric[]" json:"payouts"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Tier) TableName() string {
	return "tiers"
}
