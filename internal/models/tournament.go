package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Tournament represents one fantasy-golf event on the season schedule.
// Course attributes are denormalized onto the tournament row the same way the
// upstream feed reports them.
type Tournament struct {
	ID           uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ExternalID   string            `gorm:"uniqueIndex;not null" json:"external_id"`
	Name         string            `gorm:"not null" json:"name"`
	SeasonID     string            `gorm:"not null;index" json:"season_id"`
	TierID       uuid.UUID         `gorm:"type:uuid;not null" json:"tier_id"`
	Tier         *Tier             `gorm:"foreignKey:TierID" json:"tier,omitempty"`
	StartDate    time.Time         `gorm:"not null;index" json:"start_date"`
	EndDate      time.Time         `gorm:"not null" json:"end_date"`
	CourseID     string            `gorm:"index" json:"course_id"`
	CourseName   string            `json:"course_name"`
	CoursePar    int               `gorm:"not null" json:"course_par"`
	CurrentRound int               `gorm:"default:1;check:current_round BETWEEN 1 AND 5" json:"current_round"`
	LivePlay     bool              `gorm:"default:false" json:"live_play"`
	Metadata     datatypes.JSONMap `gorm:"type:jsonb" json:"metadata"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`

	// Associations
	Tours   []Tour   `gorm:"many2many:tournament_tours" json:"tours,omitempty"`
	Golfers []Golfer `gorm:"foreignKey:TournamentID" json:"golfers,omitempty"`
	Teams   []Team   `gorm:"foreignKey:TournamentID" json:"teams,omitempty"`
}

// TableName specifies the table name for GORM
func (Tournament) TableName() string {
	return "tournaments"
}

// IsPlayoff reports whether this event is part of the end-of-season playoff
// series, identified by tournament or tier name.
func (t *Tournament) IsPlayoff() bool {
	if strings.Contains(strings.ToLower(t.Name), "playoff") {
		return true
	}
	return t.Tier != nil && strings.Contains(strings.ToLower(t.Tier.Name), "playoff")
}

// Finished reports whether the tournament has reached its post-play state.
func (t *Tournament) Finished() bool {
	return t.CurrentRound >= 5
}

// Tour represents one fantasy league division members hold tour cards in.
type Tour struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	SeasonID  string    `gorm:"not null;index" json:"season_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Tour) TableName() string {
	return "tours"
}
