package services

import (
	"cmp"
	"slices"
	"time"

	"github.com/pgctour/scoring-engine/internal/scoring"
)

// LeaderboardEntry is one team's row in the published leaderboard.
type LeaderboardEntry struct {
	TeamID       string   `json:"team_id"`
	TourCardID   string   `json:"tour_card_id"`
	DisplayName  string   `json:"display_name"`
	Position     string   `json:"position"`
	PastPosition string   `json:"past_position"`
	Score        *float64 `json:"score"`
	Today        *float64 `json:"today"`
	Thru         *float64 `json:"thru"`
	Points       *float64 `json:"points"`
	Earnings     *float64 `json:"earnings"`
	Bracket      string   `json:"bracket,omitempty"`
}

// Leaderboard is the payload cached in redis and pushed over the websocket
// hub after every scoring cycle.
type Leaderboard struct {
	TournamentID   string             `json:"tournament_id"`
	TournamentName string             `json:"tournament_name"`
	Round          int                `json:"round"`
	LivePlay       bool               `json:"live_play"`
	UpdatedAt      time.Time          `json:"updated_at"`
	Teams          []LeaderboardEntry `json:"teams"`
}

// BuildLeaderboard shapes computed results for publication, best score first
// with CUT and unscored teams at the bottom.
func BuildLeaderboard(snap *scoring.Snapshot, results []scoring.TeamResult) *Leaderboard {
	entries := make([]LeaderboardEntry, 0, len(results))
	for i := range results {
		r := &results[i]
		entry := LeaderboardEntry{
			TeamID:       r.TeamID.String(),
			TourCardID:   r.TourCardID.String(),
			Position:     r.Position,
			PastPosition: r.PastPosition,
			Score:        r.Score,
			Today:        r.Today,
			Thru:         r.Thru,
			Points:       r.Points,
			Earnings:     r.Earnings,
		}
		if card := snap.TourCards[r.TourCardID]; card != nil {
			entry.DisplayName = card.DisplayName
		}
		if r.Bracket != scoring.BracketNone {
			entry.Bracket = r.Bracket.String()
		}
		entries = append(entries, entry)
	}

	slices.SortFunc(entries, func(a, b LeaderboardEntry) int {
		switch {
		case a.Score == nil && b.Score == nil:
			return cmp.Compare(a.TeamID, b.TeamID)
		case a.Score == nil:
			return 1
		case b.Score == nil:
			return -1
		}
		if c := cmp.Compare(*a.Score, *b.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.TeamID, b.TeamID)
	})

	return &Leaderboard{
		TournamentID:   snap.Tournament.ID.String(),
		TournamentName: snap.Tournament.Name,
		Round:          snap.Tournament.CurrentRound,
		LivePlay:       snap.Tournament.LivePlay,
		UpdatedAt:      time.Now().UTC(),
		Teams:          entries,
	}
}
