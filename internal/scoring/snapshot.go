package scoring

import (
	"github.com/google/uuid"

	"github.com/pgctour/scoring-engine/internal/models"
)

// Snapshot is one consistent read of everything a scoring cycle needs. The
// engine treats it as immutable; all teams for a tournament are computed from
// the same snapshot so results are deterministic and idempotent.
type Snapshot struct {
	Tournament *models.Tournament
	TourCards  map[uuid.UUID]*models.TourCard

	// Playoff is nil for regular-season tournaments.
	Playoff *PlayoffContext
}

// PlayoffContext carries the season-level facts the persistence layer derives
// for playoff events: which of the three events this tournament is (by date
// order within the season) and each tour card's cumulative score entering it.
type PlayoffContext struct {
	Event   int // 1, 2 or 3
	CarryIn map[uuid.UUID]float64
}

// Card resolves a team's tour card from the snapshot.
func (s *Snapshot) Card(team *models.Team) *models.TourCard {
	if team.TourCard != nil {
		return team.TourCard
	}
	return s.TourCards[team.TourCardID]
}

// GolferPool indexes the tournament's golfers by external id for roster
// resolution.
func (s *Snapshot) GolferPool() map[int64]*models.Golfer {
	pool := make(map[int64]*models.Golfer, len(s.Tournament.Golfers))
	for i := range s.Tournament.Golfers {
		pool[s.Tournament.Golfers[i].ApiID] = &s.Tournament.Golfers[i]
	}
	return pool
}
