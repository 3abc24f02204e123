package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pgctour/scoring-engine/internal/models"
	"github.com/pgctour/scoring-engine/internal/scoring"
)

// SaveResults writes computed team rows back in a single transaction so a
// cycle either lands completely or not at all. Each team gets the minimal
// column update diffed against its snapshot state.
func (s *Store) SaveResults(ctx context.Context, snap *scoring.Snapshot, results []scoring.TeamResult) error {
	changes := ResultChanges(snap, results)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for teamID, cols := range changes {
			if err := tx.Model(&models.Team{}).
				Where("id = ?", teamID).
				Updates(cols).Error; err != nil {
				return fmt.Errorf("update team %s: %w", teamID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save results: %w", err)
	}

	s.logger.Debugf("Persisted scoring cycle: %d of %d teams changed", len(changes), len(results))
	return nil
}

// ResultChanges builds the per-team column updates for one cycle. Rows the
// engine excluded from scoring are skipped entirely: a transient snapshot
// glitch must not erase a team's stored standing before the next clean cycle.
func ResultChanges(snap *scoring.Snapshot, results []scoring.TeamResult) map[uuid.UUID]map[string]interface{} {
	teamsByID := make(map[uuid.UUID]*models.Team, len(snap.Tournament.Teams))
	for i := range snap.Tournament.Teams {
		teamsByID[snap.Tournament.Teams[i].ID] = &snap.Tournament.Teams[i]
	}

	changes := make(map[uuid.UUID]map[string]interface{}, len(results))
	for i := range results {
		r := &results[i]
		if r.Excluded {
			continue
		}
		team, ok := teamsByID[r.TeamID]
		if !ok {
			continue
		}
		cols := TeamChanges(team, r)
		if len(cols) == 0 {
			continue
		}
		changes[r.TeamID] = cols
	}
	return changes
}

// TeamChanges diffs a computed result row against the stored team and
// returns the column update map, empty when nothing moved.
func TeamChanges(team *models.Team, r *scoring.TeamResult) map[string]interface{} {
	changes := make(map[string]interface{})

	if team.Round == nil || *team.Round != r.Round {
		changes["round"] = r.Round
	}
	diffFloat(changes, "round_one", team.RoundOne, r.RoundOne)
	diffFloat(changes, "round_two", team.RoundTwo, r.RoundTwo)
	diffFloat(changes, "round_three", team.RoundThree, r.RoundThree)
	diffFloat(changes, "round_four", team.RoundFour, r.RoundFour)
	diffFloat(changes, "today", team.Today, r.Today)
	diffFloat(changes, "thru", team.Thru, r.Thru)
	diffFloat(changes, "score", team.Score, r.Score)
	diffFloat(changes, "points", team.Points, r.Points)
	diffFloat(changes, "earnings", team.Earnings, r.Earnings)

	if team.Position != r.Position {
		changes["position"] = r.Position
	}
	if team.PastPosition != r.PastPosition {
		changes["past_position"] = r.PastPosition
	}

	diffString(changes, "round_one_tee_time", team.RoundOneTeeTime, r.RoundOneTeeTime)
	diffString(changes, "round_two_tee_time", team.RoundTwoTeeTime, r.RoundTwoTeeTime)
	diffString(changes, "round_three_tee_time", team.RoundThreeTeeTime, r.RoundThreeTeeTime)
	diffString(changes, "round_four_tee_time", team.RoundFourTeeTime, r.RoundFourTeeTime)

	return changes
}

func diffFloat(changes map[string]interface{}, column string, stored, computed *float64) {
	switch {
	case stored == nil && computed == nil:
	case stored == nil || computed == nil || *stored != *computed:
		changes[column] = computed
	}
}

func diffString(changes map[string]interface{}, column string, stored, computed *string) {
	switch {
	case stored == nil && computed == nil:
	case stored == nil || computed == nil || *stored != *computed:
		changes[column] = computed
	}
}
