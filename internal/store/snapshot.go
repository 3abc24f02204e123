package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pgctour/scoring-engine/internal/models"
	"github.com/pgctour/scoring-engine/internal/scoring"
	"github.com/pgctour/scoring-engine/pkg/database"
)

// Store is the persistence adapter around the scoring core: it loads one
// consistent snapshot per cycle and writes back only the columns that
// changed.
type Store struct {
	db     *database.DB
	logger *logrus.Logger
}

// New creates a store.
func New(db *database.DB, logger *logrus.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// LoadSnapshot resolves the tournament to score (the most recently started
// event that has not ended) with its tier, golfers and teams, the season's
// tour cards, and the playoff context when the event is part of the playoff
// series. A quiet schedule (between seasons, no event underway) surfaces as
// scoring.ErrInsufficientData.
func (s *Store) LoadSnapshot(ctx context.Context) (*scoring.Snapshot, error) {
	now := time.Now().UTC()

	var tournament models.Tournament
	err := s.db.WithContext(ctx).
		Preload("Tier").
		Preload("Tours").
		Preload("Golfers").
		Preload("Teams").
		Where("start_date <= ? AND end_date >= ?", now, now.AddDate(0, 0, -1)).
		Order("start_date DESC").
		First(&tournament).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no tournament underway", scoring.ErrInsufficientData)
		}
		return nil, fmt.Errorf("load tournament: %w", err)
	}

	// Resolve golfer status from the raw position string once; everything
	// downstream switches on the enum.
	for i := range tournament.Golfers {
		g := &tournament.Golfers[i]
		if g.Status == "" || g.Status == models.GolferActive {
			g.Status = models.GolferStatusFromPosition(g.Position)
		}
	}

	var cards []models.TourCard
	if err := s.db.WithContext(ctx).
		Where("season_id = ?", tournament.SeasonID).
		Find(&cards).Error; err != nil {
		return nil, fmt.Errorf("load tour cards: %w", err)
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("%w: no tour cards for season %s", scoring.ErrInsufficientData, tournament.SeasonID)
	}
	cardsByID := make(map[uuid.UUID]*models.TourCard, len(cards))
	for i := range cards {
		cardsByID[cards[i].ID] = &cards[i]
	}

	snap := &scoring.Snapshot{
		Tournament: &tournament,
		TourCards:  cardsByID,
	}

	if tournament.IsPlayoff() {
		playoff, err := s.playoffContext(ctx, &tournament)
		if err != nil {
			return nil, err
		}
		snap.Playoff = playoff
	}

	s.logger.WithFields(logrus.Fields{
		"tournament": tournament.Name,
		"round":      tournament.CurrentRound,
		"live":       tournament.LivePlay,
		"teams":      len(tournament.Teams),
		"golfers":    len(tournament.Golfers),
	}).Debug("Snapshot loaded")

	return snap, nil
}

// playoffContext derives which of the season's playoff events this
// tournament is (by start-date order) and, for events after the first, each
// tour card's score carried in from the prior event.
func (s *Store) playoffContext(ctx context.Context, t *models.Tournament) (*scoring.PlayoffContext, error) {
	var seasonEvents []models.Tournament
	if err := s.db.WithContext(ctx).
		Preload("Tier").
		Where("season_id = ?", t.SeasonID).
		Order("start_date ASC").
		Find(&seasonEvents).Error; err != nil {
		return nil, fmt.Errorf("load season schedule: %w", err)
	}

	playoffEvents := make([]models.Tournament, 0, 3)
	for _, ev := range seasonEvents {
		if ev.IsPlayoff() {
			playoffEvents = append(playoffEvents, ev)
		}
	}

	event := 0
	for i := range playoffEvents {
		if playoffEvents[i].ID == t.ID {
			event = i + 1
			break
		}
	}
	if event == 0 {
		return nil, fmt.Errorf("%w: tournament %s not on the playoff schedule", scoring.ErrInsufficientData, t.ID)
	}

	playoff := &scoring.PlayoffContext{
		Event:   event,
		CarryIn: map[uuid.UUID]float64{},
	}
	if event >= 2 {
		prior := playoffEvents[event-2]
		var priorTeams []models.Team
		if err := s.db.WithContext(ctx).
			Where("tournament_id = ?", prior.ID).
			Find(&priorTeams).Error; err != nil {
			return nil, fmt.Errorf("load prior event teams: %w", err)
		}
		for _, pt := range priorTeams {
			if pt.Score != nil {
				playoff.CarryIn[pt.TourCardID] = *pt.Score
			}
		}
	}
	return playoff, nil
}
