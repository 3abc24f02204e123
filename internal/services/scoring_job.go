package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/pgctour/scoring-engine/internal/scoring"
	"github.com/pgctour/scoring-engine/internal/store"
)

// ScoringJobService runs the periodic scoring cycle: load a snapshot, compute
// every team's row, persist the diff, refresh the leaderboard cache and push
// the standings to subscribers. Cycles are serialized; an overlapping
// trigger waits for the running cycle instead of racing its writes.
type ScoringJobService struct {
	store  *store.Store
	engine *scoring.Engine
	cache  *CacheService
	hub    *LeaderboardHub
	logger *logrus.Logger
	cron   *cron.Cron

	mu        sync.Mutex
	cycleMu   sync.Mutex
	isRunning bool

	interval        time.Duration
	snapshotTimeout time.Duration
	cacheTTL        time.Duration
	breaker         *gobreaker.CircuitBreaker
	lastCycle       time.Time
	lastError       string
}

// NewScoringJobService creates the scoring job.
func NewScoringJobService(
	st *store.Store,
	engine *scoring.Engine,
	cache *CacheService,
	hub *LeaderboardHub,
	logger *logrus.Logger,
	interval time.Duration,
	snapshotTimeout time.Duration,
	cacheTTL time.Duration,
	breakerThreshold int,
) *ScoringJobService {
	return &ScoringJobService{
		store:           st,
		engine:          engine,
		cache:           cache,
		hub:             hub,
		logger:          logger,
		cron:            cron.New(),
		interval:        interval,
		snapshotTimeout: snapshotTimeout,
		cacheTTL:        cacheTTL,
		breaker:         gobreaker.NewCircuitBreaker(snapshotBreakerSettings(logger, breakerThreshold, interval)),
	}
}

// snapshotBreakerSettings guards the snapshot loader against sustained
// genuine failures. ErrInsufficientData is the expected off-season state, not
// a failure; it must never trip the breaker or block scoring at season start.
func snapshotBreakerSettings(logger *logrus.Logger, threshold int, interval time.Duration) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        "snapshot-load",
		MaxRequests: uint32(threshold),
		Timeout:     2 * interval,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, scoring.ErrInsufficientData)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"component": "circuit_breaker",
				"service":   name,
				"from":      from.String(),
				"to":        to.String(),
			}).Info("Circuit breaker state changed")
		},
	}
}

// Start begins the scheduled scoring cycles.
func (s *ScoringJobService) Start(runInitial bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scoring job is already running")
	}

	schedule := fmt.Sprintf("@every %s", s.interval.String())
	_, err := s.cron.AddFunc(schedule, s.runScheduled)
	if err != nil {
		return fmt.Errorf("failed to schedule scoring job: %w", err)
	}

	s.cron.Start()
	s.isRunning = true

	if runInitial {
		go s.runScheduled()
	}

	s.logger.Info("Scoring job started")
	return nil
}

// Stop halts the scheduled cycles, waiting for a running one to finish.
func (s *ScoringJobService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.logger.Info("Scoring job stopped")
}

func (s *ScoringJobService) runScheduled() {
	if err := s.RunCycle(context.Background()); err != nil {
		s.logger.Errorf("Scoring cycle failed: %v", err)
	}
}

// RunCycle executes one full scoring cycle. A cycle either completes or
// returns an error; the next scheduled run retries from a fresh snapshot.
// An expected no-data state (between seasons, no event underway) is not an
// error.
func (s *ScoringJobService) RunCycle(ctx context.Context) error {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()

	started := time.Now()

	loadCtx, cancel := context.WithTimeout(ctx, s.snapshotTimeout)
	defer cancel()

	loaded, err := s.breaker.Execute(func() (interface{}, error) {
		return s.store.LoadSnapshot(loadCtx)
	})
	if err != nil {
		if errors.Is(err, scoring.ErrInsufficientData) {
			s.logger.Infof("Skipping scoring cycle: %v", err)
			s.recordCycle(started, nil)
			return nil
		}
		s.recordCycle(started, err)
		return fmt.Errorf("load snapshot: %w", err)
	}
	snap := loaded.(*scoring.Snapshot)

	results, err := s.engine.Compute(snap)
	if err != nil {
		if errors.Is(err, scoring.ErrInsufficientData) {
			s.logger.Infof("Skipping scoring cycle: %v", err)
			s.recordCycle(started, nil)
			return nil
		}
		s.recordCycle(started, err)
		return fmt.Errorf("compute standings: %w", err)
	}

	if err := s.store.SaveResults(ctx, snap, results); err != nil {
		s.recordCycle(started, err)
		return err
	}

	payload := BuildLeaderboard(snap, results)
	if err := s.cache.Set(ctx, CurrentLeaderboardCacheKey(), payload, s.cacheTTL); err != nil {
		// Cache staleness is tolerable; the DB already has the results.
		s.logger.Warnf("Failed to cache leaderboard: %v", err)
	}
	if err := s.cache.Set(ctx, LeaderboardCacheKey(snap.Tournament.ID.String()), payload, s.cacheTTL); err != nil {
		s.logger.Warnf("Failed to cache tournament leaderboard: %v", err)
	}
	s.hub.BroadcastStandings(payload)

	s.recordCycle(started, nil)
	s.logger.WithFields(logrus.Fields{
		"tournament": snap.Tournament.Name,
		"teams":      len(results),
		"round":      snap.Tournament.CurrentRound,
		"live":       snap.Tournament.LivePlay,
		"elapsed":    time.Since(started).String(),
	}).Info("Scoring cycle complete")
	return nil
}

// RunOnDemand triggers a cycle in the background, for the manual recompute
// endpoint.
func (s *ScoringJobService) RunOnDemand() {
	go s.runScheduled()
}

func (s *ScoringJobService) recordCycle(started time.Time, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastCycle = started
	if err != nil {
		s.lastError = err.Error()
	} else {
		s.lastError = ""
	}
}

// Status returns the current state of the job for the health endpoint.
func (s *ScoringJobService) Status() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]interface{}{
		"is_running":    s.isRunning,
		"interval":      s.interval.String(),
		"breaker_state": s.breaker.State().String(),
		"last_cycle":    s.lastCycle,
		"last_error":    s.lastError,
	}
}
