package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/pgctour/scoring-engine/internal/scoring"
	"github.com/pgctour/scoring-engine/internal/services"
	"github.com/pgctour/scoring-engine/internal/store"
	"github.com/pgctour/scoring-engine/pkg/utils"
)

// ScoringHandler exposes the read-only leaderboard surface and the manual
// recompute trigger. It is thin plumbing around the job and cache; no
// scoring logic lives here.
type ScoringHandler struct {
	store   *store.Store
	engine  *scoring.Engine
	job     *services.ScoringJobService
	cache   *services.CacheService
	logger  *logrus.Logger
	limiter *rate.Limiter
}

// NewScoringHandler creates a scoring handler. recomputeRate bounds how often
// the manual trigger may fire.
func NewScoringHandler(
	st *store.Store,
	engine *scoring.Engine,
	job *services.ScoringJobService,
	cache *services.CacheService,
	logger *logrus.Logger,
	recomputeRate float64,
) *ScoringHandler {
	return &ScoringHandler{
		store:   st,
		engine:  engine,
		job:     job,
		cache:   cache,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(recomputeRate), 1),
	}
}

// GetLeaderboard returns the current tournament standings, cache-first with
// a recompute fallback when the cache is cold.
func (h *ScoringHandler) GetLeaderboard(c *gin.Context) {
	// A specific tournament is served from cache only; past events are not
	// recomputed on demand.
	if id := c.Query("tournament_id"); id != "" {
		if _, err := uuid.Parse(id); err != nil {
			utils.SendValidationError(c, "invalid tournament id", err.Error())
			return
		}
		var cached services.Leaderboard
		if err := h.cache.Get(c.Request.Context(), services.LeaderboardCacheKey(id), &cached); err != nil {
			utils.SendNotFound(c, "no cached leaderboard for tournament")
			return
		}
		utils.SendSuccess(c, cached)
		return
	}

	var cached services.Leaderboard
	if err := h.cache.Get(c.Request.Context(), services.CurrentLeaderboardCacheKey(), &cached); err == nil {
		utils.SendSuccess(c, cached)
		return
	}

	ctx, cancel := requestTimeout(c)
	defer cancel()

	snap, err := h.store.LoadSnapshot(ctx)
	if err != nil {
		if errors.Is(err, scoring.ErrInsufficientData) {
			utils.SendNotFound(c, "no tournament underway")
			return
		}
		h.logger.Errorf("Failed to load snapshot: %v", err)
		utils.SendInternalError(c, "failed to load leaderboard")
		return
	}

	results, err := h.engine.Compute(snap)
	if err != nil {
		if errors.Is(err, scoring.ErrInsufficientData) {
			utils.SendNotFound(c, "no tournament underway")
			return
		}
		h.logger.Errorf("Failed to compute leaderboard: %v", err)
		utils.SendInternalError(c, "failed to compute leaderboard")
		return
	}

	utils.SendSuccess(c, services.BuildLeaderboard(snap, results))
}

// GetCurrentTournament returns a summary of the tournament being scored.
func (h *ScoringHandler) GetCurrentTournament(c *gin.Context) {
	ctx, cancel := requestTimeout(c)
	defer cancel()

	// The cached leaderboard names the current tournament; its summary is
	// cached under its own key.
	var lb services.Leaderboard
	if err := h.cache.Get(ctx, services.CurrentLeaderboardCacheKey(), &lb); err == nil {
		var summary map[string]interface{}
		if err := h.cache.Get(ctx, services.TournamentCacheKey(lb.TournamentID), &summary); err == nil {
			utils.SendSuccess(c, summary)
			return
		}
	}

	snap, err := h.store.LoadSnapshot(ctx)
	if err != nil {
		if errors.Is(err, scoring.ErrInsufficientData) {
			utils.SendNotFound(c, "no tournament underway")
			return
		}
		h.logger.Errorf("Failed to load snapshot: %v", err)
		utils.SendInternalError(c, "failed to load tournament")
		return
	}

	t := snap.Tournament
	summary := gin.H{
		"id":            t.ID,
		"name":          t.Name,
		"course_name":   t.CourseName,
		"course_par":    t.CoursePar,
		"current_round": t.CurrentRound,
		"live_play":     t.LivePlay,
		"finished":      t.Finished(),
		"start_date":    t.StartDate,
		"end_date":      t.EndDate,
		"teams":         len(t.Teams),
		"golfers":       len(t.Golfers),
	}
	if snap.Playoff != nil {
		summary["playoff_event"] = snap.Playoff.Event
	}
	if err := h.cache.Set(ctx, services.TournamentCacheKey(t.ID.String()), summary, time.Minute); err != nil {
		h.logger.Debugf("Failed to cache tournament summary: %v", err)
	}
	utils.SendSuccess(c, summary)
}

// TriggerRecompute kicks off a scoring cycle on demand, rate-limited so a
// misbehaving caller cannot hammer the snapshot loader.
func (h *ScoringHandler) TriggerRecompute(c *gin.Context) {
	if !h.limiter.Allow() {
		utils.SendRateLimited(c, "recompute already requested recently")
		return
	}
	h.job.RunOnDemand()
	utils.SendSuccess(c, gin.H{"status": "recompute scheduled"})
}

// GetJobStatus reports the scoring job's scheduler and breaker state.
func (h *ScoringHandler) GetJobStatus(c *gin.Context) {
	utils.SendSuccess(c, h.job.Status())
}

func requestTimeout(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), 10*time.Second)
}
