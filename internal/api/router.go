package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pgctour/scoring-engine/internal/api/handlers"
	"github.com/pgctour/scoring-engine/internal/scoring"
	"github.com/pgctour/scoring-engine/internal/services"
	"github.com/pgctour/scoring-engine/internal/store"
	"github.com/pgctour/scoring-engine/pkg/config"
)

// SetupRoutes configures all API routes on the given router group
func SetupRoutes(
	group *gin.RouterGroup,
	st *store.Store,
	engine *scoring.Engine,
	job *services.ScoringJobService,
	cache *services.CacheService,
	cfg *config.Config,
	logger *logrus.Logger,
) {
	scoringHandler := handlers.NewScoringHandler(st, engine, job, cache, logger, cfg.RecomputeRateLimit)

	// Leaderboard surface
	group.GET("/leaderboard", scoringHandler.GetLeaderboard)
	group.GET("/tournaments/current", scoringHandler.GetCurrentTournament)

	// Scoring job controls
	group.POST("/scoring/run", scoringHandler.TriggerRecompute)
	group.GET("/scoring/status", scoringHandler.GetJobStatus)
}
