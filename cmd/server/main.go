package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/pgctour/scoring-engine/internal/api"
	"github.com/pgctour/scoring-engine/internal/api/handlers"
	"github.com/pgctour/scoring-engine/internal/api/middleware"
	"github.com/pgctour/scoring-engine/internal/models"
	"github.com/pgctour/scoring-engine/internal/scoring"
	"github.com/pgctour/scoring-engine/internal/services"
	"github.com/pgctour/scoring-engine/internal/store"
	"github.com/pgctour/scoring-engine/pkg/config"
	"github.com/pgctour/scoring-engine/pkg/database"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	if cfg.IsDevelopment() {
		logrus.SetLevel(logrus.DebugLevel)
		gin.SetMode(gin.DebugMode)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Production schemas are managed externally; dev gets the convenience.
	if cfg.IsDevelopment() {
		if err := db.AutoMigrate(
			&models.Tier{},
			&models.Tour{},
			&models.TourCard{},
			&models.Tournament{},
			&models.Golfer{},
			&models.Team{},
		); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Connect to Redis
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logrus.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opt)
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logrus.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Initialize services
	logger := logrus.StandardLogger()
	cacheService := services.NewCacheService(redisClient)
	hub := services.NewLeaderboardHub(logger)
	go hub.Run()

	st := store.New(db, logger)
	engine := scoring.NewEngine(logger)

	// Parse scoring interval
	interval, err := time.ParseDuration(cfg.ScoringInterval)
	if err != nil {
		logrus.Warnf("Invalid scoring interval, using default 5m: %v", err)
		interval = 5 * time.Minute
	}

	scoringJob := services.NewScoringJobService(
		st,
		engine,
		cacheService,
		hub,
		logger,
		interval,
		cfg.SnapshotTimeout,
		time.Duration(cfg.LeaderboardCacheTTL)*time.Second,
		cfg.CircuitBreakerThreshold,
	)
	if cfg.EnableScoringJob {
		if err := scoringJob.Start(!cfg.SkipInitialScoringRun); err != nil {
			logrus.Errorf("Failed to start scoring job: %v", err)
		}
		defer scoringJob.Stop()
	}

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS())

	// Health check endpoint
	healthHandler := handlers.NewHealthHandler()
	router.GET("/health", healthHandler.GetHealth)

	// Setup API routes under /api/v1
	apiV1 := router.Group("/api/v1")
	api.SetupRoutes(apiV1, st, engine, scoringJob, cacheService, cfg, logger)

	// Live leaderboard stream at root level (not under /api/v1)
	router.GET("/ws", func(c *gin.Context) {
		hub.ServeWS(c.Writer, c.Request)
	})

	// Setup server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logrus.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
