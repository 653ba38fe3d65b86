// Command server runs the spaced-repetition study backend.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flashmind/flashmind-server/internal/api"
	achievementsapi "github.com/flashmind/flashmind-server/internal/api/achievements"
	authapi "github.com/flashmind/flashmind-server/internal/api/auth"
	decksapi "github.com/flashmind/flashmind-server/internal/api/decks"
	flashcardsapi "github.com/flashmind/flashmind-server/internal/api/flashcards"
	"github.com/flashmind/flashmind-server/internal/cache"
	"github.com/flashmind/flashmind-server/internal/config"
	"github.com/flashmind/flashmind-server/internal/notify"
	"github.com/flashmind/flashmind-server/internal/repository"
	"github.com/flashmind/flashmind-server/internal/service/achievements"
	"github.com/flashmind/flashmind-server/internal/service/decks"
	"github.com/flashmind/flashmind-server/internal/service/flashcards"
	"github.com/flashmind/flashmind-server/internal/service/leaderboard"
	"github.com/flashmind/flashmind-server/internal/service/scheduler"
	"github.com/flashmind/flashmind-server/internal/token"
	"github.com/flashmind/flashmind-server/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	log := logger.Get()

	log.Info().
		Str("environment", cfg.Server.Environment).
		Int("port", cfg.Server.Port).
		Msg("Starting flashmind server")

	db, err := repository.NewDB(&cfg.Database.Postgres, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	if err := db.AutoMigrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	redisCache, err := cache.NewRedisCache(&cfg.Database.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer func() {
		if err := redisCache.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close Redis connection")
		}
	}()

	userRepo := repository.NewUserRepository(db)
	deckRepo := repository.NewDeckRepository(db)
	cardRepo := repository.NewFlashcardRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)

	catalog, err := achievements.LoadCatalog(cfg.Achievements.CatalogPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load achievement catalog")
	}
	if err := achievements.SeedCatalog(achievementRepo, catalog, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed achievement catalog")
	}
	log.Info().Int("achievements", len(catalog)).Msg("Achievement catalog ready")

	notifier := notify.NewClient(&cfg.Notify, log)
	tokens := token.NewService(&cfg.Auth)

	cardService := flashcards.NewService(db, cardRepo, deckRepo, userRepo, log)
	deckService := decks.NewService(db, deckRepo, cardRepo, userRepo, log)
	achievementService := achievements.NewService(achievementRepo, userRepo, notifier, log)
	leaderboardService := leaderboard.NewService(
		userRepo,
		redisCache,
		time.Duration(cfg.Leaderboard.CacheTTL)*time.Second,
		log,
	)

	handlers := api.Handlers{
		Auth:       authapi.NewHandler(userRepo, tokens, log),
		Flashcards: flashcardsapi.NewHandler(cardService, log),
		Decks:      decksapi.NewHandler(deckService, log),
		Achievements: achievementsapi.NewHandler(
			achievementService,
			leaderboardService,
			cfg.Leaderboard.DefaultLimit,
			log,
		),
	}

	router := api.NewRouter(cfg, db, tokens, handlers)

	schedulerService := scheduler.NewService(cfg, cardRepo, achievementService, log)
	if err := schedulerService.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}
	defer schedulerService.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}

	log.Info().Msg("Server stopped")
}
