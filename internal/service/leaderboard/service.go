// Package leaderboard provides the score ranking read model.
package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/flashmind/flashmind-server/internal/cache"
	"github.com/flashmind/flashmind-server/internal/models"
	"github.com/flashmind/flashmind-server/internal/repository"
	"github.com/flashmind/flashmind-server/internal/stats"
	"github.com/flashmind/flashmind-server/pkg/logger"
)

// UserRepository interface for user operations.
type UserRepository interface {
	TopByScore(limit int) ([]models.User, error)
}

// Entry represents a single entry in the leaderboard.
type Entry struct {
	Username      string  `json:"username"`
	Score         int     `json:"score"`
	CardsReviewed int     `json:"cards_reviewed"`
	Accuracy      float64 `json:"accuracy"`
	CurrentStreak int     `json:"current_streak"`
	BestStreak    int     `json:"best_streak"`
	Rank          int     `json:"rank"`
}

// Service builds the leaderboard projection. It performs no mutation;
// ranking is score descending with ties kept in storage order, so the
// order is stable across calls for unchanged input.
type Service struct {
	userRepo UserRepository
	cache    cache.Cache
	cacheTTL time.Duration
	log      *logger.Logger

	mu         sync.Mutex
	cachedKeys map[string]struct{}
}

// NewService creates a new leaderboard service.
func NewService(userRepo *repository.UserRepository, c cache.Cache, cacheTTL time.Duration, log *logger.Logger) *Service {
	return &Service{
		userRepo:   userRepo,
		cache:      c,
		cacheTTL:   cacheTTL,
		log:        log,
		cachedKeys: make(map[string]struct{}),
	}
}

// NewServiceWithInterfaces creates a new leaderboard service with interface dependencies (useful for testing).
func NewServiceWithInterfaces(userRepo UserRepository, c cache.Cache, cacheTTL time.Duration, log *logger.Logger) *Service {
	return &Service{
		userRepo:   userRepo,
		cache:      c,
		cacheTTL:   cacheTTL,
		log:        log,
		cachedKeys: make(map[string]struct{}),
	}
}

// Top returns up to limit users ranked by score. Results are cached
// briefly; a slightly stale leaderboard is fine for this read model.
func (s *Service) Top(ctx context.Context, limit int) ([]Entry, error) {
	key := fmt.Sprintf("leaderboard:top:%d", limit)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err != nil {
			s.log.Warn().Err(err).Msg("Leaderboard cache read failed")
		} else if cached != "" {
			var entries []Entry
			if err := json.Unmarshal([]byte(cached), &entries); err == nil {
				return entries, nil
			}
			s.log.Warn().Str("key", key).Msg("Discarding malformed leaderboard cache entry")
		}
	}

	users, err := s.userRepo.TopByScore(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top users: %w", err)
	}

	entries := make([]Entry, 0, len(users))
	for i, user := range users {
		entries = append(entries, Entry{
			Username:      user.Username,
			Score:         user.Score,
			CardsReviewed: user.CardsReviewed,
			Accuracy:      stats.Accuracy(user.CorrectReviews, user.CardsReviewed),
			CurrentStreak: user.CurrentStreak,
			BestStreak:    user.BestStreak,
			Rank:          i + 1,
		})
	}

	if s.cache != nil {
		payload, err := json.Marshal(entries)
		if err == nil {
			if err := s.cache.Set(ctx, key, string(payload), s.cacheTTL); err != nil {
				s.log.Warn().Err(err).Msg("Leaderboard cache write failed")
			} else {
				s.mu.Lock()
				s.cachedKeys[key] = struct{}{}
				s.mu.Unlock()
			}
		}
	}

	return entries, nil
}

// Invalidate drops every cached projection so the next read reflects a
// score change immediately instead of waiting out the TTL.
func (s *Service) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}

	s.mu.Lock()
	keys := make([]string, 0, len(s.cachedKeys))
	for key := range s.cachedKeys {
		keys = append(keys, key)
	}
	s.cachedKeys = make(map[string]struct{})
	s.mu.Unlock()

	if len(keys) == 0 {
		return nil
	}
	if err := s.cache.Del(ctx, keys...); err != nil {
		return fmt.Errorf("failed to invalidate leaderboard cache: %w", err)
	}
	return nil
}
