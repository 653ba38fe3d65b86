// Package achievements provides REST API handlers for achievements and the
// leaderboard.
package achievements

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/flashmind/flashmind-server/internal/api/middleware"
	"github.com/flashmind/flashmind-server/internal/service/achievements"
	"github.com/flashmind/flashmind-server/internal/service/leaderboard"
	"github.com/flashmind/flashmind-server/pkg/logger"
)

const maxLeaderboardLimit = 1000

// AchievementService interface for achievement operations.
type AchievementService interface {
	CheckUser(ctx context.Context, userID uint) (*achievements.CheckResult, error)
	ListForUser(ctx context.Context, userID uint) ([]achievements.UserAchievementView, error)
}

// LeaderboardService interface for leaderboard reads.
type LeaderboardService interface {
	Top(ctx context.Context, limit int) ([]leaderboard.Entry, error)
	Invalidate(ctx context.Context) error
}

// Handler handles achievement and leaderboard API requests.
type Handler struct {
	achievementService AchievementService
	leaderboardService LeaderboardService
	defaultLimit       int
	log                *logger.Logger
}

// NewHandler creates a new achievements handler.
func NewHandler(
	achievementService *achievements.Service,
	leaderboardService *leaderboard.Service,
	defaultLimit int,
	log *logger.Logger,
) *Handler {
	return &Handler{
		achievementService: achievementService,
		leaderboardService: leaderboardService,
		defaultLimit:       defaultLimit,
		log:                log,
	}
}

// NewHandlerWithInterfaces creates a new achievements handler with interface dependencies (useful for testing).
func NewHandlerWithInterfaces(
	achievementService AchievementService,
	leaderboardService LeaderboardService,
	defaultLimit int,
	log *logger.Logger,
) *Handler {
	return &Handler{
		achievementService: achievementService,
		leaderboardService: leaderboardService,
		defaultLimit:       defaultLimit,
		log:                log,
	}
}

// List returns the achievement catalog with the current user's progress.
// GET /api/achievements.
func (h *Handler) List(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	views, err := h.achievementService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Uint("user_id", userID).Msg("Failed to list achievements")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve achievements")
		return
	}

	c.JSON(http.StatusOK, views)
}

// Check re-evaluates every achievement for the current user and reports
// new unlocks.
// POST /api/achievements/check.
func (h *Handler) Check(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	result, err := h.achievementService.CheckUser(c.Request.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Uint("user_id", userID).Msg("Achievement check failed")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to check achievements")
		return
	}

	// New unlocks change the user's score, so cached rankings are stale.
	if len(result.Unlocked) > 0 {
		if err := h.leaderboardService.Invalidate(c.Request.Context()); err != nil {
			h.log.Warn().Err(err).Msg("Failed to invalidate leaderboard cache")
		}
	}

	c.JSON(http.StatusOK, result)
}

// Leaderboard returns the top users ranked by score.
// GET /api/achievements/leaderboard.
func (h *Handler) Leaderboard(c *gin.Context) {
	limit := h.parseLimit(c.Query("limit"))

	entries, err := h.leaderboardService.Top(c.Request.Context(), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to build leaderboard")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve leaderboard")
		return
	}

	c.JSON(http.StatusOK, entries)
}

// parseLimit clamps the requested leaderboard size to sane bounds.
func (h *Handler) parseLimit(raw string) int {
	if raw == "" {
		return h.defaultLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return h.defaultLimit
	}
	if limit > maxLeaderboardLimit {
		return maxLeaderboardLimit
	}
	return limit
}

func (h *Handler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error":     message,
		"timestamp": time.Now().UTC(),
	})
}
