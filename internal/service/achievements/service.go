// Package achievements provides achievement evaluation and unlocking services.
package achievements

import (
	"context"
	"fmt"
	"time"

	prommetrics "github.com/flashmind/flashmind-server/internal/metrics"
	"github.com/flashmind/flashmind-server/internal/models"
	"github.com/flashmind/flashmind-server/internal/repository"
	"github.com/flashmind/flashmind-server/internal/stats"
	"github.com/flashmind/flashmind-server/pkg/logger"
)

// AchievementRepository interface for achievement operations.
type AchievementRepository interface {
	GetAll() ([]models.Achievement, error)
	GetOrCreateProgress(userID, achievementID uint) (*models.UserAchievement, error)
	SaveProgress(record *models.UserAchievement) error
	GetUserAchievements(userID uint) ([]models.UserAchievement, error)
}

// UserRepository interface for user operations.
type UserRepository interface {
	GetByID(id uint) (*models.User, error)
	Update(user *models.User) error
	List() ([]models.User, error)
}

// Notifier interface for unlock announcements.
type Notifier interface {
	SendAchievementUnlocked(username string, unlocked []models.Achievement) error
}

// CheckResult holds the outcome of one achievement check.
type CheckResult struct {
	Unlocked     []models.Achievement `json:"unlocked"`
	PointsEarned int                  `json:"points_earned"`
}

// Service evaluates achievement definitions against user statistics and
// awards points on unlock.
type Service struct {
	achievementRepo AchievementRepository
	userRepo        UserRepository
	notifier        Notifier
	log             *logger.Logger
	now             func() time.Time
}

// NewService creates a new achievement service.
func NewService(
	achievementRepo *repository.AchievementRepository,
	userRepo *repository.UserRepository,
	notifier Notifier,
	log *logger.Logger,
) *Service {
	return &Service{
		achievementRepo: achievementRepo,
		userRepo:        userRepo,
		notifier:        notifier,
		log:             log,
		now:             time.Now,
	}
}

// NewServiceWithInterfaces creates a new achievement service with interface dependencies (useful for testing).
func NewServiceWithInterfaces(
	achievementRepo AchievementRepository,
	userRepo UserRepository,
	notifier Notifier,
	log *logger.Logger,
) *Service {
	return &Service{
		achievementRepo: achievementRepo,
		userRepo:        userRepo,
		notifier:        notifier,
		log:             log,
		now:             time.Now,
	}
}

// CheckUser re-evaluates every achievement definition against the user's
// current counters. Progress is updated unconditionally; an achievement
// unlocks at most once, awarding its points exactly once. The user's score
// is persisted only when something newly unlocked.
//
//nolint:revive // ctx reserved for future context-aware operations
func (s *Service) CheckUser(ctx context.Context, userID uint) (*CheckResult, error) {
	start := time.Now()
	defer func() {
		prommetrics.ObserveAchievementCheckDuration(time.Since(start).Seconds())
	}()

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	achievements, err := s.achievementRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get achievements: %w", err)
	}

	result := &CheckResult{Unlocked: []models.Achievement{}}

	for _, achievement := range achievements {
		record, err := s.achievementRepo.GetOrCreateProgress(userID, achievement.ID)
		if err != nil {
			s.log.Error().
				Err(err).
				Uint("user_id", userID).
				Str("achievement", achievement.Name).
				Msg("Failed to get progress record")
			continue
		}

		progress := progressFor(user, &achievement)
		record.Progress = progress

		// Monotonic unlock: once unlocked, a record never reverts and
		// points are never re-awarded, even if progress dips below the
		// requirement later.
		if progress >= achievement.Requirement && !record.Unlocked {
			now := s.now()
			record.Unlocked = true
			record.UnlockedAt = &now
			user.Score += achievement.Points
			result.Unlocked = append(result.Unlocked, achievement)
			result.PointsEarned += achievement.Points

			prommetrics.RecordAchievementUnlocked(achievement.Name)

			s.log.Info().
				Uint("user_id", userID).
				Str("achievement", achievement.Name).
				Int("points", achievement.Points).
				Msg("Achievement unlocked")
		}

		if err := s.achievementRepo.SaveProgress(record); err != nil {
			s.log.Error().
				Err(err).
				Uint("user_id", userID).
				Str("achievement", achievement.Name).
				Msg("Failed to save progress record")
		}
	}

	if len(result.Unlocked) > 0 {
		if err := s.userRepo.Update(user); err != nil {
			return nil, fmt.Errorf("failed to persist score: %w", err)
		}

		if s.notifier != nil {
			if err := s.notifier.SendAchievementUnlocked(user.Username, result.Unlocked); err != nil {
				s.log.Warn().Err(err).Msg("Failed to send unlock notification")
			}
		}
	}

	return result, nil
}

// ListForUser returns the full catalog annotated with the user's progress.
// Achievements the user never progressed on report zero progress.
//
//nolint:revive // ctx reserved for future context-aware operations
func (s *Service) ListForUser(ctx context.Context, userID uint) ([]UserAchievementView, error) {
	achievements, err := s.achievementRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get achievements: %w", err)
	}

	records, err := s.achievementRepo.GetUserAchievements(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user progress: %w", err)
	}

	byAchievement := make(map[uint]*models.UserAchievement, len(records))
	for i := range records {
		byAchievement[records[i].AchievementID] = &records[i]
	}

	views := make([]UserAchievementView, 0, len(achievements))
	for _, achievement := range achievements {
		view := UserAchievementView{
			PublicID:    achievement.ID,
			Name:        achievement.Name,
			Description: achievement.Description,
			Type:        achievement.Type,
			Requirement: achievement.Requirement,
			Icon:        achievement.Icon,
			Points:      achievement.Points,
		}
		if record, ok := byAchievement[achievement.ID]; ok {
			view.Unlocked = record.Unlocked
			view.Progress = record.Progress
			view.UnlockedAt = record.UnlockedAt
		}
		views = append(views, view)
	}

	return views, nil
}

// EvaluateAll runs an achievement check for every user. This is the
// nightly maintenance entrypoint; per-user failures are logged and
// skipped so one bad record cannot stall the batch.
// Returns the number of achievements unlocked across all users.
func (s *Service) EvaluateAll(ctx context.Context) (int, error) {
	s.log.Info().Msg("Starting achievement evaluation for all users")
	start := time.Now()

	users, err := s.userRepo.List()
	if err != nil {
		return 0, fmt.Errorf("failed to list users: %w", err)
	}

	unlockedCount := 0
	for _, user := range users {
		result, err := s.CheckUser(ctx, user.ID)
		if err != nil {
			s.log.Error().
				Err(err).
				Uint("user_id", user.ID).
				Msg("Failed to check achievements for user")
			continue
		}
		unlockedCount += len(result.Unlocked)
	}

	s.log.Info().
		Int("users_evaluated", len(users)).
		Int("achievements_unlocked", unlockedCount).
		Dur("duration", time.Since(start)).
		Msg("Achievement evaluation complete")

	return unlockedCount, nil
}

// UserAchievementView is the catalog-plus-progress projection served to
// clients.
type UserAchievementView struct {
	PublicID    uint       `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Type        string     `json:"type"`
	Requirement float64    `json:"requirement"`
	Icon        string     `json:"icon"`
	Points      int        `json:"points"`
	Unlocked    bool       `json:"unlocked"`
	Progress    float64    `json:"progress"`
	UnlockedAt  *time.Time `json:"unlocked_at,omitempty"`
}

// progressFor computes the user's current progress toward one achievement,
// selected by the achievement type. Accuracy carries the usual zero-guard.
func progressFor(user *models.User, achievement *models.Achievement) float64 {
	switch achievement.Type {
	case models.AchievementTypeCardsCreated:
		return float64(user.CardsCreated)
	case models.AchievementTypeCardsReviewed:
		return float64(user.CardsReviewed)
	case models.AchievementTypeStreak:
		return float64(user.CurrentStreak)
	case models.AchievementTypeAccuracy:
		return stats.Accuracy(user.CorrectReviews, user.CardsReviewed)
	case models.AchievementTypeDecksCreated:
		return float64(user.DecksCreated)
	default:
		return 0
	}
}
