package repository

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/flashmind/flashmind-server/internal/models"
)

// AchievementRepository handles achievement-related database operations.
type AchievementRepository struct {
	db *DB
}

// NewAchievementRepository creates a new achievement repository.
func NewAchievementRepository(db *DB) *AchievementRepository {
	return &AchievementRepository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *AchievementRepository) WithTx(tx *gorm.DB) *AchievementRepository {
	return &AchievementRepository{db: &DB{tx}}
}

// GetAll retrieves all achievement definitions.
func (r *AchievementRepository) GetAll() ([]models.Achievement, error) {
	var achievements []models.Achievement
	if err := r.db.Order("id ASC").Find(&achievements).Error; err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	return achievements, nil
}

// GetByName retrieves an achievement definition by its unique name.
func (r *AchievementRepository) GetByName(name string) (*models.Achievement, error) {
	var achievement models.Achievement
	if err := r.db.Where("name = ?", name).First(&achievement).Error; err != nil {
		return nil, fmt.Errorf("failed to get achievement %s: %w", name, err)
	}
	return &achievement, nil
}

// UpsertDefinition inserts an achievement definition or updates the
// mutable fields of an existing one, keyed by name. Used by the catalog
// seeder at startup.
func (r *AchievementRepository) UpsertDefinition(achievement *models.Achievement) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"description", "type", "requirement", "icon", "points", "updated_at",
		}),
	}).Create(achievement).Error
	if err != nil {
		return fmt.Errorf("failed to upsert achievement %s: %w", achievement.Name, err)
	}
	return nil
}

// GetUserAchievements retrieves a user's progress records with the
// achievement definitions preloaded.
func (r *AchievementRepository) GetUserAchievements(userID uint) ([]models.UserAchievement, error) {
	var records []models.UserAchievement
	err := r.db.
		Where("user_id = ?", userID).
		Preload("Achievement").
		Order("achievement_id ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get achievements for user %d: %w", userID, err)
	}
	return records, nil
}

// GetOrCreateProgress fetches the progress record for a (user, achievement)
// pair, creating it with zero progress if absent. The insert relies on the
// unique compound index to deduplicate racing callers: a conflicting insert
// is a no-op and the existing row is read back.
func (r *AchievementRepository) GetOrCreateProgress(userID, achievementID uint) (*models.UserAchievement, error) {
	record := &models.UserAchievement{
		UserID:        userID,
		AchievementID: achievementID,
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
		DoNothing: true,
	}).Create(record).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create progress record: %w", err)
	}

	var existing models.UserAchievement
	err = r.db.
		Where("user_id = ? AND achievement_id = ?", userID, achievementID).
		First(&existing).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get progress record: %w", err)
	}
	return &existing, nil
}

// SaveProgress persists a progress record.
func (r *AchievementRepository) SaveProgress(record *models.UserAchievement) error {
	if err := r.db.Save(record).Error; err != nil {
		return fmt.Errorf("failed to save progress record: %w", err)
	}
	return nil
}

// CountUnlocked returns how many achievements a user has unlocked.
func (r *AchievementRepository) CountUnlocked(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.UserAchievement{}).
		Where("user_id = ? AND unlocked = ?", userID, true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unlocked achievements for user %d: %w", userID, err)
	}
	return count, nil
}
