package models

import (
	"time"
)

// Achievement type constants. The type selects which user counter the
// engine reads when computing progress.
const (
	AchievementTypeCardsCreated  = "cards_created"
	AchievementTypeCardsReviewed = "cards_reviewed"
	AchievementTypeStreak        = "streak"
	AchievementTypeAccuracy      = "accuracy"
	AchievementTypeDecksCreated  = "decks_created"
)

// Achievement represents a global achievement definition shared by all users.
type Achievement struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null;size:100" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Type        string    `gorm:"size:50;not null" json:"type"`
	Requirement float64   `gorm:"not null" json:"requirement"`
	Icon        string    `gorm:"size:50" json:"icon"`
	Points      int       `gorm:"not null" json:"points"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for Achievement model.
func (Achievement) TableName() string {
	return "achievements"
}

// UserAchievement tracks a single user's progress toward one achievement.
// The (user_id, achievement_id) pair is unique; records are created lazily
// on the first achievement check and never deleted. Unlocked is monotonic:
// once true it never reverts, and UnlockedAt is set exactly once.
type UserAchievement struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	UserID        uint        `gorm:"not null;uniqueIndex:idx_user_achievement" json:"user_id"`
	User          User        `gorm:"foreignKey:UserID" json:"-"`
	AchievementID uint        `gorm:"not null;uniqueIndex:idx_user_achievement" json:"achievement_id"`
	Achievement   Achievement `gorm:"foreignKey:AchievementID" json:"achievement,omitempty"`
	Progress      float64     `gorm:"default:0" json:"progress"`
	Unlocked      bool        `gorm:"default:false" json:"unlocked"`
	UnlockedAt    *time.Time  `json:"unlocked_at"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// TableName specifies the table name for UserAchievement model.
func (UserAchievement) TableName() string {
	return "user_achievements"
}
