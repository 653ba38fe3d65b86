// Package models defines domain models for the flashcard study system.
package models

import (
	"time"
)

// User represents a registered study user with rolling review statistics.
type User struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Username       string     `gorm:"uniqueIndex;not null;size:30" json:"username"`
	PasswordHash   string     `gorm:"not null;size:255" json:"-"`
	Score          int        `gorm:"default:0" json:"score"`
	CardsCreated   int        `gorm:"default:0" json:"cards_created"`
	CardsReviewed  int        `gorm:"default:0" json:"cards_reviewed"`
	CorrectReviews int        `gorm:"default:0" json:"correct_reviews"`
	DecksCreated   int        `gorm:"default:0" json:"decks_created"`
	CurrentStreak  int        `gorm:"default:0" json:"current_streak"`
	BestStreak     int        `gorm:"default:0" json:"best_streak"`
	LastReviewDate *time.Time `json:"last_review_date"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName specifies the table name for User model.
func (User) TableName() string {
	return "users"
}

// Accuracy returns the user's lifetime review accuracy as a percentage.
// Returns 0 when the user has no reviews yet.
func (u *User) Accuracy() float64 {
	if u.CardsReviewed == 0 {
		return 0
	}
	return float64(u.CorrectReviews) / float64(u.CardsReviewed) * 100
}
