package models

import (
	"time"
)

// Deck represents a named collection of flashcards owned by a user.
// CardCount and the review rollups are maintained incrementally by the
// services that mutate cards, not recomputed on read.
type Deck struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	PublicID       string     `gorm:"uniqueIndex;not null;size:21" json:"public_id"`
	Name           string     `gorm:"not null;size:100" json:"name"`
	Description    string     `gorm:"type:text" json:"description"`
	UserID         uint       `gorm:"not null;index" json:"user_id"`
	User           User       `gorm:"foreignKey:UserID" json:"-"`
	CardCount      int        `gorm:"default:0" json:"card_count"`
	TotalReviews   int        `gorm:"default:0" json:"total_reviews"`
	CorrectReviews int        `gorm:"default:0" json:"correct_reviews"`
	LastReviewed   *time.Time `json:"last_reviewed"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName specifies the table name for Deck model.
func (Deck) TableName() string {
	return "decks"
}

// Accuracy returns the deck's review accuracy as a percentage.
// Returns 0 when the deck has never been reviewed.
func (d *Deck) Accuracy() float64 {
	if d.TotalReviews == 0 {
		return 0
	}
	return float64(d.CorrectReviews) / float64(d.TotalReviews) * 100
}
