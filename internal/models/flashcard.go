package models

import (
	"time"
)

// Leitner box bounds. Box 1 is least mastered, box 5 is most mastered.
const (
	MinBox = 1
	MaxBox = 5
)

// Flashcard represents a single question/answer card in the Leitner system.
// Box only changes through a review outcome; editing the text never touches
// scheduling state.
type Flashcard struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	PublicID     string     `gorm:"uniqueIndex;not null;size:21" json:"public_id"`
	Question     string     `gorm:"type:text;not null" json:"question"`
	Answer       string     `gorm:"type:text;not null" json:"answer"`
	Box          int        `gorm:"default:1" json:"box"`
	NextReview   time.Time  `gorm:"not null;index" json:"next_review"`
	UserID       uint       `gorm:"not null;index" json:"user_id"`
	User         User       `gorm:"foreignKey:UserID" json:"-"`
	DeckID       uint       `gorm:"not null;index" json:"deck_id"`
	Deck         Deck       `gorm:"foreignKey:DeckID" json:"-"`
	ReviewCount  int        `gorm:"default:0" json:"review_count"`
	CorrectCount int        `gorm:"default:0" json:"correct_count"`
	Streak       int        `gorm:"default:0" json:"streak"`
	LastReviewed *time.Time `json:"last_reviewed"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName specifies the table name for Flashcard model.
func (Flashcard) TableName() string {
	return "flashcards"
}

// IsDue reports whether the card is due for review at the given time.
func (f *Flashcard) IsDue(now time.Time) bool {
	return !f.NextReview.After(now)
}
