// Package stats provides the pure statistics transitions applied by a
// single review event. Each function takes the old state and the outcome
// and mutates the given record; persistence and atomicity are the calling
// service's responsibility.
package stats

import (
	"time"

	"github.com/flashmind/flashmind-server/internal/models"
)

// ApplyCardReview updates a card's rolling counters for one review.
func ApplyCardReview(card *models.Flashcard, correct bool, now time.Time) {
	card.ReviewCount++
	if correct {
		card.CorrectCount++
		card.Streak++
	} else {
		card.Streak = 0
	}
	card.LastReviewed = &now
}

// ApplyDeckReview updates a deck's rollup counters for one review.
func ApplyDeckReview(deck *models.Deck, correct bool, now time.Time) {
	deck.TotalReviews++
	if correct {
		deck.CorrectReviews++
	}
	deck.LastReviewed = &now
}

// ApplyUserReview updates a user's rolling counters for one review.
// BestStreak is monotonic: it only moves when CurrentStreak passes it.
func ApplyUserReview(user *models.User, correct bool, now time.Time) {
	user.CardsReviewed++
	if correct {
		user.CorrectReviews++
		user.CurrentStreak++
		if user.CurrentStreak > user.BestStreak {
			user.BestStreak = user.CurrentStreak
		}
	} else {
		user.CurrentStreak = 0
	}
	user.LastReviewDate = &now
}

// Accuracy projects a correct/total counter pair to a percentage.
// Returns 0 for a zero denominator instead of dividing by zero.
func Accuracy(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}
