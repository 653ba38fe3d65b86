// Package srs implements the Leitner spaced-repetition scheduling algorithm.
//
// Cards live in one of five boxes. A correct review promotes the card one
// box (capped at 5), an incorrect review sends it back to box 1. The box
// determines how many days until the card is due again. All functions are
// pure: the caller supplies the clock.
package srs

import (
	"time"

	"github.com/flashmind/flashmind-server/internal/models"
)

// intervals maps a box to its review interval in days.
var intervals = map[int]int{
	1: 1,
	2: 3,
	3: 7,
	4: 14,
	5: 30,
}

// NextBox returns the box a card moves to after a review outcome.
// A correct answer promotes one box up to the cap; an incorrect answer
// resets to box 1 regardless of the current box.
func NextBox(box int, correct bool) int {
	if !correct {
		return models.MinBox
	}
	next := box + 1
	if next > models.MaxBox {
		next = models.MaxBox
	}
	if next < models.MinBox {
		next = models.MinBox
	}
	return next
}

// IntervalDays returns the review interval in days for a box.
// Boxes outside 1..5 fall back to the 1-day interval rather than failing;
// callers log the anomaly.
func IntervalDays(box int) int {
	if days, ok := intervals[box]; ok {
		return days
	}
	return 1
}

// NextReviewAt computes when a card in the given box is due again,
// counting from now.
func NextReviewAt(box int, now time.Time) time.Time {
	return now.Add(time.Duration(IntervalDays(box)) * 24 * time.Hour)
}

// Advance applies a review outcome to a card's scheduling state: the box
// transition and the next due timestamp. Statistics counters are the
// stats package's concern, not this one's.
func Advance(card *models.Flashcard, correct bool, now time.Time) {
	card.Box = NextBox(card.Box, correct)
	card.NextReview = NextReviewAt(card.Box, now)
}

// InitializeNew sets the scheduling state of a freshly created card:
// box 1, due after the box-1 interval counted from creation time.
func InitializeNew(card *models.Flashcard, now time.Time) {
	card.Box = models.MinBox
	card.NextReview = NextReviewAt(card.Box, now)
}
