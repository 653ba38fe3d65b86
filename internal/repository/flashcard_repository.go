package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/flashmind/flashmind-server/internal/models"
)

// FlashcardRepository handles flashcard-related database operations.
type FlashcardRepository struct {
	db *DB
}

// NewFlashcardRepository creates a new flashcard repository.
func NewFlashcardRepository(db *DB) *FlashcardRepository {
	return &FlashcardRepository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *FlashcardRepository) WithTx(tx *gorm.DB) *FlashcardRepository {
	return &FlashcardRepository{db: &DB{tx}}
}

// Create creates a new flashcard.
func (r *FlashcardRepository) Create(card *models.Flashcard) error {
	if err := r.db.Create(card).Error; err != nil {
		return fmt.Errorf("failed to create flashcard: %w", err)
	}
	return nil
}

// GetByPublicID retrieves a flashcard by its public identifier, scoped to
// the owning user.
func (r *FlashcardRepository) GetByPublicID(userID uint, publicID string) (*models.Flashcard, error) {
	var card models.Flashcard
	err := r.db.Where("public_id = ? AND user_id = ?", publicID, userID).First(&card).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get flashcard %s: %w", publicID, err)
	}
	return &card, nil
}

// GetByPublicIDForUpdate retrieves an owner-scoped flashcard with a row
// lock, for read-modify-write inside a transaction.
func (r *FlashcardRepository) GetByPublicIDForUpdate(userID uint, publicID string) (*models.Flashcard, error) {
	var card models.Flashcard
	err := lockForUpdate(r.db.DB).
		Where("public_id = ? AND user_id = ?", publicID, userID).
		First(&card).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get flashcard %s: %w", publicID, err)
	}
	return &card, nil
}

// ListByUser retrieves all flashcards owned by a user.
func (r *FlashcardRepository) ListByUser(userID uint) ([]models.Flashcard, error) {
	var cards []models.Flashcard
	if err := r.db.Where("user_id = ?", userID).Order("id ASC").Find(&cards).Error; err != nil {
		return nil, fmt.Errorf("failed to list flashcards for user %d: %w", userID, err)
	}
	return cards, nil
}

// ListDueByUser retrieves a user's flashcards whose next review is at or
// before the given time.
func (r *FlashcardRepository) ListDueByUser(userID uint, now time.Time) ([]models.Flashcard, error) {
	var cards []models.Flashcard
	err := r.db.
		Where("user_id = ? AND next_review <= ?", userID, now).
		Order("next_review ASC").
		Find(&cards).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list due flashcards for user %d: %w", userID, err)
	}
	return cards, nil
}

// ListByDeck retrieves all flashcards in a deck.
func (r *FlashcardRepository) ListByDeck(deckID uint) ([]models.Flashcard, error) {
	var cards []models.Flashcard
	if err := r.db.Where("deck_id = ?", deckID).Order("id ASC").Find(&cards).Error; err != nil {
		return nil, fmt.Errorf("failed to list flashcards for deck %d: %w", deckID, err)
	}
	return cards, nil
}

// ListDueByDeck retrieves a deck's flashcards whose next review is at or
// before the given time.
func (r *FlashcardRepository) ListDueByDeck(deckID uint, now time.Time) ([]models.Flashcard, error) {
	var cards []models.Flashcard
	err := r.db.
		Where("deck_id = ? AND next_review <= ?", deckID, now).
		Order("next_review ASC").
		Find(&cards).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list due flashcards for deck %d: %w", deckID, err)
	}
	return cards, nil
}

// CountDueByUser counts a user's currently due flashcards.
func (r *FlashcardRepository) CountDueByUser(userID uint, now time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Flashcard{}).
		Where("user_id = ? AND next_review <= ?", userID, now).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count due flashcards for user %d: %w", userID, err)
	}
	return count, nil
}

// CountDueAll counts all currently due flashcards across users. Used by
// the maintenance job to refresh gauges.
func (r *FlashcardRepository) CountDueAll(now time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Flashcard{}).
		Where("next_review <= ?", now).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count due flashcards: %w", err)
	}
	return count, nil
}

// CountByBox returns the number of cards in each Leitner box.
func (r *FlashcardRepository) CountByBox() (map[int]int64, error) {
	type boxCount struct {
		Box   int
		Count int64
	}
	var rows []boxCount
	err := r.db.Model(&models.Flashcard{}).
		Select("box, count(*) as count").
		Group("box").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count flashcards by box: %w", err)
	}

	counts := make(map[int]int64, len(rows))
	for _, row := range rows {
		counts[row.Box] = row.Count
	}
	return counts, nil
}

// Update updates a flashcard.
func (r *FlashcardRepository) Update(card *models.Flashcard) error {
	if err := r.db.Save(card).Error; err != nil {
		return fmt.Errorf("failed to update flashcard: %w", err)
	}
	return nil
}

// Delete deletes a flashcard by its internal ID.
func (r *FlashcardRepository) Delete(id uint) error {
	if err := r.db.Delete(&models.Flashcard{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete flashcard %d: %w", id, err)
	}
	return nil
}

// DeleteByDeck deletes all flashcards belonging to a deck. Used by the
// deck deletion cascade.
func (r *FlashcardRepository) DeleteByDeck(deckID uint) error {
	if err := r.db.Where("deck_id = ?", deckID).Delete(&models.Flashcard{}).Error; err != nil {
		return fmt.Errorf("failed to delete flashcards for deck %d: %w", deckID, err)
	}
	return nil
}
