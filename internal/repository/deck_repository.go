package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/flashmind/flashmind-server/internal/models"
)

// DeckRepository handles deck-related database operations.
type DeckRepository struct {
	db *DB
}

// NewDeckRepository creates a new deck repository.
func NewDeckRepository(db *DB) *DeckRepository {
	return &DeckRepository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *DeckRepository) WithTx(tx *gorm.DB) *DeckRepository {
	return &DeckRepository{db: &DB{tx}}
}

// Create creates a new deck.
func (r *DeckRepository) Create(deck *models.Deck) error {
	if err := r.db.Create(deck).Error; err != nil {
		return fmt.Errorf("failed to create deck: %w", err)
	}
	return nil
}

// GetByID retrieves a deck by its internal ID.
func (r *DeckRepository) GetByID(id uint) (*models.Deck, error) {
	var deck models.Deck
	if err := r.db.First(&deck, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get deck by id %d: %w", id, err)
	}
	return &deck, nil
}

// GetByIDForUpdate retrieves a deck by ID with a row lock, for
// read-modify-write inside a transaction.
func (r *DeckRepository) GetByIDForUpdate(id uint) (*models.Deck, error) {
	var deck models.Deck
	if err := lockForUpdate(r.db.DB).First(&deck, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get deck by id %d: %w", id, err)
	}
	return &deck, nil
}

// GetByPublicID retrieves a deck by its public identifier, scoped to the
// owning user. A foreign deck is indistinguishable from a missing one.
func (r *DeckRepository) GetByPublicID(userID uint, publicID string) (*models.Deck, error) {
	var deck models.Deck
	err := r.db.Where("public_id = ? AND user_id = ?", publicID, userID).First(&deck).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get deck %s: %w", publicID, err)
	}
	return &deck, nil
}

// ListByUser retrieves all decks owned by a user.
func (r *DeckRepository) ListByUser(userID uint) ([]models.Deck, error) {
	var decks []models.Deck
	if err := r.db.Where("user_id = ?", userID).Order("id ASC").Find(&decks).Error; err != nil {
		return nil, fmt.Errorf("failed to list decks for user %d: %w", userID, err)
	}
	return decks, nil
}

// Update updates a deck.
func (r *DeckRepository) Update(deck *models.Deck) error {
	if err := r.db.Save(deck).Error; err != nil {
		return fmt.Errorf("failed to update deck: %w", err)
	}
	return nil
}

// Delete deletes a deck by its internal ID.
func (r *DeckRepository) Delete(id uint) error {
	if err := r.db.Delete(&models.Deck{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete deck %d: %w", id, err)
	}
	return nil
}
