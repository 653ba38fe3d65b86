// Package decks provides deck management services.
package decks

import (
	"context"
	"errors"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"

	prommetrics "github.com/flashmind/flashmind-server/internal/metrics"
	"github.com/flashmind/flashmind-server/internal/models"
	"github.com/flashmind/flashmind-server/internal/repository"
	"github.com/flashmind/flashmind-server/pkg/logger"
)

// ErrNameRequired is returned when a deck is created without a name.
var ErrNameRequired = errors.New("deck name is required")

// Service handles deck operations.
type Service struct {
	db       *repository.DB
	deckRepo *repository.DeckRepository
	cardRepo *repository.FlashcardRepository
	userRepo *repository.UserRepository
	log      *logger.Logger
	now      func() time.Time
}

// NewService creates a new deck service.
func NewService(
	db *repository.DB,
	deckRepo *repository.DeckRepository,
	cardRepo *repository.FlashcardRepository,
	userRepo *repository.UserRepository,
	log *logger.Logger,
) *Service {
	return &Service{
		db:       db,
		deckRepo: deckRepo,
		cardRepo: cardRepo,
		userRepo: userRepo,
		log:      log,
		now:      time.Now,
	}
}

// Create creates a deck and bumps the owner's created-decks counter.
//
//nolint:revive // ctx reserved for future context-aware operations
func (s *Service) Create(ctx context.Context, userID uint, name, description string) (*models.Deck, error) {
	if name == "" {
		return nil, ErrNameRequired
	}

	publicID, err := gonanoid.New()
	if err != nil {
		return nil, err
	}

	deck := &models.Deck{
		PublicID:    publicID,
		Name:        name,
		Description: description,
		UserID:      userID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.deckRepo.WithTx(tx).Create(deck); err != nil {
			return err
		}

		user, err := s.userRepo.WithTx(tx).GetByIDForUpdate(userID)
		if err != nil {
			return err
		}
		user.DecksCreated++
		return s.userRepo.WithTx(tx).Update(user)
	})
	if err != nil {
		return nil, err
	}

	prommetrics.RecordDeckCreated()

	s.log.Info().
		Uint("user_id", userID).
		Str("deck", deck.PublicID).
		Str("name", deck.Name).
		Msg("Deck created")

	return deck, nil
}

// Get returns a deck and its cards.
//
//nolint:revive // ctx reserved for future context-aware operations
func (s *Service) Get(ctx context.Context, userID uint, publicID string) (*models.Deck, []models.Flashcard, error) {
	deck, err := s.deckRepo.GetByPublicID(userID, publicID)
	if err != nil {
		return nil, nil, err
	}
	cards, err := s.cardRepo.ListByDeck(deck.ID)
	if err != nil {
		return nil, nil, err
	}
	return deck, cards, nil
}

// Update changes a deck's name and description. Counters and review
// rollups are not touched here.
//
//nolint:revive // ctx reserved for future context-aware operations
func (s *Service) Update(ctx context.Context, userID uint, publicID, name, description string) (*models.Deck, error) {
	deck, err := s.deckRepo.GetByPublicID(userID, publicID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		deck.Name = name
	}
	deck.Description = description

	if err := s.deckRepo.Update(deck); err != nil {
		return nil, err
	}
	return deck, nil
}

// Delete removes a deck and cascades to all of its cards.
//
//nolint:revive // ctx reserved for future context-aware operations
func (s *Service) Delete(ctx context.Context, userID uint, publicID string) error {
	deck, err := s.deckRepo.GetByPublicID(userID, publicID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.cardRepo.WithTx(tx).DeleteByDeck(deck.ID); err != nil {
			return err
		}
		return s.deckRepo.WithTx(tx).Delete(deck.ID)
	})
	if err != nil {
		return err
	}

	s.log.Info().
		Uint("user_id", userID).
		Str("deck", deck.PublicID).
		Int("cards_deleted", deck.CardCount).
		Msg("Deck deleted")

	return nil
}

// List returns all decks owned by a user.
//
//nolint:revive // ctx reserved for future context-aware operations
func (s *Service) List(ctx context.Context, userID uint) ([]models.Deck, error) {
	return s.deckRepo.ListByUser(userID)
}

// ListDue returns the deck's cards that are due for review.
//
//nolint:revive // ctx reserved for future context-aware operations
func (s *Service) ListDue(ctx context.Context, userID uint, publicID string) ([]models.Flashcard, error) {
	deck, err := s.deckRepo.GetByPublicID(userID, publicID)
	if err != nil {
		return nil, err
	}
	return s.cardRepo.ListDueByDeck(deck.ID, s.now())
}
