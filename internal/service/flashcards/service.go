// Package flashcards provides flashcard creation, review, and editing services.
// A review runs the full pipeline in one transaction: Leitner box advance,
// then card/deck/user statistics, so no partial update is ever observable.
package flashcards

import (
	"context"
	"errors"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"

	prommetrics "github.com/flashmind/flashmind-server/internal/metrics"
	"github.com/flashmind/flashmind-server/internal/models"
	"github.com/flashmind/flashmind-server/internal/repository"
	"github.com/flashmind/flashmind-server/internal/srs"
	"github.com/flashmind/flashmind-server/internal/stats"
	"github.com/flashmind/flashmind-server/pkg/logger"
)

// ErrMissingFields is returned when a required field is empty. The request
// is rejected before any state changes.
var ErrMissingFields = errors.New("question, answer, and deck are required")

// Service handles flashcard operations.
type Service struct {
	db       *repository.DB
	cardRepo *repository.FlashcardRepository
	deckRepo *repository.DeckRepository
	userRepo *repository.UserRepository
	log      *logger.Logger
	now      func() time.Time
}

// NewService creates a new flashcard service.
func NewService(
	db *repository.DB,
	cardRepo *repository.FlashcardRepository,
	deckRepo *repository.DeckRepository,
	userRepo *repository.UserRepository,
	log *logger.Logger,
) *Service {
	return &Service{
		db:       db,
		cardRepo: cardRepo,
		deckRepo: deckRepo,
		userRepo: userRepo,
		log:      log,
		now:      time.Now,
	}
}

// Create creates a flashcard in the given deck. The card starts in box 1
// and becomes due after the box-1 interval counted from creation time.
// Creation also bumps the deck's card count and the user's created counter.
//
//nolint:revive // ctx reserved for future context-aware operations
func (s *Service) Create(ctx context.Context, userID uint, deckPublicID, question, answer string) (*models.Flashcard, error) {
	if question == "" || answer == "" || deckPublicID == "" {
		return nil, ErrMissingFields
	}

	deck, err := s.deckRepo.GetByPublicID(userID, deckPublicID)
	if err != nil {
		return nil, err
	}

	publicID, err := gonanoid.New()
	if err != nil {
		return nil, err
	}

	now := s.now()
	card := &models.Flashcard{
		PublicID: publicID,
		Question: question,
		Answer:   answer,
		UserID:   userID,
		DeckID:   deck.ID,
	}
	srs.InitializeNew(card, now)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.cardRepo.WithTx(tx).Create(card); err != nil {
			return err
		}

		lockedDeck, err := s.deckRepo.WithTx(tx).GetByIDForUpdate(deck.ID)
		if err != nil {
			return err
		}
		lockedDeck.CardCount++
		if err := s.deckRepo.WithTx(tx).Update(lockedDeck); err != nil {
			return err
		}

		user, err := s.userRepo.WithTx(tx).GetByIDForUpdate(userID)
		if err != nil {
			return err
		}
		user.CardsCreated++
		return s.userRepo.WithTx(tx).Update(user)
	})
	if err != nil {
		return nil, err
	}

	prommetrics.RecordCardCreated()

	s.log.Info().
		Uint("user_id", userID).
		Str("card", card.PublicID).
		Str("deck", deck.PublicID).
		Msg("Flashcard created")

	return card, nil
}

// Review applies one review outcome to a card: the Leitner advance plus
// the card, deck, and user statistics, all inside a single transaction
// with row locks so concurrent reviews of the same entities serialize.
//
//nolint:revive // ctx reserved for future context-aware operations
func (s *Service) Review(ctx context.Context, userID uint, cardPublicID string, isCorrect bool) (*models.Flashcard, error) {
	start := time.Now()
	now := s.now()

	var reviewed *models.Flashcard
	err := s.db.Transaction(func(tx *gorm.DB) error {
		card, err := s.cardRepo.WithTx(tx).GetByPublicIDForUpdate(userID, cardPublicID)
		if err != nil {
			return err
		}

		if card.Box < models.MinBox || card.Box > models.MaxBox {
			// Tolerated anomaly: the scheduler falls back to the 1-day
			// interval instead of failing the review.
			s.log.Warn().
				Str("card", card.PublicID).
				Int("box", card.Box).
				Msg("Card box out of range, falling back to 1-day interval")
		}

		srs.Advance(card, isCorrect, now)
		stats.ApplyCardReview(card, isCorrect, now)
		if err := s.cardRepo.WithTx(tx).Update(card); err != nil {
			return err
		}

		deck, err := s.deckRepo.WithTx(tx).GetByIDForUpdate(card.DeckID)
		if err != nil {
			return err
		}
		stats.ApplyDeckReview(deck, isCorrect, now)
		if err := s.deckRepo.WithTx(tx).Update(deck); err != nil {
			return err
		}

		user, err := s.userRepo.WithTx(tx).GetByIDForUpdate(userID)
		if err != nil {
			return err
		}
		stats.ApplyUserReview(user, isCorrect, now)
		if err := s.userRepo.WithTx(tx).Update(user); err != nil {
			return err
		}

		reviewed = card
		return nil
	})
	if err != nil {
		return nil, err
	}

	prommetrics.RecordReview(isCorrect)
	prommetrics.ObserveReviewPipelineDuration(time.Since(start).Seconds())

	s.log.Info().
		Uint("user_id", userID).
		Str("card", reviewed.PublicID).
		Bool("correct", isCorrect).
		Int("box", reviewed.Box).
		Time("next_review", reviewed.NextReview).
		Msg("Flashcard reviewed")

	return reviewed, nil
}

// EditContent updates a card's question and answer. Scheduling state and
// statistics are untouched.
//
//nolint:revive // ctx reserved for future context-aware operations
func (s *Service) EditContent(ctx context.Context, userID uint, cardPublicID, question, answer string) (*models.Flashcard, error) {
	if question == "" || answer == "" {
		return nil, ErrMissingFields
	}

	card, err := s.cardRepo.GetByPublicID(userID, cardPublicID)
	if err != nil {
		return nil, err
	}

	card.Question = question
	card.Answer = answer
	if err := s.cardRepo.Update(card); err != nil {
		return nil, err
	}

	return card, nil
}

// Delete removes a card and decrements its deck's card count.
//
//nolint:revive // ctx reserved for future context-aware operations
func (s *Service) Delete(ctx context.Context, userID uint, cardPublicID string) error {
	card, err := s.cardRepo.GetByPublicID(userID, cardPublicID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.cardRepo.WithTx(tx).Delete(card.ID); err != nil {
			return err
		}

		deck, err := s.deckRepo.WithTx(tx).GetByIDForUpdate(card.DeckID)
		if err != nil {
			return err
		}
		if deck.CardCount > 0 {
			deck.CardCount--
		}
		return s.deckRepo.WithTx(tx).Update(deck)
	})
}

// List returns all of a user's flashcards.
//
//nolint:revive // ctx reserved for future context-aware operations
func (s *Service) List(ctx context.Context, userID uint) ([]models.Flashcard, error) {
	return s.cardRepo.ListByUser(userID)
}

// ListDue returns the user's cards due at the current time.
//
//nolint:revive // ctx reserved for future context-aware operations
func (s *Service) ListDue(ctx context.Context, userID uint) ([]models.Flashcard, error) {
	return s.cardRepo.ListDueByUser(userID, s.now())
}

// ListDueByDeck returns the due cards of one deck, verifying ownership.
//
//nolint:revive // ctx reserved for future context-aware operations
func (s *Service) ListDueByDeck(ctx context.Context, userID uint, deckPublicID string) ([]models.Flashcard, error) {
	deck, err := s.deckRepo.GetByPublicID(userID, deckPublicID)
	if err != nil {
		return nil, err
	}
	return s.cardRepo.ListDueByDeck(deck.ID, s.now())
}
