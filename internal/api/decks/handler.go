// Package decks provides REST API handlers for deck operations.
package decks

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/flashmind/flashmind-server/internal/api/middleware"
	"github.com/flashmind/flashmind-server/internal/models"
	"github.com/flashmind/flashmind-server/internal/service/decks"
	"github.com/flashmind/flashmind-server/pkg/logger"
)

// DeckService interface for deck operations.
type DeckService interface {
	Create(ctx context.Context, userID uint, name, description string) (*models.Deck, error)
	Get(ctx context.Context, userID uint, publicID string) (*models.Deck, []models.Flashcard, error)
	Update(ctx context.Context, userID uint, publicID, name, description string) (*models.Deck, error)
	Delete(ctx context.Context, userID uint, publicID string) error
	List(ctx context.Context, userID uint) ([]models.Deck, error)
	ListDue(ctx context.Context, userID uint, publicID string) ([]models.Flashcard, error)
}

// Handler handles deck API requests.
type Handler struct {
	service DeckService
	log     *logger.Logger
}

// NewHandler creates a new deck handler.
func NewHandler(service *decks.Service, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// NewHandlerWithInterfaces creates a new deck handler with interface dependencies (useful for testing).
func NewHandlerWithInterfaces(service DeckService, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

type deckRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// List returns all decks of the current user.
// GET /api/decks.
func (h *Handler) List(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	userDecks, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Uint("user_id", userID).Msg("Failed to list decks")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve decks")
		return
	}

	c.JSON(http.StatusOK, userDecks)
}

// Create creates a new deck.
// POST /api/decks.
func (h *Handler) Create(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	var req deckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "deck name is required")
		return
	}

	deck, err := h.service.Create(c.Request.Context(), userID, req.Name, req.Description)
	if err != nil {
		h.handleServiceError(c, err, "Failed to create deck")
		return
	}

	c.JSON(http.StatusCreated, deck)
}

// Get returns a deck together with its flashcards.
// GET /api/decks/:id.
func (h *Handler) Get(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	deckID := c.Param("id")

	deck, cards, err := h.service.Get(c.Request.Context(), userID, deckID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to retrieve deck")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deck":       deck,
		"flashcards": cards,
	})
}

// Update renames a deck or changes its description.
// PUT /api/decks/:id.
func (h *Handler) Update(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	deckID := c.Param("id")

	var req deckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "deck name is required")
		return
	}

	deck, err := h.service.Update(c.Request.Context(), userID, deckID, req.Name, req.Description)
	if err != nil {
		h.handleServiceError(c, err, "Failed to update deck")
		return
	}

	c.JSON(http.StatusOK, deck)
}

// Delete removes a deck and all of its flashcards.
// DELETE /api/decks/:id.
func (h *Handler) Delete(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	deckID := c.Param("id")

	if err := h.service.Delete(c.Request.Context(), userID, deckID); err != nil {
		h.handleServiceError(c, err, "Failed to delete deck")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deck deleted"})
}

// ListDue returns the due flashcards of a single deck.
// GET /api/decks/:id/due.
func (h *Handler) ListDue(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	deckID := c.Param("id")

	cards, err := h.service.ListDue(c.Request.Context(), userID, deckID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to retrieve due flashcards")
		return
	}

	c.JSON(http.StatusOK, cards)
}

// handleServiceError maps service errors to HTTP responses.
func (h *Handler) handleServiceError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		h.errorResponse(c, http.StatusNotFound, "Deck not found")
	case errors.Is(err, decks.ErrNameRequired):
		h.errorResponse(c, http.StatusBadRequest, err.Error())
	default:
		h.log.Error().Err(err).Msg(logMsg)
		h.errorResponse(c, http.StatusInternalServerError, logMsg)
	}
}

func (h *Handler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error":     message,
		"timestamp": time.Now().UTC(),
	})
}
