// Package flashcards provides REST API handlers for flashcard operations.
package flashcards

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/flashmind/flashmind-server/internal/api/middleware"
	"github.com/flashmind/flashmind-server/internal/models"
	"github.com/flashmind/flashmind-server/internal/service/flashcards"
	"github.com/flashmind/flashmind-server/pkg/logger"
)

// FlashcardService interface for flashcard operations.
type FlashcardService interface {
	Create(ctx context.Context, userID uint, deckPublicID, question, answer string) (*models.Flashcard, error)
	Review(ctx context.Context, userID uint, cardPublicID string, isCorrect bool) (*models.Flashcard, error)
	EditContent(ctx context.Context, userID uint, cardPublicID, question, answer string) (*models.Flashcard, error)
	Delete(ctx context.Context, userID uint, cardPublicID string) error
	List(ctx context.Context, userID uint) ([]models.Flashcard, error)
	ListDue(ctx context.Context, userID uint) ([]models.Flashcard, error)
}

// Handler handles flashcard API requests.
type Handler struct {
	service FlashcardService
	log     *logger.Logger
}

// NewHandler creates a new flashcard handler.
func NewHandler(service *flashcards.Service, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// NewHandlerWithInterfaces creates a new flashcard handler with interface dependencies (useful for testing).
func NewHandlerWithInterfaces(service FlashcardService, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

type createRequest struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
	DeckID   string `json:"deck_id" binding:"required"`
}

type reviewRequest struct {
	IsCorrect *bool `json:"is_correct" binding:"required"`
}

type editRequest struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
}

// List returns all flashcards of the current user.
// GET /api/flashcards.
func (h *Handler) List(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	cards, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Uint("user_id", userID).Msg("Failed to list flashcards")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve flashcards")
		return
	}

	c.JSON(http.StatusOK, cards)
}

// ListDue returns the current user's due flashcards.
// GET /api/flashcards/due.
func (h *Handler) ListDue(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	cards, err := h.service.ListDue(c.Request.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Uint("user_id", userID).Msg("Failed to list due flashcards")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve due flashcards")
		return
	}

	c.JSON(http.StatusOK, cards)
}

// Create creates a new flashcard.
// POST /api/flashcards.
func (h *Handler) Create(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "question, answer, and deck are required")
		return
	}

	card, err := h.service.Create(c.Request.Context(), userID, req.DeckID, req.Question, req.Answer)
	if err != nil {
		h.handleServiceError(c, err, "Failed to create flashcard")
		return
	}

	c.JSON(http.StatusCreated, card)
}

// Review applies a review outcome to a flashcard.
// PUT /api/flashcards/:id/review.
func (h *Handler) Review(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	cardID := c.Param("id")

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "is_correct is required")
		return
	}

	card, err := h.service.Review(c.Request.Context(), userID, cardID, *req.IsCorrect)
	if err != nil {
		h.handleServiceError(c, err, "Failed to review flashcard")
		return
	}

	c.JSON(http.StatusOK, card)
}

// Edit updates a flashcard's question and answer.
// PUT /api/flashcards/:id/edit.
func (h *Handler) Edit(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	cardID := c.Param("id")

	var req editRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "question and answer are required")
		return
	}

	card, err := h.service.EditContent(c.Request.Context(), userID, cardID, req.Question, req.Answer)
	if err != nil {
		h.handleServiceError(c, err, "Failed to edit flashcard")
		return
	}

	c.JSON(http.StatusOK, card)
}

// Delete removes a flashcard.
// DELETE /api/flashcards/:id.
func (h *Handler) Delete(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	cardID := c.Param("id")

	if err := h.service.Delete(c.Request.Context(), userID, cardID); err != nil {
		h.handleServiceError(c, err, "Failed to delete flashcard")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Flashcard deleted"})
}

// handleServiceError maps service errors to HTTP responses.
func (h *Handler) handleServiceError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		h.errorResponse(c, http.StatusNotFound, "Flashcard or deck not found")
	case errors.Is(err, flashcards.ErrMissingFields):
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
