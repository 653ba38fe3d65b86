//nolint:noctx // Test file uses http.NewRequest for simplicity
package flashcards

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/flashmind/flashmind-server/internal/models"
	"github.com/flashmind/flashmind-server/internal/service/flashcards"
	"github.com/flashmind/flashmind-server/pkg/logger"
)

// Mock Flashcard Service
type mockFlashcardService struct {
	cards       map[string]*models.Flashcard
	lastCorrect *bool
}

func newMockFlashcardService() *mockFlashcardService {
	return &mockFlashcardService{cards: make(map[string]*models.Flashcard)}
}

func (m *mockFlashcardService) Create(ctx context.Context, userID uint, deckPublicID, question, answer string) (*models.Flashcard, error) {
	if question == "" || answer == "" || deckPublicID == "" {
		return nil, flashcards.ErrMissingFields
	}
	if deckPublicID == "missing" {
		return nil, gorm.ErrRecordNotFound
	}
	card := &models.Flashcard{
		PublicID:   "new-card",
		Question:   question,
		Answer:     answer,
		Box:        1,
		NextReview: time.Now().Add(24 * time.Hour),
		UserID:     userID,
	}
	m.cards[card.PublicID] = card
	return card, nil
}

func (m *mockFlashcardService) Review(ctx context.Context, userID uint, cardPublicID string, isCorrect bool) (*models.Flashcard, error) {
	card, ok := m.cards[cardPublicID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	m.lastCorrect = &isCorrect
	if isCorrect {
		card.Box++
	} else {
		card.Box = 1
	}
	return card, nil
}

func (m *mockFlashcardService) EditContent(ctx context.Context, userID uint, cardPublicID, question, answer string) (*models.Flashcard, error) {
	card, ok := m.cards[cardPublicID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	card.Question = question
	card.Answer = answer
	return card, nil
}

func (m *mockFlashcardService) Delete(ctx context.Context, userID uint, cardPublicID string) error {
	if _, ok := m.cards[cardPublicID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.cards, cardPublicID)
	return nil
}

func (m *mockFlashcardService) List(ctx context.Context, userID uint) ([]models.Flashcard, error) {
	cards := make([]models.Flashcard, 0, len(m.cards))
	for _, card := range m.cards {
		cards = append(cards, *card)
	}
	return cards, nil
}

func (m *mockFlashcardService) ListDue(ctx context.Context, userID uint) ([]models.Flashcard, error) {
	return []models.Flashcard{}, nil
}

// Test Setup
func setupTestHandler() (*Handler, *mockFlashcardService) {
	service := newMockFlashcardService()
	log := logger.New("debug", "json", "stdout")

	handler := NewHandlerWithInterfaces(service, log)

	return handler, service
}

func setupRouter(handler *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	// Stand-in for the auth middleware
	router.Use(func(c *gin.Context) {
		c.Set("user_id", uint(1))
		c.Next()
	})

	api := router.Group("/api")
	api.GET("/flashcards", handler.List)
	api.GET("/flashcards/due", handler.ListDue)
	api.POST("/flashcards", handler.Create)
	api.PUT("/flashcards/:id/review", handler.Review)
	api.PUT("/flashcards/:id/edit", handler.Edit)
	api.DELETE("/flashcards/:id", handler.Delete)

	return router
}

// Tests

func TestCreate_Success(t *testing.T) {
	handler, _ := setupTestHandler()
	router := setupRouter(handler)

	body, _ := json.Marshal(map[string]string{
		"question": "What is the capital of France?",
		"answer":   "Paris",
		"deck_id":  "deck-1",
	})
	req, _ := http.NewRequest("POST", "/api/flashcards", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var card map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &card)
	assert.NoError(t, err)
	assert.Equal(t, float64(1), card["box"])
	assert.Equal(t, "Paris", card["answer"])
}

func TestCreate_MissingFields(t *testing.T) {
	handler, _ := setupTestHandler()
	router := setupRouter(handler)

	body, _ := json.Marshal(map[string]string{"question": "Q"})
	req, _ := http.NewRequest("POST", "/api/flashcards", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreate_UnknownDeck(t *testing.T) {
	handler, _ := setupTestHandler()
	router := setupRouter(handler)

	body, _ := json.Marshal(map[string]string{
		"question": "Q",
		"answer":   "A",
		"deck_id":  "missing",
	})
	req, _ := http.NewRequest("POST", "/api/flashcards", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReview_Success(t *testing.T) {
	handler, service := setupTestHandler()
	router := setupRouter(handler)

	service.cards["card-1"] = &models.Flashcard{PublicID: "card-1", Box: 2}

	body, _ := json.Marshal(map[string]bool{"is_correct": true})
	req, _ := http.NewRequest("PUT", "/api/flashcards/card-1/review", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, service.lastCorrect)
	assert.True(t, *service.lastCorrect)

	var card map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &card)
	assert.NoError(t, err)
	assert.Equal(t, float64(3), card["box"])
}

func TestReview_FalseOutcomeBinds(t *testing.T) {
	handler, service := setupTestHandler()
	router := setupRouter(handler)

	service.cards["card-1"] = &models.Flashcard{PublicID: "card-1", Box: 4}

	// is_correct=false must bind, not be mistaken for a missing field
	req, _ := http.NewRequest("PUT", "/api/flashcards/card-1/review", bytes.NewReader([]byte(`{"is_correct":false}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, service.lastCorrect)
	assert.False(t, *service.lastCorrect)
}

func TestReview_MissingOutcome(t *testing.T) {
	handler, service := setupTestHandler()
	router := setupRouter(handler)

	service.cards["card-1"] = &models.Flashcard{PublicID: "card-1", Box: 1}

	req, _ := http.NewRequest("PUT", "/api/flashcards/card-1/review", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReview_UnknownCard(t *testing.T) {
	handler, _ := setupTestHandler()
	router := setupRouter(handler)

	body, _ := json.Marshal(map[string]bool{"is_correct": true})
	req, _ := http.NewRequest("PUT", "/api/flashcards/ghost/review", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEdit_Success(t *testing.T) {
	handler, service := setupTestHandler()
	router := setupRouter(handler)

	service.cards["card-1"] = &models.Flashcard{PublicID: "card-1", Question: "Old", Answer: "Old"}

	body, _ := json.Marshal(map[string]string{"question": "New Q", "answer": "New A"})
	req, _ := http.NewRequest("PUT", "/api/flashcards/card-1/edit", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "New Q", service.cards["card-1"].Question)
}

func TestDelete_Success(t *testing.T) {
	handler, service := setupTestHandler()
	router := setupRouter(handler)

	service.cards["card-1"] = &models.Flashcard{PublicID: "card-1"}

	req, _ := http.NewRequest("DELETE", "/api/flashcards/card-1", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, service.cards, "card-1")
}

func TestDelete_UnknownCard(t *testing.T) {
	handler, _ := setupTestHandler()
	router := setupRouter(handler)

	req, _ := http.NewRequest("DELETE", "/api/flashcards/ghost", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestList_Success(t *testing.T) {
	handler, service := setupTestHandler()
	router := setupRouter(handler)

	service.cards["card-1"] = &models.Flashcard{PublicID: "card-1"}
	service.cards["card-2"] = &models.Flashcard{PublicID: "card-2"}

	req, _ := http.NewRequest("GET", "/api/flashcards", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var cards []map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &cards)
	assert.NoError(t, err)
	assert.Len(t, cards, 2)
}
