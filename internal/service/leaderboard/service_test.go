package leaderboard

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/flashmind/flashmind-server/internal/models"
	"github.com/flashmind/flashmind-server/pkg/logger"
	"github.com/flashmind/flashmind-server/test/mocks"
)

// Mock repository for testing
type mockUserRepository struct {
	users []models.User
	calls int
}

func (m *mockUserRepository) TopByScore(limit int) ([]models.User, error) {
	m.calls++

	sorted := make([]models.User, len(m.users))
	copy(sorted, m.users)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].ID < sorted[j].ID
	})

	if limit < len(sorted) {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

func setupTestService() (*Service, *mockUserRepository, *mocks.MockCache) {
	userRepo := &mockUserRepository{}
	cache := mocks.NewMockCache()
	log := logger.New("debug", "json", "stdout")

	service := NewServiceWithInterfaces(userRepo, cache, time.Minute, log)

	return service, userRepo, cache
}

func TestTop_OrdersByScoreDescending(t *testing.T) {
	service, userRepo, _ := setupTestService()

	userRepo.users = []models.User{
		{ID: 1, Username: "alice", Score: 120, CardsReviewed: 40, CorrectReviews: 30},
		{ID: 2, Username: "bob", Score: 300, CardsReviewed: 100, CorrectReviews: 90},
		{ID: 3, Username: "charlie", Score: 50, CardsReviewed: 10, CorrectReviews: 2},
	}

	entries, err := service.Top(context.Background(), 10)
	if err != nil {
		t.Fatalf("Top failed: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	if entries[0].Username != "bob" || entries[1].Username != "alice" || entries[2].Username != "charlie" {
		t.Errorf("Unexpected order: %s, %s, %s", entries[0].Username, entries[1].Username, entries[2].Username)
	}
	for i, entry := range entries {
		if entry.Rank != i+1 {
			t.Errorf("Expected rank %d at position %d, got %d", i+1, i, entry.Rank)
		}
	}
}

func TestTop_TiesKeepInsertionOrder(t *testing.T) {
	service, userRepo, _ := setupTestService()

	userRepo.users = []models.User{
		{ID: 5, Username: "later", Score: 100},
		{ID: 2, Username: "earlier", Score: 100},
	}

	entries, err := service.Top(context.Background(), 10)
	if err != nil {
		t.Fatalf("Top failed: %v", err)
	}

	// Equal scores rank by oldest account first
	if entries[0].Username != "earlier" {
		t.Errorf("Expected 'earlier' at rank 1, got %s", entries[0].Username)
	}
	if entries[1].Username != "later" {
		t.Errorf("Expected 'later' at rank 2, got %s", entries[1].Username)
	}
}

func TestTop_AccuracyZeroGuard(t *testing.T) {
	service, userRepo, _ := setupTestService()

	userRepo.users = []models.User{
		{ID: 1, Username: "fresh", Score: 10, CardsReviewed: 0, CorrectReviews: 0},
	}

	entries, err := service.Top(context.Background(), 10)
	if err != nil {
		t.Fatalf("Top failed: %v", err)
	}

	if entries[0].Accuracy != 0 {
		t.Errorf("Expected accuracy 0 for a user with no reviews, got %f", entries[0].Accuracy)
	}
}

func TestTop_AccuracyProjection(t *testing.T) {
	service, userRepo, _ := setupTestService()

	userRepo.users = []models.User{
		{ID: 1, Username: "alice", Score: 10, CardsReviewed: 40, CorrectReviews: 30},
	}

	entries, err := service.Top(context.Background(), 10)
	if err != nil {
		t.Fatalf("Top failed: %v", err)
	}

	if entries[0].Accuracy != 75 {
		t.Errorf("Expected accuracy 75, got %f", entries[0].Accuracy)
	}
}

func TestTop_AppliesLimit(t *testing.T) {
	service, userRepo, _ := setupTestService()

	for i := uint(1); i <= 5; i++ {
		userRepo.users = append(userRepo.users, models.User{
			ID:       i,
			Username: "user",
			Score:    int(i * 10),
		})
	}

	entries, err := service.Top(context.Background(), 3)
	if err != nil {
		t.Fatalf("Top failed: %v", err)
	}

	if len(entries) != 3 {
		t.Errorf("Expected 3 entries (limit), got %d", len(entries))
	}
}

func TestTop_ServesFromCache(t *testing.T) {
	service, userRepo, cache := setupTestService()

	userRepo.users = []models.User{
		{ID: 1, Username: "alice", Score: 100},
	}

	if _, err := service.Top(context.Background(), 10); err != nil {
		t.Fatalf("Top failed: %v", err)
	}
	if userRepo.calls != 1 {
		t.Fatalf("Expected 1 repository call, got %d", userRepo.calls)
	}
	if cache.Sets != 1 {
		t.Fatalf("Expected 1 cache write, got %d", cache.Sets)
	}

	// Second call with the same limit hits the cache, not the repository
	entries, err := service.Top(context.Background(), 10)
	if err != nil {
		t.Fatalf("Top failed: %v", err)
	}
	if userRepo.calls != 1 {
		t.Errorf("Expected repository untouched on cache hit, got %d calls", userRepo.calls)
	}
	if len(entries) != 1 || entries[0].Username != "alice" {
		t.Errorf("Cached entries do not match: %+v", entries)
	}
}

func TestInvalidate_ForcesRefetch(t *testing.T) {
	service, userRepo, _ := setupTestService()

	userRepo.users = []models.User{
		{ID: 1, Username: "alice", Score: 100},
	}

	// Nothing cached yet, invalidation is a no-op
	if err := service.Invalidate(context.Background()); err != nil {
		t.Fatalf("Invalidate on an empty cache should be a no-op, got %v", err)
	}

	if _, err := service.Top(context.Background(), 10); err != nil {
		t.Fatalf("Top failed: %v", err)
	}
	if userRepo.calls != 1 {
		t.Fatalf("Expected 1 repository call, got %d", userRepo.calls)
	}

	// Score changes, then the cache is invalidated
	userRepo.users[0].Score = 150
	if err := service.Invalidate(context.Background()); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}

	entries, err := service.Top(context.Background(), 10)
	if err != nil {
		t.Fatalf("Top failed: %v", err)
	}
	if userRepo.calls != 2 {
		t.Errorf("Expected a fresh repository call after invalidation, got %d", userRepo.calls)
	}
	if entries[0].Score != 150 {
		t.Errorf("Expected the new score 150, got %d", entries[0].Score)
	}
}

func TestInvalidate_DropsEveryCachedLimit(t *testing.T) {
	service, userRepo, _ := setupTestService()

	userRepo.users = []models.User{
		{ID: 1, Username: "alice", Score: 100},
		{ID: 2, Username: "bob", Score: 90},
	}

	if _, err := service.Top(context.Background(), 1); err != nil {
		t.Fatalf("Top failed: %v", err)
	}
	if _, err := service.Top(context.Background(), 2); err != nil {
		t.Fatalf("Top failed: %v", err)
	}

	if err := service.Invalidate(context.Background()); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}

	if _, err := service.Top(context.Background(), 1); err != nil {
		t.Fatalf("Top failed: %v", err)
	}
	if _, err := service.Top(context.Background(), 2); err != nil {
		t.Fatalf("Top failed: %v", err)
	}
	if userRepo.calls != 4 {
		t.Errorf("Expected both cached limits dropped, got %d repository calls", userRepo.calls)
	}
}

func TestTop_DifferentLimitsCacheSeparately(t *testing.T) {
	service, userRepo, _ := setupTestService()

	userRepo.users = []models.User{
		{ID: 1, Username: "alice", Score: 100},
		{ID: 2, Username: "bob", Score: 90},
	}

	if _, err := service.Top(context.Background(), 1); err != nil {
		t.Fatalf("Top failed: %v", err)
	}
	entries, err := service.Top(context.Background(), 2)
	if err != nil {
		t.Fatalf("Top failed: %v", err)
	}

	if userRepo.calls != 2 {
		t.Errorf("Expected a repository call per distinct limit, got %d", userRepo.calls)
	}
	if len(entries) != 2 {
		t.Errorf("Expected 2 entries for limit 2, got %d", len(entries))
	}
}
