package repository

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/flashmind/flashmind-server/internal/models"
)

// setupAchievementTestDB creates an in-memory SQLite database for testing.
func setupAchievementTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}

	// Enable foreign key constraints (SQLite default is off)
	db.Exec("PRAGMA foreign_keys = ON")

	err = db.AutoMigrate(
		&models.User{},
		&models.Achievement{},
		&models.UserAchievement{},
	)
	if err != nil {
		t.Fatalf("Failed to auto-migrate tables: %v", err)
	}

	return &DB{db}
}

func createTestAchievement(t *testing.T, repo *AchievementRepository, name, achievementType string, requirement float64, points int) *models.Achievement {
	t.Helper()

	achievement := &models.Achievement{
		Name:        name,
		Type:        achievementType,
		Requirement: requirement,
		Points:      points,
	}
	if err := repo.UpsertDefinition(achievement); err != nil {
		t.Fatalf("Failed to create test achievement: %v", err)
	}
	return achievement
}

func createAchievementTestUser(t *testing.T, db *DB, username string) *models.User {
	t.Helper()

	user := &models.User{Username: username, PasswordHash: "x"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

func TestAchievementRepository_UpsertDefinition(t *testing.T) {
	db := setupAchievementTestDB(t)
	repo := NewAchievementRepository(db)

	createTestAchievement(t, repo, "First Steps", models.AchievementTypeCardsCreated, 1, 10)

	// Upserting the same name updates the definition instead of duplicating
	updated := &models.Achievement{
		Name:        "First Steps",
		Type:        models.AchievementTypeCardsCreated,
		Requirement: 2,
		Points:      20,
	}
	if err := repo.UpsertDefinition(updated); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	all, err := repo.GetAll()
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("Expected 1 achievement after upsert, got %d", len(all))
	}
	if all[0].Requirement != 2 || all[0].Points != 20 {
		t.Errorf("Expected requirement 2 / points 20, got %f / %d", all[0].Requirement, all[0].Points)
	}
}

func TestAchievementRepository_GetByName(t *testing.T) {
	db := setupAchievementTestDB(t)
	repo := NewAchievementRepository(db)

	createTestAchievement(t, repo, "On Fire", models.AchievementTypeStreak, 10, 30)

	achievement, err := repo.GetByName("On Fire")
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	if achievement.Type != models.AchievementTypeStreak {
		t.Errorf("Expected streak type, got %s", achievement.Type)
	}

	if _, err := repo.GetByName("No Such Thing"); err == nil {
		t.Error("Expected error for unknown achievement")
	}
}

func TestAchievementRepository_GetOrCreateProgress(t *testing.T) {
	db := setupAchievementTestDB(t)
	repo := NewAchievementRepository(db)

	user := createAchievementTestUser(t, db, "alice")
	achievement := createTestAchievement(t, repo, "First Steps", models.AchievementTypeCardsCreated, 1, 10)

	record, err := repo.GetOrCreateProgress(user.ID, achievement.ID)
	if err != nil {
		t.Fatalf("GetOrCreateProgress failed: %v", err)
	}
	if record.Progress != 0 || record.Unlocked {
		t.Errorf("Expected fresh zero-progress record, got %+v", record)
	}

	// Mutate and save, then fetch again: same row comes back
	record.Progress = 5
	record.Unlocked = true
	if err := repo.SaveProgress(record); err != nil {
		t.Fatalf("SaveProgress failed: %v", err)
	}

	again, err := repo.GetOrCreateProgress(user.ID, achievement.ID)
	if err != nil {
		t.Fatalf("Second GetOrCreateProgress failed: %v", err)
	}
	if again.ID != record.ID {
		t.Errorf("Expected the same record, got IDs %d and %d", record.ID, again.ID)
	}
	if again.Progress != 5 || !again.Unlocked {
		t.Errorf("Expected persisted state back, got %+v", again)
	}

	// Only one row may exist for the pair
	var count int64
	db.Model(&models.UserAchievement{}).
		Where("user_id = ? AND achievement_id = ?", user.ID, achievement.ID).
		Count(&count)
	if count != 1 {
		t.Errorf("Expected exactly 1 progress row, got %d", count)
	}
}

func TestAchievementRepository_GetUserAchievements(t *testing.T) {
	db := setupAchievementTestDB(t)
	repo := NewAchievementRepository(db)

	user := createAchievementTestUser(t, db, "alice")
	first := createTestAchievement(t, repo, "First Steps", models.AchievementTypeCardsCreated, 1, 10)
	second := createTestAchievement(t, repo, "On Fire", models.AchievementTypeStreak, 10, 30)

	if _, err := repo.GetOrCreateProgress(user.ID, first.ID); err != nil {
		t.Fatalf("GetOrCreateProgress failed: %v", err)
	}
	if _, err := repo.GetOrCreateProgress(user.ID, second.ID); err != nil {
		t.Fatalf("GetOrCreateProgress failed: %v", err)
	}

	records, err := repo.GetUserAchievements(user.ID)
	if err != nil {
		t.Fatalf("GetUserAchievements failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	// Definitions come preloaded
	if records[0].Achievement.Name == "" {
		t.Error("Expected achievement definition preloaded")
	}
}

func TestAchievementRepository_CountUnlocked(t *testing.T) {
	db := setupAchievementTestDB(t)
	repo := NewAchievementRepository(db)

	user := createAchievementTestUser(t, db, "alice")
	first := createTestAchievement(t, repo, "First Steps", models.AchievementTypeCardsCreated, 1, 10)
	second := createTestAchievement(t, repo, "On Fire", models.AchievementTypeStreak, 10, 30)

	record, err := repo.GetOrCreateProgress(user.ID, first.ID)
	if err != nil {
		t.Fatalf("GetOrCreateProgress failed: %v", err)
	}
	record.Unlocked = true
	if err := repo.SaveProgress(record); err != nil {
		t.Fatalf("SaveProgress failed: %v", err)
	}
	if _, err := repo.GetOrCreateProgress(user.ID, second.ID); err != nil {
		t.Fatalf("GetOrCreateProgress failed: %v", err)
	}

	count, err := repo.CountUnlocked(user.ID)
	if err != nil {
		t.Fatalf("CountUnlocked failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 unlocked achievement, got %d", count)
	}
}
