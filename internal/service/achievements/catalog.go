package achievements

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/flashmind/flashmind-server/internal/models"
	"github.com/flashmind/flashmind-server/internal/repository"
	"github.com/flashmind/flashmind-server/pkg/logger"
)

// CatalogEntry is one achievement definition as written in the catalog file.
type CatalogEntry struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Type        string  `yaml:"type"`
	Requirement float64 `yaml:"requirement"`
	Icon        string  `yaml:"icon"`
	Points      int     `yaml:"points"`
}

// defaultCatalog is the built-in achievement set, used when no catalog
// file is configured.
var defaultCatalog = []CatalogEntry{
	{Name: "First Steps", Description: "Create your first flashcard", Type: models.AchievementTypeCardsCreated, Requirement: 1, Icon: "🌱", Points: 10},
	{Name: "Card Collector", Description: "Create 50 flashcards", Type: models.AchievementTypeCardsCreated, Requirement: 50, Icon: "🗂️", Points: 50},
	{Name: "Card Factory", Description: "Create 200 flashcards", Type: models.AchievementTypeCardsCreated, Requirement: 200, Icon: "🏭", Points: 150},
	{Name: "Getting Started", Description: "Review 10 flashcards", Type: models.AchievementTypeCardsReviewed, Requirement: 10, Icon: "📖", Points: 20},
	{Name: "Dedicated Learner", Description: "Review 100 flashcards", Type: models.AchievementTypeCardsReviewed, Requirement: 100, Icon: "🎓", Points: 100},
	{Name: "Review Machine", Description: "Review 1000 flashcards", Type: models.AchievementTypeCardsReviewed, Requirement: 1000, Icon: "⚙️", Points: 300},
	{Name: "On Fire", Description: "Answer 10 reviews correctly in a row", Type: models.AchievementTypeStreak, Requirement: 10, Icon: "🔥", Points: 50},
	{Name: "Unstoppable", Description: "Answer 30 reviews correctly in a row", Type: models.AchievementTypeStreak, Requirement: 30, Icon: "⚡", Points: 150},
	{Name: "Sharp Mind", Description: "Reach 80% lifetime accuracy", Type: models.AchievementTypeAccuracy, Requirement: 80, Icon: "🧠", Points: 75},
	{Name: "Perfectionist", Description: "Reach 95% lifetime accuracy", Type: models.AchievementTypeAccuracy, Requirement: 95, Icon: "💎", Points: 200},
	{Name: "Organizer", Description: "Create 5 decks", Type: models.AchievementTypeDecksCreated, Requirement: 5, Icon: "📚", Points: 40},
}

// LoadCatalog reads achievement definitions from a YAML file, or returns
// the built-in catalog when path is empty.
func LoadCatalog(path string) ([]CatalogEntry, error) {
	if path == "" {
		return defaultCatalog, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read achievement catalog: %w", err)
	}

	var catalog struct {
		Achievements []CatalogEntry `yaml:"achievements"`
	}
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse achievement catalog: %w", err)
	}
	if len(catalog.Achievements) == 0 {
		return nil, fmt.Errorf("achievement catalog %s defines no achievements", path)
	}

	for _, entry := range catalog.Achievements {
		if err := validateEntry(&entry); err != nil {
			return nil, fmt.Errorf("invalid catalog entry %q: %w", entry.Name, err)
		}
	}

	return catalog.Achievements, nil
}

func validateEntry(entry *CatalogEntry) error {
	if entry.Name == "" {
		return fmt.Errorf("name is required")
	}
	switch entry.Type {
	case models.AchievementTypeCardsCreated,
		models.AchievementTypeCardsReviewed,
		models.AchievementTypeStreak,
		models.AchievementTypeAccuracy,
		models.AchievementTypeDecksCreated:
	default:
		return fmt.Errorf("unknown type %q", entry.Type)
	}
	if entry.Requirement <= 0 {
		return fmt.Errorf("requirement must be positive")
	}
	if entry.Points < 0 {
		return fmt.Errorf("points must not be negative")
	}
	return nil
}

// SeedCatalog upserts the catalog into the achievements table, keyed by
// name. Existing per-user progress records are untouched.
func SeedCatalog(repo *repository.AchievementRepository, catalog []CatalogEntry, log *logger.Logger) error {
	for _, entry := range catalog {
		achievement := &models.Achievement{
			Name:        entry.Name,
			Description: entry.Description,
			Type:        entry.Type,
			Requirement: entry.Requirement,
			Icon:        entry.Icon,
			Points:      entry.Points,
		}
		if err := repo.UpsertDefinition(achievement); err != nil {
			return err
		}
	}

	log.Info().Int("achievements", len(catalog)).Msg("Achievement catalog seeded")
	return nil
}
