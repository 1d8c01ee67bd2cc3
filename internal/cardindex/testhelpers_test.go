package cardindex

import (
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cardhaven/marketplace/internal/models"
)

// newTestIndex builds a Service over a throwaway database seeded with cards.
func newTestIndex(t *testing.T, cards []models.CardRecord) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.CardRecord{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	if len(cards) > 0 {
		if err := db.Create(&cards).Error; err != nil {
			t.Fatalf("Seeding cards failed: %v", err)
		}
	}

	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("Failed to build card index: %v", err)
	}
	return svc, db
}

func testCards() []models.CardRecord {
	return []models.CardRecord{
		{ID: "sv01-001", Name: "Pikachu", LocalID: "1", SetID: "sv01",
			SetName: "Scarlet & Violet", SetTotal: 198},
		{ID: "sv01-089", Name: "Charmander", LocalID: "89", SetID: "sv01",
			SetName: "Scarlet & Violet", SetTotal: 198},
		{ID: "sv01-198", Name: "Basic Energy", LocalID: "198", SetID: "sv01",
			SetName: "Scarlet & Violet", SetTotal: 198},
		{ID: "sv03-125", Name: "Charizard ex", LocalID: "125", SetID: "sv03",
			SetName: "Obsidian Flames", SetTotal: 197},
		{ID: "sv03-197", Name: "Terapagos", LocalID: "197", SetID: "sv03",
			SetName: "Obsidian Flames", SetTotal: 197},
		{ID: "swsh45-SV107", Name: "Galarian Moltres", LocalID: "SV107", SetID: "swsh45",
			SetName: "Shining Fates", SetTotal: 72},
		{ID: "base1-004", Name: "Charizard", LocalID: "004", SetID: "base1",
			SetName: "Base Set", SetTotal: 102},
		{ID: "base1-102", Name: "Water Energy", LocalID: "102", SetID: "base1",
			SetName: "Base Set", SetTotal: 102},
	}
}
