package cardindex

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/gorm"

	"github.com/cardhaven/marketplace/internal/models"
)

// Upstream card-data archive layout: sets/en.json lists the sets,
// cards/en/<setID>.json holds the cards of one set.

type upstreamSet struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Series      string `json:"series"`
	ReleaseDate string `json:"releaseDate"`
	Total       int    `json:"total"`
}

type upstreamCard struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Number      string             `json:"number"`
	Supertype   string             `json:"supertype"`
	Subtypes    []string           `json:"subtypes"`
	HP          string             `json:"hp"`
	Types       []string           `json:"types"`
	EvolvesFrom string             `json:"evolvesFrom"`
	Rarity      string             `json:"rarity"`
	Attacks     json.RawMessage    `json:"attacks"`
	Weaknesses  json.RawMessage    `json:"weaknesses"`
	Resistances json.RawMessage    `json:"resistances"`
	Legalities  map[string]string  `json:"legalities"`
	Images      upstreamCardImages `json:"images"`
	Variants    map[string]bool    `json:"variants"`
}

type upstreamCardImages struct {
	Small string `json:"small"`
	Large string `json:"large"`
}

// LoadFromDir parses the upstream archive under dataDir into CardRecord rows.
func LoadFromDir(dataDir string) ([]models.CardRecord, error) {
	setsFile := filepath.Join(dataDir, "sets", "en.json")
	setsData, err := os.ReadFile(setsFile)
	if err != nil {
		return nil, fmt.Errorf("read sets file: %w", err)
	}

	var sets []upstreamSet
	if err := json.Unmarshal(setsData, &sets); err != nil {
		return nil, fmt.Errorf("parse sets: %w", err)
	}
	setsByID := make(map[string]upstreamSet, len(sets))
	for _, set := range sets {
		setsByID[set.ID] = set
	}

	cardsDir := filepath.Join(dataDir, "cards", "en")
	files, err := os.ReadDir(cardsDir)
	if err != nil {
		return nil, fmt.Errorf("read cards directory: %w", err)
	}

	var records []models.CardRecord
	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".json") {
			continue
		}

		setID := strings.TrimSuffix(file.Name(), ".json")
		cardData, err := os.ReadFile(filepath.Join(cardsDir, file.Name()))
		if err != nil {
			log.Printf("Warning: failed to read card file %s: %v", file.Name(), err)
			continue
		}

		var cards []upstreamCard
		if err := json.Unmarshal(cardData, &cards); err != nil {
			log.Printf("Warning: failed to parse card file %s: %v", file.Name(), err)
			continue
		}

		set := setsByID[setID]
		for _, c := range cards {
			records = append(records, convertCard(c, setID, set))
		}
	}

	return records, nil
}

func convertCard(c upstreamCard, setID string, set upstreamSet) models.CardRecord {
	stage := ""
	for _, st := range c.Subtypes {
		switch st {
		case "Basic", "Stage 1", "Stage 2", "VMAX", "VSTAR", "Mega":
			stage = st
		}
	}

	return models.CardRecord{
		ID:                  c.ID,
		Name:                c.Name,
		LocalID:             c.Number,
		Category:            c.Supertype,
		Rarity:              c.Rarity,
		HP:                  c.HP,
		TypeText:            strings.Join(c.Types, "/"),
		Stage:               stage,
		SetID:               setID,
		SetName:             set.Name,
		SetTotal:            set.Total,
		VariantNormal:       c.Variants["normal"],
		VariantReverse:      c.Variants["reverse"],
		VariantHolo:         c.Variants["holo"],
		VariantFirstEdition: c.Variants["firstEdition"],
		Attacks:             string(c.Attacks),
		Weaknesses:          string(c.Weaknesses),
		Resistances:         string(c.Resistances),
		LegalStandard:       c.Legalities["standard"] == "Legal",
		LegalExpanded:       c.Legalities["expanded"] == "Legal",
		ImageURL:            c.Images.Large,
	}
}

// ReplaceAll swaps the whole card index for the given rows in one
// transaction. Used by the bulk importer; request traffic never writes here.
func ReplaceAll(db *gorm.DB, records []models.CardRecord) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.CardRecord{}).Error; err != nil {
			return err
		}
		const chunk = 500
		for start := 0; start < len(records); start += chunk {
			end := start + chunk
			if end > len(records) {
				end = len(records)
			}
			if err := tx.Create(records[start:end]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
