package main

import (
	"flag"
	"log"

	"github.com/cardhaven/marketplace/internal/cardindex"
	"github.com/cardhaven/marketplace/internal/database"
)

// import-cards replaces the local card index from a pokemon-tcg-data style
// directory (sets/en.json plus cards/en/<set>.json files).
func main() {
	dbPath := flag.String("db", "./marketplace.db", "path to the sqlite database")
	dataDir := flag.String("data", "./data", "path to the card data directory")
	flag.Parse()

	if err := database.Initialize(*dbPath); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	records, err := cardindex.LoadFromDir(*dataDir)
	if err != nil {
		log.Fatalf("Failed to load card data from %s: %v", *dataDir, err)
	}
	log.Printf("Loaded %d cards from %s", len(records), *dataDir)

	if err := cardindex.ReplaceAll(database.GetDB(), records); err != nil {
		log.Fatalf("Failed to import cards: %v", err)
	}

	index, err := cardindex.NewService(database.GetDB())
	if err != nil {
		log.Fatalf("Failed to verify card index: %v", err)
	}
	log.Printf("Import complete: %d cards across %d sets", index.CardCount(), index.SetCount())
}
