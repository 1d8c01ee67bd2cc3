package models

import (
	"time"
)

// CatalogProduct maps a (external set id, card number) pair to one product
// identity in the external catalogue. Rows are upserted whenever a catalogue
// search returns results and are never deleted; product identity rarely
// changes, so staleness is tolerated (last_fetched is informational, there is
// no TTL at this layer).
type CatalogProduct struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	ExternalSetID string `json:"external_set_id" gorm:"not null;index;uniqueIndex:idx_catalog_set_num_product"`
	CardNumber    string `json:"card_number" gorm:"not null;uniqueIndex:idx_catalog_set_num_product"`
	ProductID     string `json:"product_id" gorm:"not null;uniqueIndex:idx_catalog_set_num_product"`

	Material string `json:"material"` // print variant, e.g. "holo", "reverse"

	// Graded product family. At most one raw product per (set, number,
	// material) is meaningful for ordinary pricing; graded variants are a
	// distinct, explicitly tagged family.
	Graded         bool   `json:"graded"`
	GradingCompany string `json:"grading_company,omitempty"`
	Grade          string `json:"grade,omitempty"`

	CardName    string    `json:"card_name"`
	LastFetched time.Time `json:"last_fetched"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
