package models

import (
	"time"
)

// CardRecord is one row of the local card index. Rows are bulk-created by
// cmd/import-cards from the upstream card catalogue and never mutated by
// request traffic; a re-import replaces the whole table.
type CardRecord struct {
	ID       string `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"not null;index"`
	LocalID  string `json:"local_id" gorm:"not null;index"` // in-set card number, e.g. "89" or "SV107"
	Category string `json:"category"`                       // Pokemon / Trainer / Energy
	Rarity   string `json:"rarity"`
	HP       string `json:"hp"`
	TypeText string `json:"type_text"`
	Stage    string `json:"stage"` // evolution stage

	SetID    string `json:"set_id" gorm:"not null;index"`
	SetName  string `json:"set_name"`
	SetTotal int    `json:"set_total"` // printed total-count of the set

	// Physical variants this card was printed in
	VariantNormal       bool `json:"variant_normal"`
	VariantReverse      bool `json:"variant_reverse"`
	VariantHolo         bool `json:"variant_holo"`
	VariantFirstEdition bool `json:"variant_first_edition"`

	// Structured blobs, stored as JSON text
	Attacks     string `json:"attacks,omitempty"`
	Weaknesses  string `json:"weaknesses,omitempty"`
	Resistances string `json:"resistances,omitempty"`

	LegalStandard bool `json:"legal_standard"`
	LegalExpanded bool `json:"legal_expanded"`

	ImageURL string `json:"image_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CardSearchResult struct {
	Cards      []CardRecord `json:"cards"`
	TotalCount int          `json:"total_count"`
	HasMore    bool         `json:"has_more"`
}
