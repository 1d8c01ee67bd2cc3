package models

import (
	"strings"
)

// PriceCondition is the short condition code used by the market-data API.
type PriceCondition string

const (
	PriceConditionNM  PriceCondition = "NM"  // Near Mint
	PriceConditionLP  PriceCondition = "LP"  // Lightly Played
	PriceConditionMP  PriceCondition = "MP"  // Moderately Played
	PriceConditionHP  PriceCondition = "HP"  // Heavily Played
	PriceConditionDMG PriceCondition = "DMG" // Damaged
)

// AllPriceConditions returns all valid price conditions
func AllPriceConditions() []PriceCondition {
	return []PriceCondition{
		PriceConditionNM,
		PriceConditionLP,
		PriceConditionMP,
		PriceConditionHP,
		PriceConditionDMG,
	}
}

// DisplayName maps a condition code to its customer-facing name.
// Unknown codes are returned as-is.
func (c PriceCondition) DisplayName() string {
	switch c {
	case PriceConditionNM:
		return "Near Mint"
	case PriceConditionLP:
		return "Lightly Played"
	case PriceConditionMP:
		return "Moderately Played"
	case PriceConditionHP:
		return "Heavily Played"
	case PriceConditionDMG:
		return "Damaged"
	default:
		return string(c)
	}
}

// NormalizeCondition maps market-data condition strings to a PriceCondition.
// Returns "" for unrecognized conditions.
func NormalizeCondition(condition string) PriceCondition {
	switch strings.ToUpper(strings.TrimSpace(condition)) {
	case "NM", "NEAR MINT":
		return PriceConditionNM
	case "LP", "LIGHTLY PLAYED":
		return PriceConditionLP
	case "MP", "MODERATELY PLAYED":
		return PriceConditionMP
	case "HP", "HEAVILY PLAYED":
		return PriceConditionHP
	case "DMG", "DAMAGED":
		return PriceConditionDMG
	default:
		return ""
	}
}

// ConditionBand is a {low, market, high} price band for one display condition.
// Low and high are a ±10% presentation heuristic around the reported value,
// not observed data.
type ConditionBand struct {
	Low    float64 `json:"low"`
	Market float64 `json:"market"`
	High   float64 `json:"high"`
}

// TrendDelta is a percentage change over a trailing window.
type TrendDelta struct {
	PercentageChange float64 `json:"percentage_change"`
	PreviousValue    float64 `json:"previous_value"`
}

// VariantPricing is normalized market data for a single catalogue product.
type VariantPricing struct {
	ProductID     string                   `json:"product_id"`
	Material      string                   `json:"material,omitempty"`
	MarketPrice   float64                  `json:"market_price"`
	Currency      string                   `json:"currency,omitempty"`
	Conditions    map[string]ConditionBand `json:"conditions,omitempty"` // keyed by display name
	Trends        map[string]TrendDelta    `json:"trends,omitempty"`     // "1d", "7d", "30d"
	LastSoldPrice float64                  `json:"last_sold_price,omitempty"`
	LastSoldDate  string                   `json:"last_sold_date,omitempty"`
}

// PricingSnapshot is the normalized result of one pricing lookup. The first
// resolved variant is the headline; any further variants (other materials,
// graded products) are attached as Variants.
type PricingSnapshot struct {
	VariantPricing
	Variants []VariantPricing `json:"variants,omitempty"`
}

// HasPricing reports whether the snapshot carries a usable market price.
func (s *PricingSnapshot) HasPricing() bool {
	return s != nil && s.MarketPrice > 0
}

// Recommendation is the output of the buy recommendation engine.
type Recommendation struct {
	IsHotBuy       bool     `json:"is_hot_buy"`
	Confidence     string   `json:"confidence"` // "high", "medium", "low"
	RecommendedPct int      `json:"recommended_pct"`
	Reasoning      []string `json:"reasoning"`
	Score          int      `json:"score"`
}
