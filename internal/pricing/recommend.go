package pricing

import (
	"fmt"
	"time"

	"github.com/cardhaven/marketplace/internal/models"
)

// Recommend scores a pricing snapshot into a buy recommendation. Fully
// deterministic for a fixed evaluation time.
func Recommend(snapshot *models.PricingSnapshot) models.Recommendation {
	return RecommendAt(snapshot, time.Now())
}

// RecommendAt is Recommend with an explicit evaluation time.
//
// The score is additive over three independent signals: recency of the last
// sale, the 7-day trend, and (as context) the 30-day trend.
func RecommendAt(snapshot *models.PricingSnapshot, now time.Time) models.Recommendation {
	if !snapshot.HasPricing() {
		return models.Recommendation{
			IsHotBuy:       false,
			Confidence:     "low",
			RecommendedPct: 50,
			Reasoning:      []string{"no pricing data available"},
		}
	}

	score := 0
	var reasoning []string

	// Recency of last sale
	if days, ok := daysSinceLastSale(snapshot.LastSoldDate, now); ok {
		switch {
		case days < 3:
			score += 20
			reasoning = append(reasoning, fmt.Sprintf("sold %d days ago (very recent demand)", days))
		case days < 7:
			score += 15
			reasoning = append(reasoning, fmt.Sprintf("sold %d days ago (recent demand)", days))
		case days < 14:
			score += 10
			reasoning = append(reasoning, fmt.Sprintf("sold %d days ago", days))
		case days > 30:
			score -= 10
			reasoning = append(reasoning, fmt.Sprintf("last sale %d days ago (slow mover)", days))
		}
	} else {
		score -= 5
		reasoning = append(reasoning, "no recorded sales")
	}

	// 7-day trend
	if t, ok := snapshot.Trends["7d"]; ok {
		pct := t.PercentageChange
		switch {
		case pct > 15:
			score += 25
			reasoning = append(reasoning, fmt.Sprintf("7d trend +%.1f%% (strong rise)", pct))
		case pct > 5:
			score += 15
			reasoning = append(reasoning, fmt.Sprintf("7d trend +%.1f%% (rising)", pct))
		case pct > 0:
			score += 5
			reasoning = append(reasoning, fmt.Sprintf("7d trend +%.1f%%", pct))
		case pct < -15:
			score -= 20
			reasoning = append(reasoning, fmt.Sprintf("7d trend %.1f%% (falling hard)", pct))
		case pct < -5:
			score -= 10
			reasoning = append(reasoning, fmt.Sprintf("7d trend %.1f%% (falling)", pct))
		}
	}

	// 30-day trend, context only
	if t, ok := snapshot.Trends["30d"]; ok {
		pct := t.PercentageChange
		switch {
		case pct > 20:
			score += 15
			reasoning = append(reasoning, fmt.Sprintf("30d trend +%.1f%%", pct))
		case pct < -20:
			score -= 15
			reasoning = append(reasoning, fmt.Sprintf("30d trend %.1f%%", pct))
		}
	}

	confidence := "low"
	switch {
	case score >= 40:
		confidence = "high"
	case score >= 20:
		confidence = "medium"
	}

	return models.Recommendation{
		IsHotBuy:       score >= 30,
		Confidence:     confidence,
		RecommendedPct: recommendedBuyPct(score),
		Reasoning:      reasoning,
		Score:          score,
	}
}

// recommendedBuyPct maps a score to a suggested buy percentage of market
// price, a monotonic step function.
func recommendedBuyPct(score int) int {
	switch {
	case score >= 40:
		return 75
	case score >= 25:
		return 70
	case score >= 15:
		return 65
	case score >= 5:
		return 60
	case score >= -5:
		return 55
	case score >= -15:
		return 50
	default:
		return 45
	}
}

// daysSinceLastSale parses a last-sold date ("2006-01-02" or RFC 3339) and
// returns whole days elapsed. ok is false when no usable date is present.
func daysSinceLastSale(lastSoldDate string, now time.Time) (int, bool) {
	if lastSoldDate == "" {
		return 0, false
	}

	var sold time.Time
	var err error
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		sold, err = time.Parse(layout, lastSoldDate)
		if err == nil {
			break
		}
	}
	if err != nil {
		return 0, false
	}

	days := int(now.Sub(sold).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return days, true
}
