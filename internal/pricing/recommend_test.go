package pricing

import (
	"testing"
	"time"

	"github.com/cardhaven/marketplace/internal/models"
)

var recommendNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func snapshotWith(lastSoldDaysAgo int, trend7d, trend30d float64) *models.PricingSnapshot {
	s := &models.PricingSnapshot{
		VariantPricing: models.VariantPricing{
			ProductID:   "prod-1",
			MarketPrice: 10.0,
			Currency:    "GBP",
			Trends:      map[string]models.TrendDelta{},
		},
	}
	if lastSoldDaysAgo >= 0 {
		s.LastSoldDate = recommendNow.AddDate(0, 0, -lastSoldDaysAgo).Format("2006-01-02")
	}
	if trend7d != 0 {
		s.Trends["7d"] = models.TrendDelta{PercentageChange: trend7d}
	}
	if trend30d != 0 {
		s.Trends["30d"] = models.TrendDelta{PercentageChange: trend30d}
	}
	return s
}

func TestRecommendNoPricing(t *testing.T) {
	for _, snapshot := range []*models.PricingSnapshot{
		nil,
		{},
	} {
		rec := RecommendAt(snapshot, recommendNow)
		if rec.IsHotBuy {
			t.Error("No pricing data should never be a hot buy")
		}
		if rec.Confidence != "low" {
			t.Errorf("Confidence = %q, want \"low\"", rec.Confidence)
		}
		if rec.RecommendedPct != 50 {
			t.Errorf("RecommendedPct = %d, want 50", rec.RecommendedPct)
		}
	}
}

func TestRecommendScoring(t *testing.T) {
	tests := []struct {
		name       string
		snapshot   *models.PricingSnapshot
		score      int
		hotBuy     bool
		confidence string
		pct        int
	}{
		{
			name:       "recent sale with strong 7d rise",
			snapshot:   snapshotWith(10, 20, 0), // +10 recency, +25 trend
			score:      35,
			hotBuy:     true,
			confidence: "medium",
			pct:        70,
		},
		{
			name:       "everything rising",
			snapshot:   snapshotWith(1, 20, 25), // +20, +25, +15
			score:      60,
			hotBuy:     true,
			confidence: "high",
			pct:        75,
		},
		{
			name:       "falling hard with no sales",
			snapshot:   snapshotWith(-1, -20, -25), // -5, -20, -15
			score:      -40,
			hotBuy:     false,
			confidence: "low",
			pct:        45,
		},
		{
			name:       "slow mover",
			snapshot:   snapshotWith(45, 0, 0), // -10
			score:      -10,
			hotBuy:     false,
			confidence: "low",
			pct:        50,
		},
		{
			name:       "mild rise only",
			snapshot:   snapshotWith(20, 3, 0), // +0 recency, +5 trend
			score:      5,
			hotBuy:     false,
			confidence: "low",
			pct:        60,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := RecommendAt(tt.snapshot, recommendNow)
			if rec.Score != tt.score {
				t.Errorf("Score = %d, want %d", rec.Score, tt.score)
			}
			if rec.IsHotBuy != tt.hotBuy {
				t.Errorf("IsHotBuy = %v, want %v", rec.IsHotBuy, tt.hotBuy)
			}
			if rec.Confidence != tt.confidence {
				t.Errorf("Confidence = %q, want %q", rec.Confidence, tt.confidence)
			}
			if rec.RecommendedPct != tt.pct {
				t.Errorf("RecommendedPct = %d, want %d", rec.RecommendedPct, tt.pct)
			}
			if len(rec.Reasoning) == 0 {
				t.Error("Expected non-empty reasoning")
			}
		})
	}
}

// Staler sales must never score higher, all else equal.
func TestRecommendRecencyMonotonic(t *testing.T) {
	prev := RecommendAt(snapshotWith(1, 10, 0), recommendNow).Score
	for _, days := range []int{5, 10, 20, 40} {
		score := RecommendAt(snapshotWith(days, 10, 0), recommendNow).Score
		if score > prev {
			t.Errorf("Score for sale %d days ago = %d, exceeds fresher score %d", days, score, prev)
		}
		prev = score
	}
}

func TestDaysSinceLastSale(t *testing.T) {
	now := recommendNow

	days, ok := daysSinceLastSale("2026-03-01", now)
	if !ok || days != 9 {
		t.Errorf("daysSinceLastSale(2026-03-01) = (%d, %v), want (9, true)", days, ok)
	}

	// RFC 3339 timestamps are accepted too
	days, ok = daysSinceLastSale("2026-03-05T08:00:00Z", now)
	if !ok || days != 5 {
		t.Errorf("daysSinceLastSale(RFC3339) = (%d, %v), want (5, true)", days, ok)
	}

	// Future dates clamp to zero rather than going negative
	days, ok = daysSinceLastSale("2026-04-01", now)
	if !ok || days != 0 {
		t.Errorf("daysSinceLastSale(future) = (%d, %v), want (0, true)", days, ok)
	}

	if _, ok := daysSinceLastSale("", now); ok {
		t.Error("Empty date should report no usable date")
	}
	if _, ok := daysSinceLastSale("not-a-date", now); ok {
		t.Error("Garbage date should report no usable date")
	}
}

func TestRecommendedBuyPct(t *testing.T) {
	tests := []struct {
		score int
		pct   int
	}{
		{60, 75},
		{40, 75},
		{39, 70},
		{25, 70},
		{24, 65},
		{15, 65},
		{14, 60},
		{5, 60},
		{4, 55},
		{-5, 55},
		{-6, 50},
		{-15, 50},
		{-16, 45},
	}
	for _, tt := range tests {
		if got := recommendedBuyPct(tt.score); got != tt.pct {
			t.Errorf("recommendedBuyPct(%d) = %d, want %d", tt.score, got, tt.pct)
		}
	}
}
