package pricing

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cardhaven/marketplace/internal/metrics"
	"github.com/cardhaven/marketplace/internal/models"
)

// HistoryRecorder persists one pricing snapshot per (card, calendar day).
// A later snapshot on the same UTC day overwrites the row. The alert
// collaborator detects threshold crossings by comparing successive rows.
type HistoryRecorder struct {
	db  *gorm.DB
	now func() time.Time
}

func NewHistoryRecorder(db *gorm.DB) *HistoryRecorder {
	return &HistoryRecorder{db: db, now: time.Now}
}

// RecordSnapshot upserts today's history point for a card.
func (h *HistoryRecorder) RecordSnapshot(setID, number, name string, snapshot *models.PricingSnapshot) error {
	if snapshot == nil {
		return nil
	}

	point := models.PriceHistoryPoint{
		SetID:         setID,
		CardNumber:    number,
		Day:           h.now().UTC().Format("2006-01-02"),
		CardName:      name,
		MarketPrice:   snapshot.MarketPrice,
		Currency:      snapshot.Currency,
		LastSoldPrice: snapshot.LastSoldPrice,
		LastSoldDate:  snapshot.LastSoldDate,
	}
	if t, ok := snapshot.Trends["7d"]; ok {
		point.Trend7d = t.PercentageChange
	}
	if t, ok := snapshot.Trends["30d"]; ok {
		point.Trend30d = t.PercentageChange
	}

	err := h.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "set_id"}, {Name: "card_number"}, {Name: "day"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"card_name", "market_price", "currency", "last_sold_price",
			"last_sold_date", "trend_7d", "trend_30d", "updated_at",
		}),
	}).Create(&point).Error
	if err == nil {
		metrics.HistoryPointsTotal.Inc()
	}
	return err
}

// GetHistory returns a card's history points for the trailing number of days,
// oldest first.
func (h *HistoryRecorder) GetHistory(setID, number string, days int) ([]models.PriceHistoryPoint, error) {
	if days <= 0 {
		days = 30
	}
	since := h.now().UTC().AddDate(0, 0, -days).Format("2006-01-02")

	var points []models.PriceHistoryPoint
	err := h.db.Where("set_id = ? AND card_number = ? AND day >= ?", setID, number, since).
		Order("day ASC").
		Find(&points).Error
	if err != nil {
		return nil, err
	}
	return points, nil
}

// Trending returns the latest history points with the strongest 7-day
// movement, biggest movers first.
func (h *HistoryRecorder) Trending(limit int) ([]models.PriceHistoryPoint, error) {
	if limit <= 0 {
		limit = 20
	}
	since := h.now().UTC().AddDate(0, 0, -2).Format("2006-01-02")

	var points []models.PriceHistoryPoint
	err := h.db.Where("day >= ? AND market_price > 0", since).
		Order("ABS(trend_7d) DESC").
		Limit(limit).
		Find(&points).Error
	if err != nil {
		return nil, err
	}
	return points, nil
}

// TrackedCards lists distinct cards present in the history table, least
// recently updated first. The price monitor refreshes these.
type TrackedCard struct {
	SetID      string
	CardNumber string
	CardName   string
}

func (h *HistoryRecorder) TrackedCards(limit int) ([]TrackedCard, error) {
	if limit <= 0 {
		limit = 50
	}

	var cards []TrackedCard
	err := h.db.Model(&models.PriceHistoryPoint{}).
		Select("set_id, card_number, card_name, MAX(updated_at) as last_seen").
		Group("set_id, card_number, card_name").
		Order("last_seen ASC").
		Limit(limit).
		Scan(&cards).Error
	if err != nil {
		return nil, err
	}
	return cards, nil
}
