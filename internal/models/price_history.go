package models

import (
	"time"
)

// PriceHistoryPoint is the persisted daily aggregate of a pricing snapshot.
// At most one point exists per (set, number, calendar day); a later snapshot
// on the same day overwrites the row.
type PriceHistoryPoint struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	SetID      string `json:"set_id" gorm:"not null;uniqueIndex:idx_history_card_day"`
	CardNumber string `json:"card_number" gorm:"not null;uniqueIndex:idx_history_card_day"`
	Day        string `json:"day" gorm:"not null;uniqueIndex:idx_history_card_day"` // YYYY-MM-DD (UTC)

	CardName      string  `json:"card_name"`
	MarketPrice   float64 `json:"market_price"`
	Currency      string  `json:"currency"`
	LastSoldPrice float64 `json:"last_sold_price"`
	LastSoldDate  string  `json:"last_sold_date"`
	Trend7d       float64 `json:"trend_7d" gorm:"column:trend_7d"`   // 7-day percentage change
	Trend30d      float64 `json:"trend_30d" gorm:"column:trend_30d"` // 30-day percentage change

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
