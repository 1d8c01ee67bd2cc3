package pricing

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/cardhaven/marketplace/internal/metrics"
)

const (
	monitorInterval     = 4 * time.Hour
	monitorStartupDelay = 30 * time.Second
	monitorBatchSize    = 50
	// monitorQuotaFloor stops a run early so interactive traffic keeps the
	// remaining budget. Two calls is the worst case for one card (catalogue
	// search + market data).
	monitorQuotaFloor = 2
)

// PriceMonitor periodically refreshes pricing for every tracked card so the
// history table and the alert collaborator stay current. It shares the daily
// quota with interactive requests and backs off, without error, when the
// budget runs out.
type PriceMonitor struct {
	pipeline *Pipeline
	quota    *QuotaGuard

	mu             sync.RWMutex
	lastRun        time.Time
	refreshedToday int
	lastStatsDay   time.Time
}

func NewPriceMonitor(pipeline *Pipeline, quota *QuotaGuard) *PriceMonitor {
	return &PriceMonitor{
		pipeline: pipeline,
		quota:    quota,
	}
}

// Start runs the monitor until ctx is cancelled: once shortly after process
// start, then on a fixed schedule.
func (m *PriceMonitor) Start(ctx context.Context) {
	log.Printf("Price monitor started: refreshing up to %d cards every %v", monitorBatchSize, monitorInterval)

	select {
	case <-ctx.Done():
		return
	case <-time.After(monitorStartupDelay):
		m.runOnce(ctx)
	}

	ticker := time.NewTicker(monitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Price monitor stopping...")
			return
		case <-ticker.C:
			m.runOnce(ctx)
		}
	}
}

func (m *PriceMonitor) runOnce(ctx context.Context) {
	m.resetDailyStatsIfNeeded()

	cards, err := m.pipeline.History().TrackedCards(monitorBatchSize)
	if err != nil {
		log.Printf("Price monitor: failed to list tracked cards: %v", err)
		return
	}
	if len(cards) == 0 {
		log.Println("Price monitor: no tracked cards to refresh")
		return
	}

	refreshed := 0
	for _, card := range cards {
		select {
		case <-ctx.Done():
			return
		default:
		}

		// Back off when the quota is (nearly) gone; interactive traffic
		// gets the rest of the budget. Not an error.
		if m.quota.Remaining() < monitorQuotaFloor {
			log.Printf("Price monitor: quota exhausted, stopping early (resumes after %s)",
				m.quota.ResetTime().Format("15:04"))
			break
		}

		snapshot, err := m.pipeline.GetCardPricing(ctx, card.SetID, card.CardNumber, card.CardName, Options{})
		if err != nil {
			log.Printf("Price monitor: refresh failed for %s %s: %v", card.SetID, card.CardNumber, err)
			continue
		}
		if snapshot != nil {
			refreshed++
		}
	}

	m.mu.Lock()
	m.lastRun = time.Now()
	m.refreshedToday += refreshed
	refreshedToday := m.refreshedToday
	m.mu.Unlock()

	metrics.MonitorRefreshesTotal.Add(float64(refreshed))
	metrics.MonitorLastRunTimestamp.SetToCurrentTime()
	metrics.PricingQuotaRemaining.Set(float64(m.quota.Remaining()))
	metrics.PricingQuotaLimit.Set(float64(m.quota.DailyLimit()))

	log.Printf("Price monitor: refreshed %d/%d cards (%d today)", refreshed, len(cards), refreshedToday)
}

// resetDailyStatsIfNeeded zeroes the daily refresh counter on UTC day
// transitions.
func (m *PriceMonitor) resetDailyStatsIfNeeded() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if m.lastStatsDay.Before(today) {
		m.refreshedToday = 0
		m.lastStatsDay = today
	}
}

// MonitorStatus describes the monitor for the status endpoint.
type MonitorStatus struct {
	LastRun        time.Time `json:"last_run"`
	NextRun        time.Time `json:"next_run"`
	RefreshedToday int       `json:"refreshed_today"`
}

func (m *PriceMonitor) Status() MonitorStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return MonitorStatus{
		LastRun:        m.lastRun,
		NextRun:        m.lastRun.Add(monitorInterval),
		RefreshedToday: m.refreshedToday,
	}
}
