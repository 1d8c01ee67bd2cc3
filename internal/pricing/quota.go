package pricing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultDailyCallLimit is the hard daily ceiling on external pricing-API
// calls (catalogue search and market data combined).
const DefaultDailyCallLimit = 1000

// QuotaError is the distinguished, retryable "daily quota exceeded"
// condition. RetryAfter is the next UTC midnight.
type QuotaError struct {
	RetryAfter time.Time
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("daily pricing API quota exceeded, retry after %s",
		e.RetryAfter.Format(time.RFC3339))
}

// QuotaGuard tracks external pricing-API calls against a daily budget shared
// by every pricing path, interactive and background. The counter resets
// lazily on the first call after a UTC day transition. Acquire must be called
// synchronously before any network I/O so a quota breach never wastes a
// round-trip.
type QuotaGuard struct {
	mu         sync.Mutex
	dailyLimit int
	callsToday int
	lastReset  time.Time // UTC day the counter was last reset to

	now   func() time.Time
	pacer *rate.Limiter // smooths bursts against the upstream, separate from the daily budget
}

func NewQuotaGuard(dailyLimit int) *QuotaGuard {
	if dailyLimit <= 0 {
		dailyLimit = DefaultDailyCallLimit
	}
	return &QuotaGuard{
		dailyLimit: dailyLimit,
		now:        time.Now,
		pacer:      rate.NewLimiter(rate.Limit(10), 10),
	}
}

// resetIfNewDay zeroes the counter on the first call of a new UTC day.
// Caller must hold mu.
func (g *QuotaGuard) resetIfNewDay() {
	today := g.utcDay()
	if g.lastReset.Before(today) {
		g.callsToday = 0
		g.lastReset = today
	}
}

func (g *QuotaGuard) utcDay() time.Time {
	now := g.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Acquire checks and consumes one call of today's budget. Returns a
// *QuotaError when the budget is exhausted; the call must not be made.
func (g *QuotaGuard) Acquire() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.resetIfNewDay()

	if g.callsToday >= g.dailyLimit {
		return &QuotaError{RetryAfter: g.utcDay().Add(24 * time.Hour)}
	}
	g.callsToday++
	return nil
}

// Pace blocks until the burst limiter admits another upstream call. Called
// after Acquire, before the request is sent.
func (g *QuotaGuard) Pace(ctx context.Context) error {
	return g.pacer.Wait(ctx)
}

// Remaining returns the number of calls left in today's budget.
func (g *QuotaGuard) Remaining() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.resetIfNewDay()

	remaining := g.dailyLimit - g.callsToday
	if remaining < 0 {
		return 0
	}
	return remaining
}

// DailyLimit returns the configured daily budget.
func (g *QuotaGuard) DailyLimit() int {
	return g.dailyLimit
}

// ResetTime returns the next UTC midnight, when the budget renews.
func (g *QuotaGuard) ResetTime() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.utcDay().Add(24 * time.Hour)
}
