package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cardhaven/marketplace/internal/metrics"
	"github.com/cardhaven/marketplace/internal/pricing"
)

// PriceHandler serves the public price-check and pricing status routes. It is
// a thin call site over the shared pipeline.
type PriceHandler struct {
	pipeline *pricing.Pipeline
	monitor  *pricing.PriceMonitor
}

func NewPriceHandler(pipeline *pricing.Pipeline, monitor *pricing.PriceMonitor) *PriceHandler {
	return &PriceHandler{
		pipeline: pipeline,
		monitor:  monitor,
	}
}

// respondQuotaExceeded writes the 429 response for a quota breach. Returns
// false when err is not a quota error.
func respondQuotaExceeded(c *gin.Context, err error) bool {
	var qe *pricing.QuotaError
	if !errors.As(err, &qe) {
		return false
	}
	metrics.QuotaRejectionsTotal.Inc()
	c.Header("Retry-After", qe.RetryAfter.Format(http.TimeFormat))
	c.JSON(http.StatusTooManyRequests, gin.H{
		"error":       "daily pricing quota exceeded",
		"retry_after": qe.RetryAfter,
	})
	return true
}

// CheckPrice resolves free-text input to a card and prices it.
// GET /api/prices/check?q=SVI+089/258
func (h *PriceHandler) CheckPrice(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}

	result, err := h.pipeline.Lookup(c.Request.Context(), query, pricing.Options{Recommend: true})
	if err != nil {
		if respondQuotaExceeded(c, err) {
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetPriceStatus reports the shared daily quota and the monitor schedule.
func (h *PriceHandler) GetPriceStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"quota":   h.pipeline.QuotaStatus(),
		"monitor": h.monitor.Status(),
	})
}

// GetPriceHistory returns daily history points for one card.
// GET /api/prices/history?set=sv01&number=1&days=30
func (h *PriceHandler) GetPriceHistory(c *gin.Context) {
	setID := c.Query("set")
	number := c.Query("number")
	if setID == "" || number == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "set and number are required"})
		return
	}
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	points, err := h.pipeline.History().GetHistory(setID, number, days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"points": points})
}

// GetTrending returns the strongest 7-day movers.
func (h *PriceHandler) GetTrending(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	points, err := h.pipeline.History().Trending(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"movers": points})
}
