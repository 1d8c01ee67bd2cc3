package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cardhaven/marketplace/internal/pricing"
)

// VendorHandler serves the point-of-sale buy and sell quote routes for
// in-person transactions. Both are thin call sites over the shared pipeline;
// they differ only in Options and the final price arithmetic.
type VendorHandler struct {
	pipeline *pricing.Pipeline
	// sellMarginPct is the markup applied over headline market price when
	// quoting a sale to a walk-in customer.
	sellMarginPct float64
}

func NewVendorHandler(pipeline *pricing.Pipeline, sellMarginPct float64) *VendorHandler {
	if sellMarginPct <= 0 {
		sellMarginPct = 5
	}
	return &VendorHandler{
		pipeline:      pipeline,
		sellMarginPct: sellMarginPct,
	}
}

type vendorQuoteRequest struct {
	Query string `json:"query" binding:"required"`
}

// BuyQuote prices a card a customer wants to sell to the vendor and suggests
// an offer from the buy recommendation engine.
// POST /api/vendor/buy
func (h *VendorHandler) BuyQuote(c *gin.Context) {
	var req vendorQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.pipeline.Lookup(c.Request.Context(), req.Query, pricing.Options{Recommend: true})
	if err != nil {
		if respondQuotaExceeded(c, err) {
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{
		"transaction_ref": uuid.NewString(),
		"card":            result.Card,
		"candidates":      result.Candidates,
		"pricing":         result.Pricing,
		"recommendation":  result.Recommendation,
	}
	if result.Pricing.HasPricing() && result.Recommendation != nil {
		resp["offer_amount"] = result.Pricing.MarketPrice * float64(result.Recommendation.RecommendedPct) / 100
	}
	c.JSON(http.StatusOK, resp)
}

// SellQuote prices a card the vendor would sell to a walk-in customer,
// including graded variants, at market plus the configured margin.
// POST /api/vendor/sell
func (h *VendorHandler) SellQuote(c *gin.Context) {
	var req vendorQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.pipeline.Lookup(c.Request.Context(), req.Query, pricing.Options{IncludeGraded: true})
	if err != nil {
		if respondQuotaExceeded(c, err) {
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{
		"transaction_ref": uuid.NewString(),
		"card":            result.Card,
		"candidates":      result.Candidates,
		"pricing":         result.Pricing,
	}
	if result.Pricing.HasPricing() {
		resp["sell_price"] = result.Pricing.MarketPrice * (1 + h.sellMarginPct/100)
	}
	c.JSON(http.StatusOK, resp)
}
