package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cardhaven/marketplace/internal/pricing"
)

// SellerHandler quotes seller self-submissions: a seller describes a card
// they want to list and gets back the resolved identity plus a suggested
// listing price.
type SellerHandler struct {
	pipeline *pricing.Pipeline
}

func NewSellerHandler(pipeline *pricing.Pipeline) *SellerHandler {
	return &SellerHandler{pipeline: pipeline}
}

type sellerSubmissionRequest struct {
	Query       string  `json:"query" binding:"required"`
	AskingPrice float64 `json:"asking_price"`
}

// QuoteSubmission resolves and prices a seller's card description.
// POST /api/seller/submissions
func (h *SellerHandler) QuoteSubmission(c *gin.Context) {
	var req sellerSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.pipeline.Lookup(c.Request.Context(), req.Query, pricing.Options{})
	if err != nil {
		if respondQuotaExceeded(c, err) {
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{
		"submission_id": uuid.NewString(),
		"card":          result.Card,
		"candidates":    result.Candidates,
		"pricing":       result.Pricing,
	}
	if result.Pricing.HasPricing() && req.AskingPrice > 0 {
		resp["asking_vs_market_pct"] = req.AskingPrice / result.Pricing.MarketPrice * 100
	}
	c.JSON(http.StatusOK, resp)
}
