package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cardhaven/marketplace/internal/cardindex"
)

type CardHandler struct {
	index *cardindex.Service
}

func NewCardHandler(index *cardindex.Service) *CardHandler {
	return &CardHandler{index: index}
}

// SearchCards searches the card index by name.
// GET /api/cards/search?q=charizard
func (h *CardHandler) SearchCards(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	result, err := h.index.SearchByName(query, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetCard fetches one card by index id.
// GET /api/cards/:id
func (h *CardHandler) GetCard(c *gin.Context) {
	card, err := h.index.GetCard(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if card == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
		return
	}
	c.JSON(http.StatusOK, card)
}
