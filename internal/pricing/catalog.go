package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cardhaven/marketplace/internal/metrics"
)

const (
	catalogDefaultTimeout = 10 * time.Second
	catalogSearchLimit    = 100
)

// CatalogCard is one row returned by the external catalogue search.
type CatalogCard struct {
	ProductID      string `json:"product_id"`
	CardNumber     string `json:"card_number"`
	Material       string `json:"material,omitempty"`
	Graded         bool   `json:"graded,omitempty"`
	GradingCompany string `json:"grading_company,omitempty"`
	Grade          string `json:"grade,omitempty"`
	Name           string `json:"name,omitempty"`
}

// catalogSearchRequest is the external catalogue search request body.
type catalogSearchRequest struct {
	SetID         string `json:"setId,omitempty"`
	CardName      string `json:"cardName"`
	ExcludeGraded bool   `json:"excludeGraded"`
	Limit         int    `json:"limit"`
}

// CatalogClient calls the external catalogue search API. Results are cached
// for CatalogCacheTTL and every call is charged against the shared daily
// quota before any network I/O.
type CatalogClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
	quota   *QuotaGuard
	cache   *TTLCache[[]CatalogCard]
}

func NewCatalogClient(baseURL, apiKey string, quota *QuotaGuard) *CatalogClient {
	return &CatalogClient{
		client:  &http.Client{Timeout: catalogDefaultTimeout},
		baseURL: baseURL,
		apiKey:  apiKey,
		quota:   quota,
		cache:   NewTTLCache[[]CatalogCard](CatalogCacheTTL),
	}
}

// Search queries the catalogue for cards in a set by name. setID may be empty
// for an unscoped (last resort) search. Graded products are excluded
// upstream unless includeGraded is set.
func (c *CatalogClient) Search(ctx context.Context, setID, cardName string, includeGraded bool) ([]CatalogCard, error) {
	cacheKey := fmt.Sprintf("%s|%s|%t", setID, cardName, includeGraded)
	if cards, ok := c.cache.Get(cacheKey); ok {
		metrics.CatalogCacheHits.Inc()
		return cards, nil
	}
	metrics.CatalogCacheMisses.Inc()

	if err := c.quota.Acquire(); err != nil {
		return nil, err
	}
	if err := c.quota.Pace(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(catalogSearchRequest{
		SetID:         setID,
		CardName:      cardName,
		ExcludeGraded: !includeGraded,
		Limit:         catalogSearchLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal catalog request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/cards/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create catalog request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	metrics.UpstreamLatency.WithLabelValues("catalog").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("catalog search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog API error: status %d", resp.StatusCode)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}

	cards, err := unwrapCatalogResults(raw)
	if err != nil {
		return nil, err
	}

	c.cache.Set(cacheKey, cards)
	return cards, nil
}

// unwrapCatalogResults normalizes the catalogue's inconsistent response
// shapes: a bare array, or an array wrapped under "cards", "data", or
// "results".
func unwrapCatalogResults(raw json.RawMessage) ([]CatalogCard, error) {
	var cards []CatalogCard
	if err := json.Unmarshal(raw, &cards); err == nil {
		return cards, nil
	}

	var wrapped struct {
		Cards   []CatalogCard `json:"cards"`
		Data    []CatalogCard `json:"data"`
		Results []CatalogCard `json:"results"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("unrecognized catalog response shape: %w", err)
	}
	switch {
	case wrapped.Cards != nil:
		return wrapped.Cards, nil
	case wrapped.Data != nil:
		return wrapped.Data, nil
	case wrapped.Results != nil:
		return wrapped.Results, nil
	}
	return nil, nil
}
