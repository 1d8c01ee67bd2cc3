package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cardhaven/marketplace/internal/metrics"
	"github.com/cardhaven/marketplace/internal/models"
)

const marketDataDefaultTimeout = 10 * time.Second

// ConditionRecord is one condition-keyed price record from the market-data
// API.
type ConditionRecord struct {
	Condition     string                       `json:"condition"`
	Value         float64                      `json:"value"`
	Currency      string                       `json:"currency"`
	LastSoldPrice float64                      `json:"last_sold_price,omitempty"`
	LastSoldDate  string                       `json:"last_sold_date,omitempty"`
	Trends        map[string]models.TrendDelta `json:"trends,omitempty"` // "1d", "7d", "30d"
}

// MarketDataClient calls the external batch market-data endpoint. Responses
// are cached for MarketDataCacheTTL keyed by the joined product-id list, and
// every fetch is charged against the shared daily quota before network I/O.
type MarketDataClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
	quota   *QuotaGuard
	cache   *TTLCache[map[string][]ConditionRecord]
}

func NewMarketDataClient(baseURL, apiKey string, quota *QuotaGuard) *MarketDataClient {
	return &MarketDataClient{
		client:  &http.Client{Timeout: marketDataDefaultTimeout},
		baseURL: baseURL,
		apiKey:  apiKey,
		quota:   quota,
		cache:   NewTTLCache[map[string][]ConditionRecord](MarketDataCacheTTL),
	}
}

// FetchBatch returns condition records for each requested product id.
func (c *MarketDataClient) FetchBatch(ctx context.Context, productIDs []string) (map[string][]ConditionRecord, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	cacheKey := strings.Join(productIDs, ",")
	if records, ok := c.cache.Get(cacheKey); ok {
		metrics.MarketCacheHits.Inc()
		return records, nil
	}
	metrics.MarketCacheMisses.Inc()

	if err := c.quota.Acquire(); err != nil {
		return nil, err
	}
	if err := c.quota.Pace(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(map[string][]string{"productIds": productIDs})
	if err != nil {
		return nil, fmt.Errorf("marshal market data request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/prices/batch", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create market data request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	metrics.UpstreamLatency.WithLabelValues("market_data").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("market data fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("market data API error: status %d", resp.StatusCode)
	}

	records, err := decodeMarketDataResponse(resp.Body)
	if err != nil {
		return nil, err
	}

	c.cache.Set(cacheKey, records)
	return records, nil
}

// decodeMarketDataResponse handles both response layouts: records keyed by
// product id at the top level, or the same map under a "data" wrapper.
func decodeMarketDataResponse(r io.Reader) (map[string][]ConditionRecord, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode market data response: %w", err)
	}

	var wrapped struct {
		Data map[string][]ConditionRecord `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Data != nil {
		return wrapped.Data, nil
	}

	var direct map[string][]ConditionRecord
	if err := json.Unmarshal(raw, &direct); err != nil {
		return nil, fmt.Errorf("unrecognized market data response shape: %w", err)
	}
	return direct, nil
}

// conditionBandSpread is the ±10% presentation heuristic applied around each
// condition's reported value; it is not observed data.
const conditionBandSpread = 0.1

// NormalizeVariant reduces one product's condition records to a uniform
// pricing structure. The NM record is authoritative for overall market price,
// currency, last-sold info, and trends; without one the market price is
// reported as zero.
func NormalizeVariant(productID, material string, records []ConditionRecord) models.VariantPricing {
	v := models.VariantPricing{
		ProductID:  productID,
		Material:   material,
		Conditions: make(map[string]models.ConditionBand),
	}

	for _, rec := range records {
		cond := models.NormalizeCondition(rec.Condition)
		if cond == "" {
			continue
		}
		v.Conditions[cond.DisplayName()] = models.ConditionBand{
			Low:    rec.Value * (1 - conditionBandSpread),
			Market: rec.Value,
			High:   rec.Value * (1 + conditionBandSpread),
		}

		if cond == models.PriceConditionNM {
			v.MarketPrice = rec.Value
			v.Currency = rec.Currency
			v.LastSoldPrice = rec.LastSoldPrice
			v.LastSoldDate = rec.LastSoldDate
			if len(rec.Trends) > 0 {
				v.Trends = rec.Trends
			}
		}
	}

	return v
}
