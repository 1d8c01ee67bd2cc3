package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cardhaven/marketplace/internal/models"
)

func TestNormalizeVariant(t *testing.T) {
	records := []ConditionRecord{
		{
			Condition:     "NM",
			Value:         10.0,
			Currency:      "GBP",
			LastSoldPrice: 9.50,
			LastSoldDate:  "2026-03-01",
			Trends: map[string]models.TrendDelta{
				"7d": {PercentageChange: 20.0},
			},
		},
		{Condition: "Lightly Played", Value: 8.0, Currency: "GBP"},
		{Condition: "sealed", Value: 99.0}, // unrecognized, skipped
	}

	v := NormalizeVariant("prod-1", "holo", records)

	if v.ProductID != "prod-1" || v.Material != "holo" {
		t.Errorf("Identity = (%q, %q), want (prod-1, holo)", v.ProductID, v.Material)
	}
	if v.MarketPrice != 10.0 || v.Currency != "GBP" {
		t.Errorf("Headline = (%v, %q), want NM record (10, GBP)", v.MarketPrice, v.Currency)
	}
	if v.LastSoldPrice != 9.50 || v.LastSoldDate != "2026-03-01" {
		t.Errorf("Last sold = (%v, %q), want (9.5, 2026-03-01)", v.LastSoldPrice, v.LastSoldDate)
	}
	if v.Trends["7d"].PercentageChange != 20.0 {
		t.Errorf("7d trend = %v, want 20", v.Trends["7d"].PercentageChange)
	}

	if len(v.Conditions) != 2 {
		t.Fatalf("Expected 2 condition bands, got %d: %v", len(v.Conditions), v.Conditions)
	}
	nm := v.Conditions["Near Mint"]
	if math.Abs(nm.Low-9.0) > 1e-9 || nm.Market != 10.0 || math.Abs(nm.High-11.0) > 1e-9 {
		t.Errorf("Near Mint band = %+v, want {9 10 11}", nm)
	}
	lp := v.Conditions["Lightly Played"]
	if math.Abs(lp.Low-7.2) > 1e-9 || lp.Market != 8.0 || math.Abs(lp.High-8.8) > 1e-9 {
		t.Errorf("Lightly Played band = %+v, want {7.2 8 8.8}", lp)
	}
}

func TestNormalizeVariantWithoutNM(t *testing.T) {
	v := NormalizeVariant("prod-1", "", []ConditionRecord{
		{Condition: "LP", Value: 8.0, Currency: "GBP"},
	})
	if v.MarketPrice != 0 {
		t.Errorf("MarketPrice without an NM record = %v, want 0", v.MarketPrice)
	}
	snapshot := &models.PricingSnapshot{VariantPricing: v}
	if snapshot.HasPricing() {
		t.Error("Snapshot without an NM record should report no pricing")
	}
}

func TestDecodeMarketDataResponse(t *testing.T) {
	direct := `{"prod-1":[{"condition":"NM","value":10.0,"currency":"GBP"}]}`
	wrapped := `{"data":{"prod-1":[{"condition":"NM","value":10.0,"currency":"GBP"}]}}`

	for _, tt := range []struct {
		name string
		body string
	}{
		{"direct", direct},
		{"data wrapped", wrapped},
	} {
		t.Run(tt.name, func(t *testing.T) {
			records, err := decodeMarketDataResponse(strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("decodeMarketDataResponse: %v", err)
			}
			recs, ok := records["prod-1"]
			if !ok || len(recs) != 1 {
				t.Fatalf("Expected 1 record for prod-1, got %v", records)
			}
			if recs[0].Condition != "NM" || recs[0].Value != 10.0 {
				t.Errorf("Record = %+v, want NM 10", recs[0])
			}
		})
	}

	if _, err := decodeMarketDataResponse(strings.NewReader(`"nonsense"`)); err == nil {
		t.Error("Expected an error for an unrecognized response shape")
	}
}

func TestFetchBatchCachesResponses(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var req map[string][]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Bad request body: %v", err)
		}
		if len(req["productIds"]) != 1 || req["productIds"][0] != "prod-1" {
			t.Errorf("productIds = %v, want [prod-1]", req["productIds"])
		}
		json.NewEncoder(w).Encode(map[string][]ConditionRecord{
			"prod-1": {{Condition: "NM", Value: 10.0, Currency: "GBP"}},
		})
	}))
	defer server.Close()

	client := NewMarketDataClient(server.URL, "", NewQuotaGuard(10))

	for i := 0; i < 2; i++ {
		records, err := client.FetchBatch(context.Background(), []string{"prod-1"})
		if err != nil {
			t.Fatalf("FetchBatch: %v", err)
		}
		if len(records["prod-1"]) != 1 {
			t.Fatalf("Expected 1 record, got %v", records)
		}
	}

	if calls != 1 {
		t.Errorf("Expected 1 upstream call (second served from cache), got %d", calls)
	}
}

func TestFetchBatchQuotaExhausted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("No upstream call should be made once the quota is exhausted")
	}))
	defer server.Close()

	quota := NewQuotaGuard(1)
	if err := quota.Acquire(); err != nil {
		t.Fatalf("Priming Acquire failed: %v", err)
	}

	client := NewMarketDataClient(server.URL, "", quota)
	_, err := client.FetchBatch(context.Background(), []string{"prod-1"})

	var qe *QuotaError
	if !errors.As(err, &qe) {
		t.Fatalf("Expected *QuotaError, got %v", err)
	}
}

func TestFetchBatchEmptyInput(t *testing.T) {
	client := NewMarketDataClient("http://unused.invalid", "", NewQuotaGuard(1))
	records, err := client.FetchBatch(context.Background(), nil)
	if err != nil || records != nil {
		t.Errorf("FetchBatch(nil) = (%v, %v), want (nil, nil)", records, err)
	}
}
