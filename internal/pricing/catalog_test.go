package pricing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestUnwrapCatalogResults(t *testing.T) {
	card := `{"product_id":"p1","card_number":"089/198"}`
	tests := []struct {
		name string
		body string
		want int
	}{
		{"bare array", `[` + card + `]`, 1},
		{"cards wrapper", `{"cards":[` + card + `]}`, 1},
		{"data wrapper", `{"data":[` + card + `]}`, 1},
		{"results wrapper", `{"results":[` + card + `]}`, 1},
		{"empty array", `[]`, 0},
		{"empty object", `{}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards, err := unwrapCatalogResults(json.RawMessage(tt.body))
			if err != nil {
				t.Fatalf("unwrapCatalogResults: %v", err)
			}
			if len(cards) != tt.want {
				t.Errorf("Got %d cards, want %d", len(cards), tt.want)
			}
			if tt.want > 0 && cards[0].ProductID != "p1" {
				t.Errorf("ProductID = %q, want p1", cards[0].ProductID)
			}
		})
	}

	if _, err := unwrapCatalogResults(json.RawMessage(`"nonsense"`)); err == nil {
		t.Error("Expected an error for an unrecognized response shape")
	}
}

func TestCatalogSearchCachesResults(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var req catalogSearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Bad request body: %v", err)
		}
		if req.SetID != "sv1" || req.CardName != "Pikachu" {
			t.Errorf("Unexpected request: %+v", req)
		}
		json.NewEncoder(w).Encode([]CatalogCard{
			{ProductID: "p1", CardNumber: "089/198", Name: "Pikachu"},
		})
	}))
	defer server.Close()

	client := NewCatalogClient(server.URL, "", NewQuotaGuard(10))

	for i := 0; i < 2; i++ {
		cards, err := client.Search(context.Background(), "sv1", "Pikachu", false)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if len(cards) != 1 || cards[0].ProductID != "p1" {
			t.Fatalf("Got %v, want one p1 card", cards)
		}
	}
	if calls != 1 {
		t.Errorf("Expected 1 upstream call (second served from cache), got %d", calls)
	}

	// A different graded flag is a different cache key
	if _, err := client.Search(context.Background(), "sv1", "Pikachu", true); err != nil {
		t.Fatalf("Search with graded: %v", err)
	}
	if calls != 2 {
		t.Errorf("Expected 2 upstream calls after graded search, got %d", calls)
	}
}

func TestCatalogSearchUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewCatalogClient(server.URL, "", NewQuotaGuard(10))
	if _, err := client.Search(context.Background(), "sv1", "Pikachu", false); err == nil {
		t.Error("Expected an error for a 500 response")
	}
}
