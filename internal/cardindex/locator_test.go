package cardindex

import (
	"testing"
)

func TestNormalizeNumber(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"089", "89"},
		{"000", "0"},
		{"0", "0"},
		{"89", "89"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeNumber(tt.input); got != tt.expected {
			t.Errorf("NormalizeNumber(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFindCardPaddingRetries(t *testing.T) {
	svc, _ := newTestIndex(t, testCards())

	// Stored "89", requested zero-padded
	card, err := svc.FindCard("sv01", "089")
	if err != nil {
		t.Fatalf("FindCard: %v", err)
	}
	if card == nil || card.ID != "sv01-089" {
		t.Errorf("FindCard(sv01, 089) = %+v, want sv01-089", card)
	}

	// Stored "004", requested stripped
	card, err = svc.FindCard("base1", "4")
	if err != nil {
		t.Fatalf("FindCard: %v", err)
	}
	if card == nil || card.ID != "base1-004" {
		t.Errorf("FindCard(base1, 4) = %+v, want base1-004", card)
	}

	// Alphanumeric numbers match case-insensitively, no padding games
	card, err = svc.FindCard("swsh45", "sv107")
	if err != nil {
		t.Fatalf("FindCard: %v", err)
	}
	if card == nil || card.ID != "swsh45-SV107" {
		t.Errorf("FindCard(swsh45, sv107) = %+v, want swsh45-SV107", card)
	}

	// Absent card is (nil, nil), not an error
	card, err = svc.FindCard("sv01", "999")
	if err != nil || card != nil {
		t.Errorf("FindCard(sv01, 999) = (%+v, %v), want (nil, nil)", card, err)
	}
}

func TestFindSetsByTotal(t *testing.T) {
	svc, _ := newTestIndex(t, testCards())

	// Only Base Set holds both a 102 and a 4
	matches, err := svc.FindSetsByTotal("102", "4")
	if err != nil {
		t.Fatalf("FindSetsByTotal: %v", err)
	}
	if len(matches) != 1 || matches[0].ID != "base1-004" {
		t.Errorf("FindSetsByTotal(102, 4) = %v, want [base1-004]", matches)
	}

	// A set qualifies only if it actually contains the total card
	matches, err = svc.FindSetsByTotal("500", "1")
	if err != nil {
		t.Fatalf("FindSetsByTotal: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("FindSetsByTotal(500, 1) = %v, want none", matches)
	}
}

func TestFindByNumber(t *testing.T) {
	svc, _ := newTestIndex(t, testCards())

	cards, err := svc.FindByNumber("sv107")
	if err != nil {
		t.Fatalf("FindByNumber: %v", err)
	}
	if len(cards) != 1 || cards[0].ID != "swsh45-SV107" {
		t.Errorf("FindByNumber(sv107) = %v, want [swsh45-SV107]", cards)
	}

	cards, err = svc.FindByNumber("ZZZ999")
	if err != nil || len(cards) != 0 {
		t.Errorf("FindByNumber(ZZZ999) = (%v, %v), want none", cards, err)
	}
}
