package pricing

import (
	"testing"
)

func TestToExternalSetID(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// Sub-release marker becomes a "pt" suffix
		{"sv03.5", "sv3pt5"},
		{"sv04.5", "sv4pt5"},
		{"swsh12.5", "swsh12pt5"},
		{"sm11.5", "sm11pt5"},

		// Leading zeros stripped from the trailing numeric run
		{"sv01", "sv1"},
		{"sv10", "sv10"},
		{"swsh01", "swsh1"},
		{"sm01", "sm1"},

		// Non-numeric ids pass through
		{"pgo", "pgo"},

		// Exceptions win over the rule
		{"me01", "me01"},
		{"me02", "me02"},
		{"mep", "mepromo"},
		{"svp", "svpromo"},
		{"swshp", "swshpromo"},
		{"smp", "smpromo"},
		{"cel25", "celebrations25"},
		{"pokemon-futsal", "futsal20"},
		{"base4", "base2"},

		// Input is trimmed and lower-cased first
		{" SV01 ", "sv1"},
		{"SVP", "svpromo"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ToExternalSetID(tt.input); got != tt.expected {
				t.Errorf("ToExternalSetID(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
