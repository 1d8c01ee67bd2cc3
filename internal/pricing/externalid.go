package pricing

import (
	"regexp"
	"strings"
)

// externalSetExceptions overrides the general internal-to-external set id
// rule for sets whose catalogue identifier diverges from the pattern. This is
// the single authoritative table; checked before the general rule.
var externalSetExceptions = map[string]string{
	// Mega Evolution era: the catalogue kept the zero-padded form
	"me01": "me01",
	"me02": "me02",
	"mep":  "mepromo",

	// Promo sets use a spelled-out suffix
	"svp":   "svpromo",
	"swshp": "swshpromo",
	"smp":   "smpromo",

	// Anniversary sets
	"cel25":          "celebrations25",
	"pokemon-futsal": "futsal20",

	// Base era: the catalogue numbers Base Set 2 into its own sequence
	"base4": "base2",
}

var trailingDigits = regexp.MustCompile(`^(.*?)(\d+)$`)

// stripNumericZeros strips leading zeros from the trailing numeric run of an
// id, leaving non-numeric ids untouched.
func stripNumericZeros(id string) string {
	m := trailingDigits.FindStringSubmatch(id)
	if m == nil {
		return id
	}
	return m[1] + stripZeros(m[2])
}

// ToExternalSetID converts an internal set id to the external catalogue's set
// identifier dialect. Internal sub-release markers ("sv03.5") become a "pt"
// suffix ("sv3pt5"); otherwise leading zeros are stripped from the trailing
// numeric run ("sv01" -> "sv1"). Exceptions win over the rule.
func ToExternalSetID(internalSetID string) string {
	id := strings.ToLower(strings.TrimSpace(internalSetID))

	if ext, ok := externalSetExceptions[id]; ok {
		return ext
	}

	if before, after, found := strings.Cut(id, "."); found {
		return stripNumericZeros(before) + "pt" + after
	}

	return stripNumericZeros(id)
}
