package pricing

import (
	"regexp"
	"strings"
)

// InputKind tags the interpretation of a parsed customer input.
type InputKind int

const (
	InputNameSearch InputKind = iota
	InputSetAndNumber
	InputBareNumber
	InputPrefixedNumber
)

func (k InputKind) String() string {
	switch k {
	case InputSetAndNumber:
		return "set_and_number"
	case InputBareNumber:
		return "bare_number"
	case InputPrefixedNumber:
		return "prefixed_number"
	default:
		return "name_search"
	}
}

// ParsedInput is the typed result of parsing one free-text input. Exactly the
// fields relevant to Kind are populated.
type ParsedInput struct {
	Kind    InputKind
	Query   string // name search query
	SetCode string // printed set abbreviation, upper-cased
	Number  string // card number, leading zeros stripped
	Total   string // "total cards in set" hint, where given
}

var (
	// "SV107/SV122" - identical letter prefixes on both sides
	rePrefixedPair = regexp.MustCompile(`^([A-Za-z]+)(\d+)\s*/\s*([A-Za-z]+)(\d+)$`)
	// "SVI 089/258", "SVI TG12/TG30"
	reSetNumTotal = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9-]*)\s+([A-Za-z]*)(\d+)\s*/\s*(?:[A-Za-z]*)(\d+)$`)
	// "SVI 089"
	reSetNum = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9-]*)\s+([A-Za-z]*)(\d+)$`)
	// "4/102"
	reBarePair = regexp.MustCompile(`^(\d+)\s*/\s*(\d+)$`)
	// "SV107"
	rePrefixedNum = regexp.MustCompile(`^([A-Za-z]+)(\d+)$`)
)

// stripZeros removes leading zeros from a digit run, never producing an empty
// string (minimum "0").
func stripZeros(digits string) string {
	stripped := strings.TrimLeft(digits, "0")
	if stripped == "" {
		return "0"
	}
	return stripped
}

// ParseInput classifies one free-text customer input. Patterns are tried in
// priority order; anything unrecognized falls through to a name search.
func ParseInput(input string) ParsedInput {
	input = strings.TrimSpace(input)

	// "SV107/SV122" with matching prefixes: a prefixed number plus an
	// explicit total from the same numbering family.
	if m := rePrefixedPair.FindStringSubmatch(input); m != nil &&
		strings.EqualFold(m[1], m[3]) {
		prefix := strings.ToUpper(m[1])
		return ParsedInput{
			Kind:   InputPrefixedNumber,
			Number: prefix + stripZeros(m[2]),
			Total:  strings.ToUpper(m[3]) + stripZeros(m[4]),
		}
	}

	// "SVI 089/258"
	if m := reSetNumTotal.FindStringSubmatch(input); m != nil {
		return ParsedInput{
			Kind:    InputSetAndNumber,
			SetCode: strings.ToUpper(m[1]),
			Number:  strings.ToUpper(m[2]) + stripZeros(m[3]),
			Total:   stripZeros(m[4]),
		}
	}

	// "SVI 089"
	if m := reSetNum.FindStringSubmatch(input); m != nil {
		return ParsedInput{
			Kind:    InputSetAndNumber,
			SetCode: strings.ToUpper(m[1]),
			Number:  strings.ToUpper(m[2]) + stripZeros(m[3]),
		}
	}

	// "4/102"
	if m := reBarePair.FindStringSubmatch(input); m != nil {
		return ParsedInput{
			Kind:   InputBareNumber,
			Number: stripZeros(m[1]),
			Total:  stripZeros(m[2]),
		}
	}

	// "SV107"
	if m := rePrefixedNum.FindStringSubmatch(input); m != nil {
		return ParsedInput{
			Kind:   InputPrefixedNumber,
			Number: strings.ToUpper(m[1]) + stripZeros(m[2]),
		}
	}

	return ParsedInput{Kind: InputNameSearch, Query: input}
}
