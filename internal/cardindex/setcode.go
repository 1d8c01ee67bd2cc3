package cardindex

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// printedSetCodes maps the abbreviation printed on a card to the internal set
// id. Covers era-specific and irregular naming that neither an id match nor a
// name match would find.
var printedSetCodes = map[string]string{
	// Scarlet & Violet era
	"SVI": "sv01",
	"PAL": "sv02",
	"OBF": "sv03",
	"MEW": "sv03.5",
	"PAR": "sv04",
	"PAF": "sv04.5",
	"TEF": "sv05",
	"TWM": "sv06",
	"SFA": "sv06.5",
	"SCR": "sv07",
	"SSP": "sv08",
	"PRE": "sv08.5",
	"JTG": "sv09",
	"DRI": "sv10",
	"SVP": "svp",

	// Mega Evolution era
	"MEG": "me01",
	"PFL": "me02",
	"MEP": "mep",

	// Sword & Shield era
	"SSH": "swsh01",
	"RCL": "swsh02",
	"DAA": "swsh03",
	"VIV": "swsh04",
	"BST": "swsh05",
	"CRE": "swsh06",
	"EVS": "swsh07",
	"FST": "swsh08",
	"BRS": "swsh09",
	"ASR": "swsh10",
	"LOR": "swsh11",
	"SIT": "swsh12",
	"CRZ": "swsh12.5",
	"CPA": "swsh35",
	"SHF": "swsh45",
	"CEL": "cel25",
	"PGO": "pgo",
	"PR-SW": "swshp",

	// Sun & Moon era (regional variants share printed codes)
	"SUM": "sm01",
	"GRI": "sm02",
	"BUS": "sm03",
	"CIN": "sm04",
	"UPR": "sm05",
	"FLI": "sm06",
	"CES": "sm07",
	"LOT": "sm08",
	"TEU": "sm09",
	"UNB": "sm10",
	"UNM": "sm11",
	"CEC": "sm12",
	"HIF": "sm11.5",
	"DRM": "sm07.5",
	"PR-SM": "smp",
}

// minFuzzySetScore is the sahilm/fuzzy score floor below which a set-name
// match is considered noise.
const minFuzzySetScore = 20

type setNameSource struct {
	ids   []string
	names map[string]string
}

func (s setNameSource) String(i int) string { return strings.ToLower(s.names[s.ids[i]]) }
func (s setNameSource) Len() int            { return len(s.ids) }

// ResolveSetCode maps a printed set abbreviation to an internal set id.
// Resolution order: static table, exact id match, substring name match,
// fuzzy name match. Returns false when nothing hits; the caller should then
// retry treating the token as a card-number prefix, since the input grammar
// is ambiguous for single-letter-group inputs.
func (s *Service) ResolveSetCode(code string) (string, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", false
	}

	if id, ok := printedSetCodes[strings.ToUpper(code)]; ok {
		return id, true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	// Exact match against known internal set ids
	for _, id := range s.setIDs {
		if strings.EqualFold(id, code) {
			return id, true
		}
	}

	// Substring match against set display names
	codeLower := strings.ToLower(code)
	for _, id := range s.setIDs {
		if strings.Contains(strings.ToLower(s.setNames[id]), codeLower) {
			return id, true
		}
	}

	// Fuzzy match against set display names
	matches := fuzzy.FindFrom(codeLower, setNameSource{ids: s.setIDs, names: s.setNames})
	if len(matches) > 0 && matches[0].Score >= minFuzzySetScore {
		return s.setIDs[matches[0].Index], true
	}

	return "", false
}
