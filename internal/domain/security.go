package domain

import "strings"

// Security identifies a traded equity. Immutable value.
type Security struct {
	Ticker   string
	Name     string
	CUSIP    string // optional; empty when unknown
}

// unknownTicker marks a sale or lot whose broker feed never resolved the
// underlying security to a real ticker; the lot matcher falls back to
// fuzzy name matching when it sees this value.
const unknownTicker = "UNKNOWN"

// IsUnknown reports whether the security's identity is weak enough that
// the lot matcher should prefer name-overlap matching over ticker equality.
func (s Security) IsUnknown() bool {
	return s.Ticker == "" || s.Ticker == unknownTicker
}

var corporateSuffixes = []string{
	" inc", " inc.", " corp", " corp.", " corporation", " co", " co.",
	" ltd", " ltd.", " llc", " plc", " company",
}

// NormalizedName strips common corporate suffixes and lowercases the
// security's long name, producing a key suitable for fuzzy matching.
func (s Security) NormalizedName() string {
	return stripSuffixes(strings.ToLower(strings.TrimSpace(s.Name)))
}

func stripSuffixes(name string) string {
	trimmed := name
	for changed := true; changed; {
		changed = false
		for _, suf := range corporateSuffixes {
			if strings.HasSuffix(trimmed, suf) {
				trimmed = strings.TrimSpace(trimmed[:len(trimmed)-len(suf)])
				changed = true
			}
		}
	}
	return trimmed
}
