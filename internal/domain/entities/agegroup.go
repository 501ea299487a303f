package entities

import "strings"

// ageGroupSynonyms maps lower-cased free-text inputs to canonical age
// group keys. The flow is permissive: inputs outside the table fall
// through to a cleaned-digits match, and anything still unmatched is
// ignored rather than rejected.
var ageGroupSynonyms = map[string]string{
	"5-10":        AgeGroup5To10,
	"5-10 yrs":    AgeGroup5To10,
	"5-10 years":  AgeGroup5To10,
	"10-15":       AgeGroup10To15,
	"10-15 yrs":   AgeGroup10To15,
	"10-15 years": AgeGroup10To15,
	"15-17":       AgeGroup15To17,
	"15-17 yrs":   AgeGroup15To17,
	"15-17 years": AgeGroup15To17,
}

// NormalizeAgeGroup canonicalizes free-text age group input. It returns
// the canonical key and true on a match, or "" and false when the input
// is empty or unrecognized.
func NormalizeAgeGroup(raw string) (string, bool) {
	ag := strings.ToLower(strings.TrimSpace(raw))
	if ag == "" {
		return "", false
	}
	if key, ok := ageGroupSynonyms[ag]; ok {
		return key, true
	}

	// Strip everything except digits and hyphens, then retry against
	// the canonical set ("10 - 15 Years" -> "10-15").
	var b strings.Builder
	for _, ch := range ag {
		if (ch >= '0' && ch <= '9') || ch == '-' {
			b.WriteRune(ch)
		}
	}
	cleaned := b.String()
	if IsRestrictedAgeGroup(cleaned) {
		return cleaned, true
	}
	return "", false
}
