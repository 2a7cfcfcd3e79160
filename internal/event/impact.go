package event

import "strings"

// Impact represents the expected market impact of an economic event
type Impact string

const (
	ImpactLow     Impact = "Low"
	ImpactMedium  Impact = "Medium"
	ImpactHigh    Impact = "High"
	ImpactUnknown Impact = "Unknown"
)

// ParseImpact canonicalizes a raw impact marker from the source page.
// Matching is case-insensitive and tolerant of the site's abbreviated
// markers ("l", "med", "h"). Anything outside the known set maps to
// ImpactUnknown rather than failing the row.
func ParseImpact(raw string) Impact {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "low", "l":
		return ImpactLow
	case "medium", "med", "m":
		return ImpactMedium
	case "high", "h":
		return ImpactHigh
	default:
		return ImpactUnknown
	}
}

// Equal compares two impact values case-insensitively. Filter input arrives
// from query strings in arbitrary casing.
func (i Impact) Equal(other string) bool {
	return strings.EqualFold(string(i), strings.TrimSpace(other))
}
