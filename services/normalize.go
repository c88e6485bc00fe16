package services

import (
	"regexp"
	"strconv"
	"strings"
)

// digitsRegexp captures the first run of digits in a bedroom label.
var digitsRegexp = regexp.MustCompile(`\d+`)

// structureCategories maps the exact structure-type phrases used by the
// rental-survey dataset to the four housing categories. Exact match only —
// unknown phrases get no category, unlike the bedroom cascade.
var structureCategories = map[string]string{
	"Row and apartment structures of three units and over": "Multi-Plex",
	"Row structures of three units and over":               "Townhouse",
	"Apartment structures of three units and over":         "Low-Rise",
	"Apartment structures of six units and over":           "Highrise",
}

// NormalizeBedrooms maps a raw bedroom label to one of the canonical buckets
// "0", "1", "2", "3+". Labels with no recognisable pattern come back
// unchanged, so "penthouse" stays "penthouse" and "" stays "".
func NormalizeBedrooms(label string) string {
	if label == "" {
		return ""
	}
	lower := strings.ToLower(strings.TrimSpace(label))

	// Exact canonical phrases from the survey dataset.
	switch lower {
	case "bachelor units":
		return "0"
	case "one bedroom units":
		return "1"
	case "two bedroom units":
		return "2"
	case "three bedroom units":
		return "3+"
	}

	switch {
	case strings.Contains(lower, "bachelor"), strings.Contains(lower, "studio"):
		return "0"
	case strings.Contains(lower, "three or more"), strings.Contains(lower, "3+"),
		strings.Contains(lower, "three"), strings.Contains(lower, "3 bedroom"):
		return "3+"
	case strings.Contains(lower, "one"), strings.Contains(lower, "1 bedroom"):
		return "1"
	case strings.Contains(lower, "two"), strings.Contains(lower, "2 bedroom"):
		return "2"
	}

	// Last resort: first digit run, collapsing 3 and up into "3+".
	if digits := digitsRegexp.FindString(lower); digits != "" {
		if n, err := strconv.Atoi(digits); err == nil {
			if n >= 3 {
				return "3+"
			}
			return strconv.Itoa(n)
		}
	}

	return label
}

// MapStructureTypeToCategory returns the housing category for a known
// structure-type phrase, or "" when the phrase is not in the table.
func MapStructureTypeToCategory(label string) string {
	return structureCategories[label]
}

// IsOntarioLocation reports whether a geography label looks like an Ontario
// location. Best effort over inconsistent source labels.
func IsOntarioLocation(geography string) bool {
	return strings.Contains(geography, ", Ontario") ||
		strings.Contains(geography, "ON,") ||
		strings.Contains(geography, ", ON") ||
		strings.Contains(geography, "Ontario")
}
