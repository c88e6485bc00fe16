package services

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"rentcompare/models"
	"rentcompare/utils"
)

// priceCharsRegexp strips everything that is not a digit or decimal point
// from a raw price string before parsing.
var priceCharsRegexp = regexp.MustCompile(`[^0-9.]`)

// metroAliases expands a metro-area name into the geography spellings the
// dataset uses for it.
var metroAliases = map[string][]string{
	"ottawa-gatineau": {"Ottawa", "Gatineau", "Ottawa-Gatineau", "Ottawa-Gatineau, Ontario part"},
}

// satelliteMetros maps satellite cities with no survey zone of their own to
// the parent metro area whose numbers stand in for them.
var satelliteMetros = map[string][]string{
	"mississauga":   {"Toronto"},
	"brampton":      {"Toronto"},
	"vaughan":       {"Toronto"},
	"markham":       {"Toronto"},
	"richmond hill": {"Toronto"},
	"oakville":      {"Toronto"},
	"burlington":    {"Hamilton"},
	"ottawa":        {"Ottawa-Gatineau", "Ottawa-Gatineau, Ontario part"},
	"gatineau":      {"Ottawa-Gatineau", "Ottawa-Gatineau, Ontario part"},
}

// bedroomScale positions each bucket on a numeric axis for the
// closest-bedroom fallback.
var bedroomScale = map[string]int{"0": 0, "1": 1, "2": 2, "3+": 3}

// LookupEngine answers average-rent queries over the cached dataset. It is
// stateless: every call works off whatever record set the source returns.
type LookupEngine struct {
	logger *utils.Logger
	source func() []models.RentalRecord
}

// NewLookupEngine creates a LookupEngine reading records from source.
func NewLookupEngine(logger *utils.Logger, source func() []models.RentalRecord) *LookupEngine {
	return &LookupEngine{logger: logger, source: source}
}

// Average computes the average rent for a city and bedroom bucket, optionally
// narrowed to a housing category. Matching strategies are tried in order —
// exact, partial, spelling variant, metro fallback, closest bedroom — and the
// first one producing matches wins. A category filter that eliminates every
// match is retried once without the filter. A nil Value means nothing usable
// matched anywhere.
func (e *LookupEngine) Average(city, bedrooms, category string) models.AverageResult {
	records := e.source()
	if len(records) == 0 || strings.TrimSpace(city) == "" {
		return models.AverageResult{}
	}
	city = strings.TrimSpace(city)

	// Explicit loop, not recursion: second pass drops the category filter.
	filters := []string{category}
	if category != "" {
		filters = append(filters, "")
	}

	for _, cat := range filters {
		matches := e.findMatches(records, city, bedrooms, cat)
		if len(matches) > 0 {
			return aggregate(matches)
		}
	}

	e.logger.Debug("[lookup] No match for city=%q bedrooms=%q category=%q", city, bedrooms, category)
	return models.AverageResult{}
}

func (e *LookupEngine) findMatches(records []models.RentalRecord, city, bedrooms, category string) []models.RentalRecord {
	// Strategy 1: exact city name, comparing against the geography label with
	// everything after the first comma stripped.
	if m := matchExact(records, city, bedrooms, category); len(m) > 0 {
		return m
	}

	// Strategy 2: city name appears anywhere in the full geography string.
	if m := matchPartial(records, city, bedrooms, category); len(m) > 0 {
		return m
	}

	// Strategy 3: known spelling variants of the same place name.
	for _, variant := range nameVariants(city) {
		if m := matchExact(records, variant, bedrooms, category); len(m) > 0 {
			return m
		}
	}

	// Strategy 4: satellite city with no zone of its own — use its metro.
	for _, alias := range satelliteMetros[strings.ToLower(city)] {
		if m := matchExact(records, alias, bedrooms, category); len(m) > 0 {
			return m
		}
		if m := matchPartial(records, alias, bedrooms, category); len(m) > 0 {
			return m
		}
	}

	// Strategy 5: the city exists in the data but not for this bedroom count;
	// take the bedroom group numerically closest to the request.
	return e.closestBedroomMatches(records, city, bedrooms, category)
}

func matchExact(records []models.RentalRecord, city, bedrooms, category string) []models.RentalRecord {
	var out []models.RentalRecord
	for _, r := range records {
		if strings.EqualFold(cityPart(r.Geography), city) &&
			r.Bedrooms == bedrooms &&
			(category == "" || r.Category == category) {
			out = append(out, r)
		}
	}
	return out
}

func matchPartial(records []models.RentalRecord, city, bedrooms, category string) []models.RentalRecord {
	var out []models.RentalRecord
	lower := strings.ToLower(city)
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Geography), lower) &&
			r.Bedrooms == bedrooms &&
			(category == "" || r.Category == category) {
			out = append(out, r)
		}
	}
	return out
}

// closestBedroomMatches groups every record matching the city (bedrooms
// ignored) by bucket and picks the group closest on the numeric bedroom
// scale. Ties go to the group encountered first.
func (e *LookupEngine) closestBedroomMatches(records []models.RentalRecord, city, bedrooms, category string) []models.RentalRecord {
	want, ok := bedroomScale[bedrooms]
	if !ok {
		return nil
	}

	groups := make(map[string][]models.RentalRecord)
	var order []string
	lower := strings.ToLower(city)
	for _, r := range records {
		if !strings.EqualFold(cityPart(r.Geography), city) &&
			!strings.Contains(strings.ToLower(r.Geography), lower) {
			continue
		}
		if category != "" && r.Category != category {
			continue
		}
		if _, seen := groups[r.Bedrooms]; !seen {
			order = append(order, r.Bedrooms)
		}
		groups[r.Bedrooms] = append(groups[r.Bedrooms], r)
	}

	best := ""
	bestDist := math.MaxInt32
	for _, bucket := range order {
		scale, ok := bedroomScale[bucket]
		if !ok {
			continue
		}
		dist := scale - want
		if dist < 0 {
			dist = -dist
		}
		if dist < bestDist {
			bestDist = dist
			best = bucket
		}
	}
	if best == "" {
		return nil
	}

	e.logger.Debug("[lookup] Closest-bedroom fallback: wanted %q, using %q for %q", bedrooms, best, city)
	return groups[best]
}

// nameVariants generates candidate spellings of a city name: Saint/St.
// toggles, hyphen/space toggles, and known metro-area aliases.
func nameVariants(city string) []string {
	seen := map[string]struct{}{city: {}}
	variants := []string{}

	add := func(v string) {
		if _, dup := seen[v]; !dup {
			seen[v] = struct{}{}
			variants = append(variants, v)
		}
	}

	lower := strings.ToLower(city)
	switch {
	case strings.HasPrefix(lower, "st. "):
		add("Saint " + city[4:])
		add("St " + city[4:])
	case strings.HasPrefix(lower, "st "):
		add("Saint " + city[3:])
		add("St. " + city[3:])
	case strings.HasPrefix(lower, "saint "):
		add("St. " + city[6:])
		add("St " + city[6:])
	}

	if strings.Contains(city, "-") {
		add(strings.ReplaceAll(city, "-", " "))
	}
	if strings.Contains(city, " ") {
		add(strings.ReplaceAll(city, " ", "-"))
	}

	for _, alias := range metroAliases[lower] {
		add(alias)
	}

	return variants
}

// aggregate averages the parseable prices of the matched records and the data
// ages of those records that carry one.
func aggregate(matches []models.RentalRecord) models.AverageResult {
	var sum float64
	var count int
	var ageSum, ageCount int

	for _, r := range matches {
		if v, ok := parsePrice(r.Value); ok {
			sum += v
			count++
		}
		if r.DataAgeMonths != nil {
			ageSum += *r.DataAgeMonths
			ageCount++
		}
	}

	if count == 0 {
		return models.AverageResult{}
	}

	avg := sum / float64(count)
	result := models.AverageResult{Value: &avg}
	if ageCount > 0 {
		age := int(math.Round(float64(ageSum) / float64(ageCount)))
		result.DataAgeMonths = &age
	}
	return result
}

// parsePrice extracts a float from a raw price string like "$1,500" or
// "1200.50 CAD". Returns false when no number survives the stripping.
func parsePrice(raw string) (float64, bool) {
	cleaned := priceCharsRegexp.ReplaceAllString(raw, "")
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// cityPart strips everything after the first comma of a geography label, so
// "Toronto, Ontario" compares as "Toronto".
func cityPart(geography string) string {
	if i := strings.Index(geography, ","); i >= 0 {
		geography = geography[:i]
	}
	return strings.TrimSpace(geography)
}

// Cities lists the distinct city names present in the record set, sorted.
func (e *LookupEngine) Cities() []string {
	seen := make(map[string]struct{})
	var cities []string
	for _, r := range e.source() {
		city := cityPart(r.Geography)
		if city == "" {
			continue
		}
		if _, dup := seen[city]; !dup {
			seen[city] = struct{}{}
			cities = append(cities, city)
		}
	}
	sort.Strings(cities)
	return cities
}

// CategoriesFor lists the housing categories available for a city and bedroom
// bucket, for populating a filter UI. Empty city means all records.
func (e *LookupEngine) CategoriesFor(city, bedrooms string) []string {
	seen := make(map[string]struct{})
	var categories []string
	lower := strings.ToLower(strings.TrimSpace(city))
	for _, r := range e.source() {
		if lower != "" && !strings.Contains(strings.ToLower(r.Geography), lower) {
			continue
		}
		if bedrooms != "" && r.Bedrooms != bedrooms {
			continue
		}
		if r.Category == "" {
			continue
		}
		if _, dup := seen[r.Category]; !dup {
			seen[r.Category] = struct{}{}
			categories = append(categories, r.Category)
		}
	}
	sort.Strings(categories)
	return categories
}
