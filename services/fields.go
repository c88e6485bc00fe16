package services

import (
	"strings"

	"rentcompare/models"
)

// fieldRule is one detection rule: a canonical role plus the ordered list of
// substrings that identify its column in a lower-cased header name.
type fieldRule struct {
	role       string
	substrings []string
}

// fieldRules drives IdentifyFields. Order matters twice: earlier substrings
// win within a role, and the first matching column wins per role. The lists
// cover the header spellings seen across StatCan rental-survey extracts;
// upstream column renames outside these lists simply leave the role empty.
var fieldRules = []fieldRule{
	{"geography", []string{"geo", "location", "city", "geography"}},
	{"bedrooms", []string{"bedroom", "room", "type of unit", "unit type", "apartment type", "dwelling type"}},
	{"value", []string{"value", "price", "rent", "amount", "cost"}},
	{"refDate", []string{"ref", "date", "period", "year", "time"}},
	{"structureType", []string{"type of structure", "structure", "building type", "dwelling structure"}},
}

// IdentifyFields guesses which columns of a sample row hold geography,
// bedrooms, value, reference date and structure type. Unmatched roles are
// left empty; callers must tolerate that.
func IdentifyFields(sample models.RawRecord) models.FieldMap {
	var fm models.FieldMap

	for _, rule := range fieldRules {
		col := findColumn(sample, rule.substrings)
		switch rule.role {
		case "geography":
			fm.Geography = col
		case "bedrooms":
			fm.Bedrooms = col
		case "value":
			fm.Value = col
		case "refDate":
			fm.RefDate = col
		case "structureType":
			fm.StructureType = col
		}
	}

	return fm
}

// findColumn returns the first column whose lower-cased name contains any of
// the given substrings, trying substrings in priority order. Column names are
// sorted so ties resolve the same way on every run.
func findColumn(sample models.RawRecord, substrings []string) string {
	names := sortedColumns(sample)

	for _, sub := range substrings {
		for _, name := range names {
			if strings.Contains(strings.ToLower(name), sub) {
				return name
			}
		}
	}
	return ""
}
