package services

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"rentcompare/models"
	"rentcompare/utils"
)

// embeddedYearRegexp finds a four-digit year of this century inside free text.
var embeddedYearRegexp = regexp.MustCompile(`\b(20\d{2})\b`)

// Processor turns raw CSV rows into canonical RentalRecords.
type Processor struct {
	logger *utils.Logger
	now    func() time.Time
}

// NewProcessor creates a Processor with the given logger.
func NewProcessor(logger *utils.Logger) *Processor {
	return &Processor{logger: logger, now: time.Now}
}

// Process filters and normalizes raw rows using the discovered field map.
// Malformed rows are dropped silently; a wholly malformed batch yields an
// empty slice, never an error.
func (p *Processor) Process(rows []models.RawRecord, fm models.FieldMap) []models.RentalRecord {
	result := make([]models.RentalRecord, 0, len(rows))

	for _, row := range rows {
		geography := strings.TrimSpace(row[fm.Geography])
		value := strings.TrimSpace(row[fm.Value])
		if fm.Geography == "" || fm.Value == "" || geography == "" || value == "" {
			continue
		}
		if !IsOntarioLocation(geography) {
			continue
		}

		bedrooms := NormalizeBedrooms(p.resolveBedrooms(row, fm))
		if bedrooms == "" {
			continue
		}

		refDate := p.resolveRefDate(row, fm)
		ageMonths, year := p.parseRefDate(refDate)

		structureType := strings.TrimSpace(row[fm.StructureType])

		result = append(result, models.RentalRecord{
			Geography:     geography,
			Bedrooms:      bedrooms,
			Value:         value,
			RefDate:       refDate,
			DataAgeMonths: ageMonths,
			Year:          year,
			StructureType: structureType,
			Category:      MapStructureTypeToCategory(structureType),
		})
	}

	p.logger.Info("[processor] Processed %d → %d records (dropped %d)",
		len(rows), len(result), len(rows)-len(result))
	return result
}

// resolveBedrooms reads the mapped bedroom column, falling back to scanning
// every column for bedroom-ish names or values when the map came up empty.
func (p *Processor) resolveBedrooms(row models.RawRecord, fm models.FieldMap) string {
	if fm.Bedrooms != "" {
		if v := strings.TrimSpace(row[fm.Bedrooms]); v != "" {
			return v
		}
	}

	for _, name := range sortedColumns(row) {
		lower := strings.ToLower(name)
		val := strings.TrimSpace(row[name])
		if val == "" {
			continue
		}
		lowerVal := strings.ToLower(val)
		if strings.Contains(lower, "bedroom") || strings.Contains(lower, "unit") ||
			strings.Contains(lowerVal, "bedroom") || strings.Contains(lowerVal, "bachelor") {
			return val
		}
	}
	return ""
}

// resolveRefDate reads the mapped reference-date column, falling back to any
// date-like column name or any value carrying a 20xx year.
func (p *Processor) resolveRefDate(row models.RawRecord, fm models.FieldMap) string {
	if fm.RefDate != "" {
		if v := strings.TrimSpace(row[fm.RefDate]); v != "" {
			return v
		}
	}

	for _, name := range sortedColumns(row) {
		lower := strings.ToLower(name)
		val := strings.TrimSpace(row[name])
		if val == "" {
			continue
		}
		if strings.Contains(lower, "date") || strings.Contains(lower, "period") ||
			embeddedYearRegexp.MatchString(val) {
			return val
		}
	}
	return ""
}

// parseRefDate extracts a data age in months and a four-digit year from the
// reference-date text. Three formats are tried in order: ISO date, bare year,
// and a year embedded in free text. Future dates yield a negative age; the
// source occasionally publishes ahead of its reference period and we keep
// that inconsistency visible rather than clamping it.
func (p *Processor) parseRefDate(refDate string) (*int, *int) {
	refDate = strings.TrimSpace(refDate)
	if refDate == "" {
		return nil, nil
	}

	if t, err := time.Parse("2006-01-02", refDate); err == nil {
		return monthsSince(p.now(), t), intPtr(t.Year())
	}

	if len(refDate) == 4 {
		if y, err := strconv.Atoi(refDate); err == nil {
			t := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
			return monthsSince(p.now(), t), intPtr(y)
		}
	}

	if m := embeddedYearRegexp.FindString(refDate); m != "" {
		y, _ := strconv.Atoi(m)
		t := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
		return monthsSince(p.now(), t), intPtr(y)
	}

	return nil, nil
}

func monthsSince(now, ref time.Time) *int {
	months := (now.Year()-ref.Year())*12 + int(now.Month()) - int(ref.Month())
	return &months
}

func intPtr(v int) *int { return &v }

func sortedColumns(row models.RawRecord) []string {
	names := make([]string, 0, len(row))
	for name := range row {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
