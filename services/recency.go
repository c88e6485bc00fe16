package services

import "rentcompare/models"

const (
	// minSaneYear guards against tiny years produced by bad date parses.
	minSaneYear = 2008
	// minRecentRecords is the smallest latest-year-only set worth keeping.
	minRecentRecords = 10
)

// SelectRecent narrows a record set to its most recent year. If the latest
// year looks bogus (≤ 2008) the full set is kept. If the latest-year subset
// has fewer than 10 records while the full set has at least 10, the year
// filter is discarded too: a thin recent sample gives worse averages than a
// fat historical one.
func SelectRecent(records []models.RentalRecord) []models.RentalRecord {
	latest := 0
	for _, r := range records {
		if r.Year != nil && *r.Year > latest {
			latest = *r.Year
		}
	}
	if latest <= minSaneYear {
		return records
	}

	recent := make([]models.RentalRecord, 0, len(records))
	for _, r := range records {
		if r.Year != nil && *r.Year == latest {
			recent = append(recent, r)
		}
	}

	if len(recent) < minRecentRecords && len(records) >= minRecentRecords {
		return records
	}
	return recent
}
