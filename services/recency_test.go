package services

import (
	"testing"

	"rentcompare/models"
)

func recordsWithYears(counts map[int]int) []models.RentalRecord {
	var out []models.RentalRecord
	for year, n := range counts {
		for i := 0; i < n; i++ {
			y := year
			out = append(out, models.RentalRecord{
				Geography: "Toronto, Ontario",
				Bedrooms:  "1",
				Value:     "1500",
				Year:      &y,
			})
		}
	}
	return out
}

func TestSelectRecentKeepsLatestYear(t *testing.T) {
	records := recordsWithYears(map[int]int{2021: 15, 2023: 12})

	recent := SelectRecent(records)

	if len(recent) != 12 {
		t.Fatalf("expected 12 records from 2023, got %d", len(recent))
	}
	for _, r := range recent {
		if r.Year == nil || *r.Year != 2023 {
			t.Errorf("record from wrong year in result: %v", r.Year)
		}
	}
}

func TestSelectRecentSmallSampleFallback(t *testing.T) {
	// Only 3 records in the latest year but 20 overall: the year filter is
	// discarded.
	records := recordsWithYears(map[int]int{2019: 10, 2021: 7, 2023: 3})

	recent := SelectRecent(records)

	if len(recent) != 20 {
		t.Errorf("expected fallback to all 20 records, got %d", len(recent))
	}
}

func TestSelectRecentBoundaryAtTen(t *testing.T) {
	// Exactly 10 recent records is enough to keep the year filter.
	records := recordsWithYears(map[int]int{2021: 10, 2023: 10})
	if got := len(SelectRecent(records)); got != 10 {
		t.Errorf("10 recent records: expected 10, got %d", got)
	}

	// Nine is not.
	records = recordsWithYears(map[int]int{2021: 11, 2023: 9})
	if got := len(SelectRecent(records)); got != 20 {
		t.Errorf("9 recent records: expected fallback to 20, got %d", got)
	}
}

func TestSelectRecentIgnoresBogusYears(t *testing.T) {
	// A spurious tiny year from a bad parse must not trigger filtering.
	records := recordsWithYears(map[int]int{1900: 2, 2005: 3})

	recent := SelectRecent(records)

	if len(recent) != 5 {
		t.Errorf("expected all 5 records kept for bogus years, got %d", len(recent))
	}
}

func TestSelectRecentNoYears(t *testing.T) {
	records := []models.RentalRecord{
		{Geography: "Toronto, Ontario", Bedrooms: "1", Value: "1500"},
		{Geography: "Toronto, Ontario", Bedrooms: "2", Value: "1800"},
	}

	recent := SelectRecent(records)
	if len(recent) != 2 {
		t.Errorf("expected all records kept when no years present, got %d", len(recent))
	}
}
