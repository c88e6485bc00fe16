package storage

import (
	"path/filepath"
	"testing"
	"time"

	"rentcompare/models"
)

func TestSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "snapshot.json")

	year := 2023
	snap := &models.Snapshot{
		Metadata: models.DatasetMetadata{
			RecordCount:    1,
			LatestYear:     2023,
			BedroomBuckets: []string{"1"},
			CityCount:      1,
			GeneratedAt:    time.Now(),
		},
		Data: []models.RentalRecord{
			{Geography: "Toronto, Ontario", Bedrooms: "1", Value: "$1,500", Year: &year},
		},
	}

	if err := SaveSnapshot(path, snap); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if len(loaded.Data) != 1 {
		t.Fatalf("expected 1 record, got %d", len(loaded.Data))
	}
	r := loaded.Data[0]
	if r.Geography != "Toronto, Ontario" || r.Bedrooms != "1" || r.Value != "$1,500" {
		t.Errorf("record mismatch: %+v", r)
	}
	if r.Year == nil || *r.Year != 2023 {
		t.Errorf("Year: got %v, want 2023", r.Year)
	}
	if loaded.Metadata.RecordCount != 1 {
		t.Errorf("RecordCount: got %d, want 1", loaded.Metadata.RecordCount)
	}
}

func TestLoadSnapshotMissingFile(t *testing.T) {
	if _, err := LoadSnapshot(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing snapshot file")
	}
}

func TestLoadSnapshotEmptyData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	snap := &models.Snapshot{Data: nil}
	if err := SaveSnapshot(path, snap); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	if _, err := LoadSnapshot(path); err == nil {
		t.Error("expected error for snapshot with no records")
	}
}
