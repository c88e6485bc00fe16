package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"rentcompare/models"
)

func sampleRecords() []models.RentalRecord {
	return []models.RentalRecord{
		{Geography: "Toronto, Ontario", Bedrooms: "1", Value: "1500"},
	}
}

func TestCacheSetGet(t *testing.T) {
	cache := NewDatasetCache("", 0)

	if _, ok := cache.Get(); ok {
		t.Error("empty cache should miss")
	}

	cache.Set(sampleRecords())
	records, ok := cache.Get()
	if !ok || len(records) != 1 {
		t.Errorf("expected cache hit with 1 record, got ok=%v len=%d", ok, len(records))
	}
}

func TestCacheInvalidate(t *testing.T) {
	cache := NewDatasetCache("", 0)
	cache.Set(sampleRecords())

	cache.Invalidate()

	if _, ok := cache.Get(); ok {
		t.Error("invalidated cache should miss")
	}
}

func TestCacheSignalFileInvalidation(t *testing.T) {
	dir := t.TempDir()
	signal := filepath.Join(dir, "refresh.signal")

	cache := NewDatasetCache(signal, 0)
	cache.Set(sampleRecords())

	// First read establishes the check baseline; no signal file exists yet.
	if _, ok := cache.Get(); !ok {
		t.Fatal("expected cache hit before any signal")
	}

	// Write the marker with a timestamp past the last check.
	if err := os.WriteFile(signal, []byte("refreshed"), 0644); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(signal, future, future); err != nil {
		t.Fatal(err)
	}

	if _, ok := cache.Get(); ok {
		t.Error("expected cache miss after signal timestamp advanced")
	}
}

func TestCacheSignalCheckRateLimited(t *testing.T) {
	dir := t.TempDir()
	signal := filepath.Join(dir, "refresh.signal")

	cache := NewDatasetCache(signal, time.Hour)
	cache.Set(sampleRecords())

	if _, ok := cache.Get(); !ok {
		t.Fatal("expected cache hit")
	}

	if err := os.WriteFile(signal, []byte("refreshed"), 0644); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(signal, future, future); err != nil {
		t.Fatal(err)
	}

	// The signal is newer, but the next check is not due for an hour.
	if _, ok := cache.Get(); !ok {
		t.Error("expected stale cache hit while signal check is rate-limited")
	}
}
