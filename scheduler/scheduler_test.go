package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"rentcompare/config"
	"rentcompare/dataset"
	"rentcompare/models"
	"rentcompare/services"
	"rentcompare/utils"
)

func testScheduler(t *testing.T, cfg *config.Config) *Scheduler {
	t.Helper()
	cache := services.NewDatasetCache("", 0)
	acquirer := dataset.NewAcquirer(cfg, utils.NewLogger(), cache, nil)
	return New(cfg, utils.NewLogger(), acquirer)
}

func TestCheckSkippedWithinInterval(t *testing.T) {
	dir := t.TempDir()
	lastCheck := filepath.Join(dir, "last_check")
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	if err := os.WriteFile(lastCheck, []byte(ts), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{
		RefreshIntervalHours: 24,
		LastCheckPath:        lastCheck,
	}
	s := testScheduler(t, cfg)

	if s.CheckForUpdates(context.Background()) {
		t.Error("check within the refresh interval should be a no-op")
	}
}

func TestCheckDueWithStaleTimestamp(t *testing.T) {
	dir := t.TempDir()
	lastCheck := filepath.Join(dir, "last_check")
	stale := strconv.FormatInt(time.Now().Add(-48*time.Hour).Unix(), 10)
	if err := os.WriteFile(lastCheck, []byte(stale), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{
		RefreshIntervalHours: 24,
		LastCheckPath:        lastCheck,
	}
	s := testScheduler(t, cfg)

	// The check is due; the remote fetch will fail (no endpoint configured)
	// and the existing data must be left untouched.
	if s.CheckForUpdates(context.Background()) {
		t.Error("failed remote fetch must not report a change")
	}

	// The attempt itself is recorded so the next invocation is a no-op.
	data, err := os.ReadFile(lastCheck)
	if err != nil {
		t.Fatal(err)
	}
	unix, _ := strconv.ParseInt(string(data), 10, 64)
	if time.Since(time.Unix(unix, 0)) > time.Minute {
		t.Error("last-check timestamp was not refreshed")
	}
}

func TestMetadataEqual(t *testing.T) {
	base := models.DatasetMetadata{
		RecordCount:    10,
		LatestYear:     2023,
		BedroomBuckets: []string{"0", "1", "2", "3+"},
		CityCount:      5,
	}

	same := base
	same.GeneratedAt = time.Now() // ignored by comparison
	if !metadataEqual(base, same) {
		t.Error("identical metadata should compare equal")
	}

	changed := base
	changed.RecordCount = 11
	if metadataEqual(base, changed) {
		t.Error("record-count change should compare unequal")
	}

	changed = base
	changed.BedroomBuckets = []string{"0", "1", "2"}
	if metadataEqual(base, changed) {
		t.Error("bucket change should compare unequal")
	}
}
