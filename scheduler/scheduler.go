package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"sync/atomic"
	"time"

	"rentcompare/config"
	"rentcompare/dataset"
	"rentcompare/models"
	"rentcompare/utils"
)

// Scheduler periodically re-fetches the remote dataset and signals cache
// invalidation when its shape changed. Only meaningful in a long-running
// server process.
type Scheduler struct {
	cfg      *config.Config
	logger   *utils.Logger
	acquirer *dataset.Acquirer

	running  atomic.Bool
	lastMeta *models.DatasetMetadata
}

// New creates a Scheduler driving the given acquirer.
func New(cfg *config.Config, logger *utils.Logger, acquirer *dataset.Acquirer) *Scheduler {
	return &Scheduler{cfg: cfg, logger: logger, acquirer: acquirer}
}

// Start runs the check loop until the context is cancelled. Checks are
// evaluated hourly but gated by the persisted last-check timestamp, so the
// effective cadence is the configured refresh interval across restarts too.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	s.CheckForUpdates(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.CheckForUpdates(ctx)
		}
	}
}

// CheckForUpdates re-fetches the remote dataset when a check is due and
// reports whether the data changed. Overlapping runs are skipped.
func (s *Scheduler) CheckForUpdates(ctx context.Context) bool {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Debug("[scheduler] Check already in progress, skipping")
		return false
	}
	defer s.running.Store(false)

	if !s.checkDue() {
		return false
	}
	s.persistLastCheck()

	s.logger.Info("[scheduler] Refresh check starting")

	prev := s.currentMetadata()

	records, err := s.acquirer.FetchRemote(ctx)
	if err != nil {
		s.logger.Warn("[scheduler] Remote fetch failed, keeping current data: %v", err)
		return false
	}

	meta := dataset.BuildMetadata(records)
	s.lastMeta = &meta

	if prev != nil && metadataEqual(*prev, meta) {
		s.logger.Info("[scheduler] Dataset unchanged (%d records, latest year %d)",
			meta.RecordCount, meta.LatestYear)
		return false
	}

	s.logger.Info("[scheduler] Dataset changed — signalling cache invalidation")
	s.signalInvalidation()
	return true
}

// currentMetadata returns the metadata of the previous check, falling back to
// summarising whatever the cache holds right now.
func (s *Scheduler) currentMetadata() *models.DatasetMetadata {
	if s.lastMeta != nil {
		return s.lastMeta
	}
	if records, ok := s.acquirer.Cache().Get(); ok {
		meta := dataset.BuildMetadata(records)
		return &meta
	}
	return nil
}

// checkDue consults the persisted last-check timestamp so restarts within the
// refresh interval stay no-ops.
func (s *Scheduler) checkDue() bool {
	interval := time.Duration(s.cfg.RefreshIntervalHours) * time.Hour

	data, err := os.ReadFile(s.cfg.LastCheckPath)
	if err != nil {
		return true
	}
	unix, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return true
	}
	return time.Since(time.Unix(unix, 0)) >= interval
}

func (s *Scheduler) persistLastCheck() {
	if err := os.MkdirAll(filepath.Dir(s.cfg.LastCheckPath), 0755); err != nil {
		s.logger.Warn("[scheduler] Cannot create state dir: %v", err)
		return
	}
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	if err := os.WriteFile(s.cfg.LastCheckPath, []byte(ts), 0644); err != nil {
		s.logger.Warn("[scheduler] Cannot persist last-check timestamp: %v", err)
	}
}

// signalInvalidation touches the signal file; the cache stats it and clears
// itself when the mtime advances past its last check.
func (s *Scheduler) signalInvalidation() {
	path := s.cfg.SignalFilePath
	if path == "" {
		s.acquirer.Cache().Invalidate()
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		s.logger.Warn("[scheduler] Cannot create signal dir: %v", err)
		return
	}
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	if err := os.WriteFile(path, []byte(ts), 0644); err != nil {
		s.logger.Warn("[scheduler] Cannot write signal file: %v", err)
	}
	// Also clear the in-process cache directly; the file covers other
	// processes sharing the data directory.
	s.acquirer.Cache().Invalidate()
}

// metadataEqual compares the change-detection fields, ignoring GeneratedAt.
func metadataEqual(a, b models.DatasetMetadata) bool {
	return a.RecordCount == b.RecordCount &&
		a.LatestYear == b.LatestYear &&
		a.CityCount == b.CityCount &&
		reflect.DeepEqual(a.BedroomBuckets, b.BedroomBuckets)
}
