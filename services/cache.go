package services

import (
	"os"
	"sync"
	"time"

	"rentcompare/models"
)

// DatasetCache holds the processed record set between acquisitions. It is an
// explicit object injected into the acquirer, lookup engine and scheduler
// rather than module-level shared state, so tests can build a fresh one per
// case. Safe for concurrent use.
type DatasetCache struct {
	mu                  sync.RWMutex
	records             []models.RentalRecord
	cachedAt            time.Time
	lastInvalidationChk time.Time

	signalPath    string
	checkInterval time.Duration
}

// NewDatasetCache creates an empty cache. signalPath may be "" to disable
// file-based invalidation; checkInterval bounds how often the signal file is
// stat'ed.
func NewDatasetCache(signalPath string, checkInterval time.Duration) *DatasetCache {
	return &DatasetCache{
		signalPath:    signalPath,
		checkInterval: checkInterval,
	}
}

// Get returns the cached records and true, or nil and false when the cache is
// empty or a newer invalidation signal has been observed.
func (c *DatasetCache) Get() ([]models.RentalRecord, bool) {
	c.checkSignal()

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.records == nil {
		return nil, false
	}
	return c.records, true
}

// Set replaces the cached record set wholesale.
func (c *DatasetCache) Set(records []models.RentalRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = records
	c.cachedAt = time.Now()
}

// Invalidate clears the cache so the next acquisition re-fetches.
func (c *DatasetCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = nil
}

// CachedAt returns when the current record set was stored.
func (c *DatasetCache) CachedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cachedAt
}

// checkSignal clears the cache when the signal file's modification time has
// advanced past the last check. Stat'ing is rate-limited to checkInterval so
// a hot lookup path does not hammer the filesystem.
func (c *DatasetCache) checkSignal() {
	if c.signalPath == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if now.Sub(c.lastInvalidationChk) < c.checkInterval {
		return
	}
	prevCheck := c.lastInvalidationChk
	c.lastInvalidationChk = now

	info, err := os.Stat(c.signalPath)
	if err != nil {
		return
	}
	if !prevCheck.IsZero() && info.ModTime().After(prevCheck) {
		c.records = nil
	}
}
