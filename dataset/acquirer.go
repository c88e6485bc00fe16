package dataset

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"rentcompare/config"
	"rentcompare/dataset/statcan"
	"rentcompare/models"
	"rentcompare/services"
	"rentcompare/storage"
	"rentcompare/utils"
)

// Acquirer owns the dataset lifecycle: it resolves records from the cache,
// a precomputed snapshot, the optional database store, or the remote web
// data service, in that order. Every failure degrades to the next tier; the
// final fallback is an empty record set, never an error.
type Acquirer struct {
	cfg       *config.Config
	logger    *utils.Logger
	cache     *services.DatasetCache
	client    *statcan.Client
	processor *services.Processor
	store     storage.RecordStore
}

// NewAcquirer wires an Acquirer. store may be nil when persistence is not
// configured.
func NewAcquirer(cfg *config.Config, logger *utils.Logger, cache *services.DatasetCache, store storage.RecordStore) *Acquirer {
	return &Acquirer{
		cfg:       cfg,
		logger:    logger,
		cache:     cache,
		client:    statcan.New(cfg, logger),
		processor: services.NewProcessor(logger),
		store:     store,
	}
}

// Cache exposes the acquirer's cache for injection into collaborators.
func (a *Acquirer) Cache() *services.DatasetCache {
	return a.cache
}

// Acquire returns the current processed record set, populating the cache if
// needed. An empty slice means "temporarily no data" — callers must not treat
// it as fatal.
func (a *Acquirer) Acquire(ctx context.Context) []models.RentalRecord {
	if records, ok := a.cache.Get(); ok {
		return records
	}

	records := a.loadFromFallbacks(ctx)
	if len(records) == 0 {
		a.logger.Warn("[acquirer] All acquisition tiers failed; serving no data")
		return []models.RentalRecord{}
	}

	a.cache.Set(records)
	return records
}

func (a *Acquirer) loadFromFallbacks(ctx context.Context) []models.RentalRecord {
	if a.cfg.SnapshotPath != "" {
		if snap, err := storage.LoadSnapshot(a.cfg.SnapshotPath); err == nil {
			a.logger.Info("[acquirer] Loaded %d records from local snapshot", len(snap.Data))
			return snap.Data
		} else {
			a.logger.Debug("[acquirer] Local snapshot unavailable: %v", err)
		}
	}

	if a.cfg.SnapshotURL != "" {
		timeout := time.Duration(a.cfg.FetchTimeout) * time.Second
		if snap, err := storage.FetchSnapshot(a.cfg.SnapshotURL, timeout); err == nil {
			a.logger.Info("[acquirer] Loaded %d records from remote snapshot", len(snap.Data))
			return snap.Data
		} else {
			a.logger.Warn("[acquirer] Remote snapshot fetch failed: %v", err)
		}
	}

	if a.store != nil {
		if records, err := a.store.FetchAll(); err == nil && len(records) > 0 {
			a.logger.Info("[acquirer] Loaded %d records from database store", len(records))
			return records
		} else if err != nil {
			a.logger.Warn("[acquirer] Database store read failed: %v", err)
		}
	}

	records, err := a.FetchRemote(ctx)
	if err != nil {
		a.logger.Error("[acquirer] Remote acquisition failed: %v", err)
		return nil
	}
	return records
}

// FetchRemote runs the full remote ingestion path unconditionally: web data
// service → ZIP → CSV → field identification → processing → recency filter.
// On success the result is persisted to the database store and snapshot so
// later restarts skip the network.
func (a *Acquirer) FetchRemote(ctx context.Context) ([]models.RentalRecord, error) {
	rows, err := a.client.FetchRaw(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("acquirer: remote table parsed to zero rows")
	}

	fieldMap := services.IdentifyFields(rows[0])
	processed := a.processor.Process(rows, fieldMap)
	if len(processed) == 0 {
		return nil, fmt.Errorf("acquirer: no usable records after processing")
	}

	records := services.SelectRecent(processed)
	a.logger.Info("[acquirer] Remote ingest complete: %d processed, %d after recency filter",
		len(processed), len(records))

	a.persist(records)
	return records, nil
}

func (a *Acquirer) persist(records []models.RentalRecord) {
	if a.store != nil {
		if err := a.store.Write(records); err != nil {
			a.logger.Warn("[acquirer] Database persist failed: %v", err)
		}
	}

	if a.cfg.SnapshotPath != "" {
		snap := &models.Snapshot{
			Metadata: BuildMetadata(records),
			Data:     records,
		}
		if err := storage.SaveSnapshot(a.cfg.SnapshotPath, snap); err != nil {
			a.logger.Warn("[acquirer] Snapshot persist failed: %v", err)
		}
	}
}

// BuildMetadata summarises a record set for snapshot headers and the refresh
// scheduler's change detection.
func BuildMetadata(records []models.RentalRecord) models.DatasetMetadata {
	buckets := make(map[string]struct{})
	cities := make(map[string]struct{})
	latest := 0

	for _, r := range records {
		buckets[r.Bedrooms] = struct{}{}
		cities[cityOf(r.Geography)] = struct{}{}
		if r.Year != nil && *r.Year > latest {
			latest = *r.Year
		}
	}

	bucketList := make([]string, 0, len(buckets))
	for b := range buckets {
		bucketList = append(bucketList, b)
	}
	sort.Strings(bucketList)

	return models.DatasetMetadata{
		RecordCount:    len(records),
		LatestYear:     latest,
		BedroomBuckets: bucketList,
		CityCount:      len(cities),
		GeneratedAt:    time.Now(),
	}
}

func cityOf(geography string) string {
	if i := strings.Index(geography, ","); i >= 0 {
		return geography[:i]
	}
	return geography
}
