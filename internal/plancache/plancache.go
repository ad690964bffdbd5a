// Package plancache caches computed night plans so repeated requests for the
// same (target, location, date) tuple do not redo the sampling work.
//
// The cache is an explicit, passed-in abstraction: keys bucket the observer
// location to 0.1 degree and the date to its UTC day, entries expire on a
// TTL, and a background sweeper evicts expired and surplus entries. The
// engine itself stays pure; only this layer remembers anything.
package plancache

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/skyplan/skyplan/internal/catalog"
	"github.com/skyplan/skyplan/internal/ephemeris"
	"github.com/skyplan/skyplan/internal/interference"
	"github.com/skyplan/skyplan/internal/metrics"
	"github.com/skyplan/skyplan/internal/sampler"
	"github.com/skyplan/skyplan/internal/transform"
)

// Config holds cache configuration loaded from environment variables.
type Config struct {
	TTL           time.Duration // entry lifetime (default: 1h)
	MaxEntries    int           // size cap; oldest entries go first (default: 4096)
	SweepInterval time.Duration // eviction cadence (default: 1m)
}

// Key identifies one cached plan. Location is bucketed to 0.1 degree and the
// instant to its UTC calendar day, so nearby requests share entries.
type Key struct {
	TargetID  string
	LatBucket int
	LonBucket int
	Day       string // YYYY-MM-DD, UTC
}

// NewKey buckets a raw request into a cache key.
func NewKey(targetID string, loc transform.Location, day time.Time) Key {
	return Key{
		TargetID:  targetID,
		LatBucket: int(loc.LatDeg * 10),
		LonBucket: int(loc.LonDeg * 10),
		Day:       day.UTC().Format("2006-01-02"),
	}
}

// Plan is a fully evaluated night for one target: everything the API
// serializes for a visibility request.
type Plan struct {
	Target  catalog.Target
	Series  sampler.Series
	Sun     []sampler.SunSample
	Moon    []ephemeris.MoonState
	Night   sampler.NightSummary
	Windows []interference.Window
}

// entry wraps a plan with generation metadata for TTL eviction.
type entry struct {
	plan        *Plan
	generatedAt time.Time
}

// Cache is an in-memory plan cache safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[Key]*entry

	config Config
	logger *slog.Logger

	// Counters (lock-free).
	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// New creates a plan cache.
func New(config Config, logger *slog.Logger) *Cache {
	if config.TTL <= 0 {
		config.TTL = time.Hour
	}
	if config.MaxEntries <= 0 {
		config.MaxEntries = 4096
	}
	if config.SweepInterval <= 0 {
		config.SweepInterval = time.Minute
	}

	logger.Info("plan cache initialized",
		"ttl_seconds", config.TTL.Seconds(),
		"max_entries", config.MaxEntries,
		"sweep_interval_seconds", config.SweepInterval.Seconds(),
	)

	return &Cache{
		entries: make(map[Key]*entry),
		config:  config,
		logger:  logger,
	}
}

// Get returns the cached plan for the key, or nil on miss or expiry.
func (c *Cache) Get(k Key) *Plan {
	c.mu.RLock()
	e, ok := c.entries[k]
	c.mu.RUnlock()

	if ok && time.Since(e.generatedAt) < c.config.TTL {
		c.hits.Add(1)
		metrics.IncCacheHits()
		return e.plan
	}

	c.misses.Add(1)
	metrics.IncCacheMisses()
	return nil
}

// Put stores a plan under the key.
func (c *Cache) Put(k Key, p *Plan) {
	c.mu.Lock()
	c.entries[k] = &entry{plan: p, generatedAt: time.Now()}
	n := len(c.entries)
	c.mu.Unlock()

	metrics.SetCacheEntries(n)
}

// Start runs the eviction loop until ctx is cancelled. Call in a goroutine.
func (c *Cache) Start(ctx context.Context) {
	ticker := time.NewTicker(c.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.evict()
		case <-ctx.Done():
			return
		}
	}
}

// evict removes expired entries, then trims the oldest entries down to the
// size cap.
func (c *Cache) evict() {
	cutoff := time.Now().Add(-c.config.TTL)
	var removed int

	c.mu.Lock()
	for k, e := range c.entries {
		if e.generatedAt.Before(cutoff) {
			delete(c.entries, k)
			removed++
		}
	}

	if over := len(c.entries) - c.config.MaxEntries; over > 0 {
		type aged struct {
			key Key
			at  time.Time
		}
		all := make([]aged, 0, len(c.entries))
		for k, e := range c.entries {
			all = append(all, aged{k, e.generatedAt})
		}
		sort.Slice(all, func(i, j int) bool { return all[i].at.Before(all[j].at) })
		for i := 0; i < over; i++ {
			delete(c.entries, all[i].key)
			removed++
		}
	}
	n := len(c.entries)
	c.mu.Unlock()

	if removed > 0 {
		c.evictions.Add(int64(removed))
		metrics.AddCacheEvictions(removed)
		metrics.SetCacheEntries(n)
		c.logger.Debug("plan cache eviction", "entries_removed", removed, "entries_left", n)
	}
}

// Stats holds cache statistics.
type Stats struct {
	Entries   int
	Hits      int64
	Misses    int64
	Evictions int64
}

// Stats returns current cache statistics.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	n := len(c.entries)
	c.mu.RUnlock()

	return Stats{
		Entries:   n,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}
