package textlayout

import (
	"sync"
	"time"
)

// Default configuration constants.
const (
	// DefaultMaxSize is the default cache budget in bytes (0.5 MiB).
	DefaultMaxSize = 512 * 1024

	// DefaultDumpInterval is the default number of cache hits between
	// periodic statistics dumps when instrumentation is enabled.
	DefaultDumpInterval = 100
)

// Config holds configuration for ShapeCache.
type Config struct {
	// MaxSize is the cache budget in bytes: the total Size() of all
	// stored keys and results never exceeds it.
	// Default: DefaultMaxSize.
	MaxSize int

	// Engine is the shaping engine driven on cache misses.
	// Default: NewGoTextEngine().
	Engine ShapingEngine

	// Bidi is the engine used to split mixed-direction text into runs.
	// Leave nil with NoBidi set to run without bidi analysis.
	// Default: NewBidiEngine().
	Bidi BidiEngine

	// NoBidi disables the default bidi engine, degrading segmentation
	// to a single run per request. Ignored when Bidi is set.
	NoBidi bool

	// Instrument enables timing statistics (nanoseconds saved per hit)
	// and the periodic statistics dump. Shaping itself is unaffected.
	Instrument bool

	// DumpInterval is the number of hits between statistics dumps when
	// Instrument is set. Default: DefaultDumpInterval.
	DumpInterval int
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() Config {
	return Config{
		MaxSize:      DefaultMaxSize,
		DumpInterval: DefaultDumpInterval,
	}
}

// cacheEntry is one stored (key, result) pair together with its budget
// charge.
type cacheEntry struct {
	key   ShapeKey
	hash  uint64
	value *ShapedResult
	size  int
}

// ShapeCache memoizes shaping results under a byte budget.
//
// The cache stores at most one result per distinct ShapeKey. When an
// insertion would exceed the budget, entries are evicted strictly
// oldest-first by insertion generation; a hit does not refresh an
// entry's position. A single request larger than the whole budget is
// computed on every call and never stored.
//
// ShapeCache is safe for concurrent use. The entire Shape call, probe,
// miss computation, eviction and insertion, runs under one cache-wide
// mutex. That serializes shaping across goroutines, guaranteeing at most
// one concurrent shaping computation cache-wide; the backpressure this
// creates is part of the contract.
//
// ShapeCache must be created with New and not copied afterwards.
type ShapeCache struct {
	mu      sync.Mutex
	buckets map[uint64][]*cacheEntry
	order   *genList[*cacheEntry]
	size    int
	maxSize int

	shaper *Shaper

	// Statistics. Guarded by mu; reads go through Stats().
	instrument   bool
	dumpInterval int
	hits         uint64
	nsSaved      int64
	start        time.Time
}

// New creates a ShapeCache with the given configuration. Zero-value
// fields fall back to defaults.
func New(cfg Config) *ShapeCache {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultMaxSize
	}
	if cfg.Engine == nil {
		cfg.Engine = NewGoTextEngine()
	}
	if cfg.Bidi == nil && !cfg.NoBidi {
		cfg.Bidi = NewBidiEngine()
	}
	if cfg.DumpInterval <= 0 {
		cfg.DumpInterval = DefaultDumpInterval
	}

	return &ShapeCache{
		buckets:      make(map[uint64][]*cacheEntry),
		order:        newGenList[*cacheEntry](),
		maxSize:      cfg.MaxSize,
		shaper:       NewShaper(cfg.Engine, NewRunSegmenter(cfg.Bidi)),
		instrument:   cfg.Instrument,
		dumpInterval: cfg.DumpInterval,
		start:        time.Now(),
	}
}

// Shape returns the shaped values for text under the given style and
// direction flags, computing and caching them on a miss.
//
// The returned result is shared with the cache and read-only; it stays
// valid after eviction for as long as the caller holds it. Shape never
// fails: every internal failure mode degrades to a valid (possibly
// zero-advance) result.
func (c *ShapeCache) Shape(style *Style, text []rune, dirFlags DirFlags) *ShapedResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	var lookupStart time.Time
	if c.instrument {
		lookupStart = time.Now()
	}

	// The lookup key references the caller's text; it is promoted to an
	// owned copy only if the miss result gets stored.
	key := NewShapeKey(style, text, dirFlags)
	hash := key.hash()

	if entry := c.lookup(hash, &key); entry != nil {
		c.hits++
		if c.instrument {
			c.recordHit(entry, time.Since(lookupStart))
		}
		return entry.value
	}

	computeStart := time.Now()
	value := c.shaper.ComputeValues(style, text, dirFlags)
	value.elapsed = time.Since(computeStart)

	entrySize := key.Size() + value.Size()
	if entrySize > c.maxSize {
		// Too big to ever fit: hand the result back uncached. The
		// request stays a permanent miss, which is a deliberate
		// degradation, not a fault.
		Logger().Debug("entry exceeds cache budget, not storing",
			"count", key.count, "entrySize", entrySize, "maxSize", c.maxSize)
		return value
	}

	// Make room, oldest generation first.
	for c.size+entrySize > c.maxSize && c.order.Len() > 0 {
		c.removeOldest()
	}

	key.promoteToOwned()
	entry := &cacheEntry{key: key, hash: hash, value: value, size: entrySize}
	c.order.PushBack(entry)
	c.buckets[hash] = append(c.buckets[hash], entry)
	c.size += entrySize

	Logger().Debug("cache miss, entry stored",
		"count", key.count, "entrySize", entrySize,
		"remaining", c.maxSize-c.size, "computeNs", value.elapsed.Nanoseconds())
	return value
}

// lookup finds the entry equal to key, or nil. Caller must hold c.mu.
func (c *ShapeCache) lookup(hash uint64, key *ShapeKey) *cacheEntry {
	for _, entry := range c.buckets[hash] {
		if entry.key.Equal(key) {
			return entry
		}
	}
	return nil
}

// recordHit accumulates timing statistics for one hit and triggers the
// periodic dump. Caller must hold c.mu.
func (c *ShapeCache) recordHit(entry *cacheEntry, lookupTime time.Duration) {
	saved := entry.value.elapsed - lookupTime
	c.nsSaved += saved.Nanoseconds()

	if entry.value.elapsed > 0 {
		gain := 100 * float64(saved) / float64(entry.value.elapsed)
		Logger().Debug("cache hit",
			"hits", c.hits, "count", entry.key.count,
			"computeNs", entry.value.elapsed.Nanoseconds(),
			"lookupNs", lookupTime.Nanoseconds(), "gainPercent", gain)
	}
	if c.hits%uint64(c.dumpInterval) == 0 {
		c.dumpStats()
	}
}

// removeOldest evicts the oldest entry. Caller must hold c.mu.
func (c *ShapeCache) removeOldest() {
	entry, ok := c.order.RemoveOldest()
	if !ok {
		return
	}
	c.removeEntry(entry)
}

// removeEntry detaches an already-unlinked entry from the bucket map and
// releases its budget charge. This is the single removal path for
// eviction and clear; the entry's buffers stay alive only through
// results callers still hold. Caller must hold c.mu.
func (c *ShapeCache) removeEntry(entry *cacheEntry) {
	chain := c.buckets[entry.hash]
	for i, e := range chain {
		if e == entry {
			chain[i] = chain[len(chain)-1]
			chain = chain[:len(chain)-1]
			break
		}
	}
	if len(chain) == 0 {
		delete(c.buckets, entry.hash)
	} else {
		c.buckets[entry.hash] = chain
	}

	c.size -= entry.size
	Logger().Debug("cache entry removed", "entrySize", entry.size, "size", c.size)
}

// SetMaxSize updates the cache budget and immediately evicts oldest
// entries until the current size fits.
func (c *ShapeCache) SetMaxSize(maxSize int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.maxSize = maxSize
	for c.size > c.maxSize && c.order.Len() > 0 {
		c.removeOldest()
	}
}

// Clear evicts all entries.
func (c *ShapeCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for {
		entry, ok := c.order.RemoveOldest()
		if !ok {
			break
		}
		c.removeEntry(entry)
	}
}

// Size returns the bytes currently charged against the budget.
func (c *ShapeCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// MaxSize returns the cache budget in bytes.
func (c *ShapeCache) MaxSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.maxSize
}

// Len returns the number of stored entries.
func (c *ShapeCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// CacheStats contains cache statistics for monitoring.
type CacheStats struct {
	// Entries is the current number of stored entries.
	Entries int
	// Size is the bytes currently charged against the budget.
	Size int
	// MaxSize is the cache budget in bytes.
	MaxSize int
	// Hits is the number of cache hits.
	Hits uint64
	// NanosecondsSaved is the cumulative estimated time saved by hits.
	// Accumulated only when instrumentation is enabled.
	NanosecondsSaved int64
}

// Stats returns current cache statistics.
func (c *ShapeCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return CacheStats{
		Entries:          c.order.Len(),
		Size:             c.size,
		MaxSize:          c.maxSize,
		Hits:             c.hits,
		NanosecondsSaved: c.nsSaved,
	}
}

// dumpStats logs a statistics snapshot. Pure observability; cache state
// is not touched. Caller must hold c.mu.
func (c *ShapeCache) dumpStats() {
	remaining := c.maxSize - c.size
	remainingPercent := 100 * float64(remaining) / float64(c.maxSize)
	Logger().Info("shape cache stats",
		"runningSec", time.Since(c.start).Seconds(),
		"entries", c.order.Len(),
		"maxSize", c.maxSize,
		"remaining", remaining,
		"remainingPercent", remainingPercent,
		"hits", c.hits,
		"savedMs", c.nsSaved/1e6)
}
