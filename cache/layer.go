package cache

import (
	"sort"
	"sync"
	"time"
)

// layer is one named partition of the cache. Each layer owns its entry map,
// policy, and metrics counters; keys in different layers never collide.
type layer struct {
	name   string
	policy LayerPolicy

	mu        sync.RWMutex
	entries   map[string]*Entry
	hits      int64
	misses    int64
	evictions int64
	bytes     int64
}

func newLayer(name string, policy LayerPolicy) *layer {
	return &layer{
		name:    name,
		policy:  policy.withDefaults(),
		entries: make(map[string]*Entry),
	}
}

// get returns the live value for key. Expired entries count as misses but
// stay resident as stale tombstones until purged or evicted, so the
// fallback path can still read them.
func (l *layer) get(key string, now time.Time) (any, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[key]
	if !ok || entry.expired(now) {
		l.misses++
		return nil, false
	}

	entry.LastAccessedAt = now
	entry.AccessCount++
	l.hits++
	return entry.Value, true
}

// getStale returns the value for key even when expired. Used only by the
// degraded fallback path; does not touch hit/miss counters.
func (l *layer) getStale(key string) (any, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entry, ok := l.entries[key]
	if !ok {
		return nil, false
	}
	return entry.Value, true
}

// set stores a value, replacing any previous entry, then evicts back under
// budget if needed.
func (l *layer) set(key string, value any, ttl time.Duration, size int64, now time.Time) {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = now.Add(ttl)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if prev, ok := l.entries[key]; ok {
		l.bytes -= prev.SizeBytes
	}

	l.entries[key] = &Entry{
		Key:            key,
		Value:          value,
		CreatedAt:      now,
		ExpiresAt:      expiresAt,
		LastAccessedAt: now,
		SizeBytes:      size,
	}
	l.bytes += size

	l.evictLocked(now)
}

// evictLocked removes entries until the layer is back under its entry and
// byte budgets. Expired entries go first; live entries are then evicted in
// LRU order with access count as the tie-break (the least frequently used
// of equally recent entries leaves first). Each removal increments the
// eviction counter.
func (l *layer) evictLocked(now time.Time) {
	if len(l.entries) <= l.policy.MaxEntries && l.bytes <= l.policy.MaxBytes {
		return
	}

	// Expired tombstones are free wins.
	for key, entry := range l.entries {
		if entry.expired(now) {
			l.removeLocked(key)
			l.evictions++
			if len(l.entries) <= l.policy.MaxEntries && l.bytes <= l.policy.MaxBytes {
				return
			}
		}
	}

	candidates := make([]*Entry, 0, len(l.entries))
	for _, entry := range l.entries {
		candidates = append(candidates, entry)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].LastAccessedAt.Equal(candidates[j].LastAccessedAt) {
			return candidates[i].LastAccessedAt.Before(candidates[j].LastAccessedAt)
		}
		return candidates[i].AccessCount < candidates[j].AccessCount
	})

	for _, entry := range candidates {
		if len(l.entries) <= l.policy.MaxEntries && l.bytes <= l.policy.MaxBytes {
			return
		}
		l.removeLocked(entry.Key)
		l.evictions++
	}
}

func (l *layer) removeLocked(key string) {
	if entry, ok := l.entries[key]; ok {
		l.bytes -= entry.SizeBytes
		delete(l.entries, key)
	}
}

// remove deletes a key. Idempotent.
func (l *layer) remove(key string) {
	l.mu.Lock()
	l.removeLocked(key)
	l.mu.Unlock()
}

// clear drops all entries but keeps the metrics counters.
func (l *layer) clear() {
	l.mu.Lock()
	l.entries = make(map[string]*Entry)
	l.bytes = 0
	l.mu.Unlock()
}

// purgeExpired removes expired entries. Called by the manager's janitor.
// Returns the number of entries removed.
func (l *layer) purgeExpired(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, entry := range l.entries {
		if entry.expired(now) {
			l.removeLocked(key)
			removed++
		}
	}
	return removed
}

// metrics returns a snapshot of the layer counters.
func (l *layer) metrics() Metrics {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return Metrics{
		Hits:        l.hits,
		Misses:      l.misses,
		HitRate:     hitRate(l.hits, l.misses),
		Evictions:   l.evictions,
		EntryCount:  len(l.entries),
		MemoryUsage: l.bytes,
	}
}

// status classifies the layer as healthy, degraded, or critical.
func (l *layer) status() LayerStatus {
	m := l.metrics()

	state := "healthy"
	entryPct := float64(m.EntryCount) / float64(l.policy.MaxEntries)
	bytePct := float64(m.MemoryUsage) / float64(l.policy.MaxBytes)

	if bytePct >= 1.0 {
		state = "critical"
	} else if entryPct >= degradedBudgetPct || bytePct >= degradedBudgetPct {
		state = "degraded"
	} else if m.Hits+m.Misses >= minTrafficForHitRate && m.HitRate < lowHitRateFloor {
		state = "degraded"
	}

	return LayerStatus{
		Status:      state,
		EntryCount:  m.EntryCount,
		MemoryUsage: m.MemoryUsage,
		HitRate:     m.HitRate,
	}
}

// reset clears entries and zeroes all counters.
func (l *layer) reset() {
	l.mu.Lock()
	l.entries = make(map[string]*Entry)
	l.bytes = 0
	l.hits = 0
	l.misses = 0
	l.evictions = 0
	l.mu.Unlock()
}
