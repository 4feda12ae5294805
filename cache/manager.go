package cache

import (
	"context"
	"sync"
	"time"

	"github.com/genforge/svcruntime/health"
	"github.com/genforge/svcruntime/observe"
)

// Options configures a Manager.
type Options struct {
	// Layers are the pre-configured layer policies, keyed by layer name.
	// Layers referenced at runtime but absent here are created lazily
	// with DefaultLayerPolicy.
	Layers map[string]LayerPolicy

	// CleanupInterval is how often the janitor purges expired entries.
	// Default: 1 minute.
	CleanupInterval time.Duration

	// Logger receives low-severity records for absorbed cache faults.
	// Default: no-op.
	Logger observe.Logger
}

// Manager is the multi-layer cache. It is owned by the process composition
// root and passed by reference; Stop and Reset give tests deterministic
// teardown and isolation.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Errors: internal faults never propagate; Get degrades to a miss and
//   Set to a no-op, logged at low severity.
type Manager struct {
	mu     sync.RWMutex
	layers map[string]*layer

	logger   observe.Logger
	interval time.Duration

	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
}

// NewManager creates a Manager and starts its cleanup janitor.
func NewManager(opts Options) *Manager {
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = time.Minute
	}
	if opts.Logger == nil {
		opts.Logger = observe.NopLogger()
	}

	m := &Manager{
		layers:   make(map[string]*layer, len(opts.Layers)),
		logger:   opts.Logger,
		interval: opts.CleanupInterval,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	for name, policy := range opts.Layers {
		m.layers[name] = newLayer(name, policy)
	}

	go m.janitor()
	return m
}

// Get retrieves a live value. Expired or absent entries return (nil, false)
// and count as a miss.
func (m *Manager) Get(_ context.Context, layerName, key string) (any, bool) {
	if err := ValidateKey(key); err != nil {
		m.logger.Debug(context.Background(), "cache get degraded to miss",
			observe.Field{Key: "layer", Value: layerName},
			observe.Field{Key: "reason", Value: err.Error()})
		return nil, false
	}
	return m.layer(layerName).get(key, time.Now())
}

// GetStale retrieves a value even when its TTL has elapsed, as long as the
// entry is still resident. Reserved for the degraded fallback path.
func (m *Manager) GetStale(_ context.Context, layerName, key string) (any, bool) {
	if ValidateKey(key) != nil {
		return nil, false
	}
	return m.layer(layerName).getStale(key)
}

// Set stores a value. A ttl of 0 selects the layer default; NoExpiry
// disables expiry. Faults (invalid key, unserializable value) degrade to a
// no-op.
func (m *Manager) Set(_ context.Context, layerName, key string, value any, ttl time.Duration) {
	if err := ValidateKey(key); err != nil {
		m.logger.Debug(context.Background(), "cache set degraded to no-op",
			observe.Field{Key: "layer", Value: layerName},
			observe.Field{Key: "reason", Value: err.Error()})
		return
	}

	size, err := estimateSize(key, value)
	if err != nil {
		m.logger.Debug(context.Background(), "cache set degraded to no-op",
			observe.Field{Key: "layer", Value: layerName},
			observe.Field{Key: "reason", Value: "size estimation failed: " + err.Error()})
		return
	}

	l := m.layer(layerName)
	l.set(key, value, l.policy.EffectiveTTL(ttl), size, time.Now())
}

// Remove deletes a key from a layer. Idempotent.
func (m *Manager) Remove(_ context.Context, layerName, key string) {
	m.layer(layerName).remove(key)
}

// Clear drops all entries in a layer, keeping its counters.
func (m *Manager) Clear(layerName string) {
	m.layer(layerName).clear()
}

// Metrics returns the counters for one layer.
func (m *Manager) Metrics(layerName string) (Metrics, error) {
	m.mu.RLock()
	l, ok := m.layers[layerName]
	m.mu.RUnlock()

	if !ok {
		return Metrics{}, ErrLayerUnknown
	}
	return l.metrics(), nil
}

// AggregateMetrics sums the counters across all layers. HitRate is
// recomputed from the summed totals.
func (m *Manager) AggregateMetrics() Metrics {
	var agg Metrics
	for _, l := range m.snapshot() {
		lm := l.metrics()
		agg.Hits += lm.Hits
		agg.Misses += lm.Misses
		agg.Evictions += lm.Evictions
		agg.EntryCount += lm.EntryCount
		agg.MemoryUsage += lm.MemoryUsage
	}
	agg.HitRate = hitRate(agg.Hits, agg.Misses)
	return agg
}

// HealthStatus classifies every layer and the manager overall: critical if
// any layer has exceeded its memory budget, degraded if any layer is
// approaching a budget or showing a low hit rate, healthy otherwise.
func (m *Manager) HealthStatus() HealthStatus {
	layers := m.snapshot()

	status := HealthStatus{
		Status: "healthy",
		Layers: make(map[string]LayerStatus, len(layers)),
	}

	var hits, misses int64
	for _, l := range layers {
		ls := l.status()
		status.Layers[l.name] = ls
		status.TotalEntries += ls.EntryCount
		status.TotalMemoryUsage += ls.MemoryUsage

		lm := l.metrics()
		hits += lm.Hits
		misses += lm.Misses

		switch ls.Status {
		case "critical":
			status.Status = "critical"
		case "degraded":
			if status.Status != "critical" {
				status.Status = "degraded"
			}
		}
	}
	status.OverallHitRate = hitRate(hits, misses)
	return status
}

// Checker exposes the manager as a health checker.
func (m *Manager) Checker() health.Checker {
	return health.NewCheckerFunc("cache", func(ctx context.Context) health.Result {
		hs := m.HealthStatus()
		details := map[string]any{
			"total_entries":      hs.TotalEntries,
			"total_memory_usage": hs.TotalMemoryUsage,
			"overall_hit_rate":   hs.OverallHitRate,
		}
		switch hs.Status {
		case "critical":
			return health.Unhealthy("cache memory budget exceeded", nil).WithDetails(details)
		case "degraded":
			return health.Degraded("one or more cache layers degraded").WithDetails(details)
		default:
			return health.Healthy("all cache layers within budget").WithDetails(details)
		}
	})
}

// Stop terminates the janitor. Idempotent; entries remain readable.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
		<-m.done
	})
}

// Reset clears every layer and zeroes all counters. Intended for test
// isolation between runs.
func (m *Manager) Reset() {
	for _, l := range m.snapshot() {
		l.reset()
	}
}

// layer returns the named layer, creating it with the default policy on
// first use.
func (m *Manager) layer(name string) *layer {
	m.mu.RLock()
	l, ok := m.layers[name]
	m.mu.RUnlock()
	if ok {
		return l
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok = m.layers[name]; ok {
		return l
	}
	l = newLayer(name, DefaultLayerPolicy())
	m.layers[name] = l
	return l
}

func (m *Manager) snapshot() []*layer {
	m.mu.RLock()
	defer m.mu.RUnlock()

	layers := make([]*layer, 0, len(m.layers))
	for _, l := range m.layers {
		layers = append(layers, l)
	}
	return layers
}

func (m *Manager) janitor() {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			now := time.Now()
			for _, l := range m.snapshot() {
				l.purgeExpired(now)
			}
		}
	}
}
