package cache

// Metrics holds the running counters for a layer, or the aggregate across
// all layers. HitRate is always recomputed from the totals.
type Metrics struct {
	Hits        int64   `json:"hits"`
	Misses      int64   `json:"misses"`
	HitRate     float64 `json:"hit_rate"`
	Evictions   int64   `json:"evictions"`
	EntryCount  int     `json:"entry_count"`
	MemoryUsage int64   `json:"memory_usage"`
}

// hitRate computes hits/(hits+misses), or 0 with no traffic.
func hitRate(hits, misses int64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

// LayerStatus is the health classification of one layer.
type LayerStatus struct {
	Status      string  `json:"status"` // healthy|degraded|critical
	EntryCount  int     `json:"entry_count"`
	MemoryUsage int64   `json:"memory_usage"`
	HitRate     float64 `json:"hit_rate"`
}

// HealthStatus aggregates layer health for the whole manager.
type HealthStatus struct {
	Status           string                 `json:"status"` // healthy|degraded|critical
	TotalMemoryUsage int64                  `json:"total_memory_usage"`
	TotalEntries     int                    `json:"total_entries"`
	OverallHitRate   float64                `json:"overall_hit_rate"`
	Layers           map[string]LayerStatus `json:"layers"`
}

// Health classification thresholds.
const (
	// degradedBudgetPct marks a layer degraded when a budget is this full.
	degradedBudgetPct = 0.85

	// lowHitRateFloor marks a layer degraded below this hit rate once it
	// has seen minTrafficForHitRate lookups.
	lowHitRateFloor      = 0.2
	minTrafficForHitRate = 50
)
