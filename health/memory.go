package health

import (
	"context"
	"fmt"
	"runtime"
)

// MemoryCheckerConfig configures the process memory checker.
type MemoryCheckerConfig struct {
	// WarningThreshold is the heap usage ratio reporting degraded.
	// Range (0,1). Default: 0.8
	WarningThreshold float64

	// CriticalThreshold is the heap usage ratio reporting unhealthy.
	// Range (0,1). Default: 0.95
	CriticalThreshold float64

	// MaxAlloc is the allocation budget in bytes the ratios are measured
	// against. Default: 0 (use the runtime's Sys figure)
	MaxAlloc uint64
}

// MemoryChecker reports process heap pressure. With in-memory cache
// layers the heap is the runtime's scarcest resource, so it gets its
// own checker next to the per-component ones.
type MemoryChecker struct {
	config MemoryCheckerConfig
}

// NewMemoryChecker creates a memory checker, clamping thresholds into
// a sane order.
func NewMemoryChecker(config MemoryCheckerConfig) *MemoryChecker {
	if config.WarningThreshold <= 0 || config.WarningThreshold >= 1 {
		config.WarningThreshold = 0.8
	}
	if config.CriticalThreshold <= 0 || config.CriticalThreshold >= 1 {
		config.CriticalThreshold = 0.95
	}
	if config.CriticalThreshold < config.WarningThreshold {
		config.CriticalThreshold = min(config.WarningThreshold+0.1, 0.99)
	}
	return &MemoryChecker{config: config}
}

func (m *MemoryChecker) Name() string { return "memory" }

// Check reads runtime memory stats and grades heap usage against the
// configured thresholds.
func (m *MemoryChecker) Check(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return Unhealthy("context cancelled", err)
	}

	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	budget := m.config.MaxAlloc
	if budget == 0 {
		budget = stats.Sys
	}
	if budget == 0 {
		return Healthy("memory stats unavailable")
	}

	ratio := float64(stats.Alloc) / float64(budget)
	details := map[string]any{
		"alloc_bytes":   stats.Alloc,
		"budget_bytes":  budget,
		"usage_percent": ratio * 100,
		"heap_objects":  stats.HeapObjects,
		"num_gc":        stats.NumGC,
		"goroutines":    runtime.NumGoroutine(),
	}

	switch {
	case ratio >= m.config.CriticalThreshold:
		return Unhealthy(fmt.Sprintf("memory usage critical: %.1f%%", ratio*100), ErrCheckFailed).
			WithDetails(details)
	case ratio >= m.config.WarningThreshold:
		return Degraded(fmt.Sprintf("memory usage high: %.1f%%", ratio*100)).
			WithDetails(details)
	default:
		return Healthy(fmt.Sprintf("memory usage normal: %.1f%%", ratio*100)).
			WithDetails(details)
	}
}
