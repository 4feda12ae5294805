package health

import (
	"context"
	"testing"
)

func TestMemoryChecker_Defaults(t *testing.T) {
	mc := NewMemoryChecker(MemoryCheckerConfig{})
	if mc.config.WarningThreshold != 0.8 {
		t.Errorf("WarningThreshold = %v, want 0.8", mc.config.WarningThreshold)
	}
	if mc.config.CriticalThreshold != 0.95 {
		t.Errorf("CriticalThreshold = %v, want 0.95", mc.config.CriticalThreshold)
	}
	if mc.Name() != "memory" {
		t.Errorf("Name() = %q, want %q", mc.Name(), "memory")
	}
}

func TestMemoryChecker_ClampsInvertedThresholds(t *testing.T) {
	mc := NewMemoryChecker(MemoryCheckerConfig{
		WarningThreshold:  0.9,
		CriticalThreshold: 0.5,
	})
	if mc.config.CriticalThreshold < mc.config.WarningThreshold {
		t.Errorf("CriticalThreshold %v below WarningThreshold %v after clamp",
			mc.config.CriticalThreshold, mc.config.WarningThreshold)
	}
}

func TestMemoryChecker_HealthyUnderBudget(t *testing.T) {
	// A budget far above any plausible test-process heap.
	mc := NewMemoryChecker(MemoryCheckerConfig{MaxAlloc: 1 << 50})

	result := mc.Check(context.Background())
	if result.Status != StatusHealthy {
		t.Errorf("status = %v (%s), want healthy", result.Status, result.Message)
	}
	if result.Details["alloc_bytes"] == nil {
		t.Error("result missing alloc_bytes detail")
	}
}

func TestMemoryChecker_CriticalOverBudget(t *testing.T) {
	// One byte of budget makes any live heap critical.
	mc := NewMemoryChecker(MemoryCheckerConfig{MaxAlloc: 1})

	result := mc.Check(context.Background())
	if result.Status != StatusUnhealthy {
		t.Errorf("status = %v (%s), want unhealthy", result.Status, result.Message)
	}
}

func TestMemoryChecker_CancelledContext(t *testing.T) {
	mc := NewMemoryChecker(MemoryCheckerConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := mc.Check(ctx)
	if result.Status != StatusUnhealthy {
		t.Errorf("status = %v, want unhealthy on cancelled context", result.Status)
	}
}
