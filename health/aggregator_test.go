package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

func staticChecker(name string, result Result) Checker {
	return NewCheckerFunc(name, func(ctx context.Context) Result { return result })
}

func TestAggregator_RegisterOrder(t *testing.T) {
	agg := NewAggregator()
	agg.Register("cache", staticChecker("cache", Healthy("ok")))
	agg.Register("adapter", staticChecker("adapter", Healthy("ok")))
	agg.Register("memory", staticChecker("memory", Healthy("ok")))

	want := []string{"cache", "adapter", "memory"}
	got := agg.CheckerNames()
	if len(got) != len(want) {
		t.Fatalf("CheckerNames() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("CheckerNames()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	// Re-registering keeps the original slot.
	agg.Register("cache", staticChecker("cache", Degraded("pressure")))
	if names := agg.CheckerNames(); len(names) != 3 || names[0] != "cache" {
		t.Errorf("after re-register CheckerNames() = %v", names)
	}

	agg.Unregister("adapter")
	if names := agg.CheckerNames(); len(names) != 2 || names[1] != "memory" {
		t.Errorf("after unregister CheckerNames() = %v", names)
	}
}

func TestAggregator_CheckUnknown(t *testing.T) {
	agg := NewAggregator()
	if _, err := agg.Check(context.Background(), "nope"); !errors.Is(err, ErrCheckerNotFound) {
		t.Errorf("Check(unknown) err = %v, want ErrCheckerNotFound", err)
	}
}

func TestAggregator_CheckAll(t *testing.T) {
	for _, parallel := range []bool{true, false} {
		agg := NewAggregator(AggregatorConfig{Timeout: time.Second, Parallel: parallel})
		agg.Register("cache", staticChecker("cache", Healthy("warm")))
		agg.Register("redis", staticChecker("redis", Unhealthy("down", ErrCheckFailed)))

		results := agg.CheckAll(context.Background())
		if len(results) != 2 {
			t.Fatalf("parallel=%v: CheckAll() returned %d results, want 2", parallel, len(results))
		}
		if results["cache"].Status != StatusHealthy {
			t.Errorf("parallel=%v: cache status = %v, want healthy", parallel, results["cache"].Status)
		}
		if results["redis"].Status != StatusUnhealthy {
			t.Errorf("parallel=%v: redis status = %v, want unhealthy", parallel, results["redis"].Status)
		}
		if results["cache"].Duration < 0 {
			t.Errorf("parallel=%v: duration not stamped", parallel)
		}
	}
}

func TestAggregator_CheckAllEmpty(t *testing.T) {
	agg := NewAggregator()
	if results := agg.CheckAll(context.Background()); len(results) != 0 {
		t.Errorf("CheckAll() on empty aggregator = %v, want empty", results)
	}
	if status := agg.OverallStatus(nil); status != StatusHealthy {
		t.Errorf("OverallStatus(nil) = %v, want healthy", status)
	}
}

func TestAggregator_SlowCheckerTimesOut(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{Timeout: 20 * time.Millisecond, Parallel: true})
	agg.Register("stuck", NewCheckerFunc("stuck", func(ctx context.Context) Result {
		select {
		case <-time.After(time.Second):
			return Healthy("too late")
		case <-ctx.Done():
			<-time.After(time.Second)
			return Healthy("too late")
		}
	}))

	results := agg.CheckAll(context.Background())
	got := results["stuck"]
	if got.Status != StatusUnhealthy {
		t.Errorf("stuck checker status = %v, want unhealthy", got.Status)
	}
	if !errors.Is(got.Error, ErrCheckTimeout) {
		t.Errorf("stuck checker error = %v, want ErrCheckTimeout", got.Error)
	}
}

func TestAggregator_OverallStatus(t *testing.T) {
	agg := NewAggregator()
	tests := []struct {
		name    string
		results map[string]Result
		want    Status
	}{
		{"all healthy", map[string]Result{
			"a": Healthy(""), "b": Healthy(""),
		}, StatusHealthy},
		{"one degraded", map[string]Result{
			"a": Healthy(""), "b": Degraded(""),
		}, StatusDegraded},
		{"unhealthy wins", map[string]Result{
			"a": Degraded(""), "b": Unhealthy("", nil),
		}, StatusUnhealthy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := agg.OverallStatus(tt.results); got != tt.want {
				t.Errorf("OverallStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAggregator_CompositeChecker(t *testing.T) {
	agg := NewAggregator()
	agg.Register("cache", staticChecker("cache", Healthy("warm")))
	agg.Register("adapter", staticChecker("adapter", Degraded("breaker half-open")))

	composite := agg.Checker()
	if composite.Name() != "aggregate" {
		t.Errorf("Name() = %q, want %q", composite.Name(), "aggregate")
	}

	result := composite.Check(context.Background())
	if result.Status != StatusDegraded {
		t.Errorf("composite status = %v, want degraded", result.Status)
	}
	if result.Message != "some checks degraded" {
		t.Errorf("composite message = %q", result.Message)
	}
	if len(result.Details) != 2 {
		t.Errorf("composite details = %v, want entries for both checkers", result.Details)
	}
}
