package adapter_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/genforge/svcruntime/adapter"
	"github.com/genforge/svcruntime/cache"
	"github.com/genforge/svcruntime/fault"
	"github.com/genforge/svcruntime/health"
	"github.com/genforge/svcruntime/resilience"
)

// coverageOp computes coverage summaries for a set of source files. It
// derives its cache key from the canonical input so equal requests share
// one cache slot.
type coverageOp struct {
	unavailable bool
}

func (o *coverageOp) ValidateInput(raw any) (any, error) {
	input, ok := raw.(map[string]any)
	if !ok || input["files"] == nil {
		return nil, errors.New("files is a required field")
	}
	return input, nil
}

func (o *coverageOp) CacheKey(input any) (string, error) {
	return adapter.DeriveCacheKey("coverage", input)
}

func (o *coverageOp) TTL() time.Duration { return 5 * time.Minute }

func (o *coverageOp) Execute(ctx context.Context, input any, inv adapter.Invocation) (any, error) {
	if o.unavailable {
		return nil, errors.New("coverage backend: connection refused")
	}
	files := input.(map[string]any)["files"].([]any)
	return map[string]any{"files": len(files), "covered": 0.82}, nil
}

func (o *coverageOp) TransformOutput(raw any) (any, error) { return raw, nil }

func (o *coverageOp) DefaultResult(input any) (any, error) {
	return map[string]any{"files": 0, "covered": 0.0}, nil
}

func Example() {
	mgr := cache.NewManager(cache.Options{CleanupInterval: time.Hour})
	defer mgr.Stop()

	handler := fault.NewHandler(fault.Config{
		CircuitBreaker: resilience.CircuitBreakerConfig{
			MaxFailures:  5,
			ResetTimeout: 30 * time.Second,
		},
	})

	op := &coverageOp{}
	a, err := adapter.New(op, adapter.Config{
		Name:             "coverage",
		EnableFallback:   true,
		FallbackStrategy: adapter.FallbackDefault,
		OperationTimeout: 10 * time.Second,
	}, adapter.Deps{Cache: mgr, Handler: handler})
	if err != nil {
		fmt.Println("setup:", err)
		return
	}

	ctx := context.Background()
	input := map[string]any{"files": []any{"a.go", "b.go"}}

	result, err := a.Execute(ctx, input, adapter.Invocation{})
	if err != nil {
		fmt.Println("execute:", err)
		return
	}
	fmt.Println("covered:", result.(map[string]any)["covered"])

	// The backend goes down; the default result keeps callers served.
	op.unavailable = true
	degraded, err := a.Execute(ctx, map[string]any{"files": []any{"c.go"}}, adapter.Invocation{})
	if err != nil {
		fmt.Println("execute:", err)
		return
	}
	fmt.Println("degraded covered:", degraded.(map[string]any)["covered"])

	// Output:
	// covered: 0.82
	// degraded covered: 0
}

func ExampleAdapter_Checker() {
	mgr := cache.NewManager(cache.Options{CleanupInterval: time.Hour})
	defer mgr.Stop()

	handler := fault.NewHandler(fault.Config{})
	a, err := adapter.New(&coverageOp{}, adapter.Config{Name: "coverage"},
		adapter.Deps{Cache: mgr, Handler: handler})
	if err != nil {
		fmt.Println("setup:", err)
		return
	}

	agg := health.NewAggregator()
	agg.Register("cache", mgr.Checker())
	agg.Register("coverage", a.Checker())

	results := agg.CheckAll(context.Background())
	fmt.Println("overall:", agg.OverallStatus(results))
	// Output:
	// overall: healthy
}
