package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Status is the terminal status of a tool invocation.
type Status string

const (
	// StatusSuccess means the core operation ran and succeeded.
	StatusSuccess Status = "success"
	// StatusCached means the result was served from cache.
	StatusCached Status = "cached"
	// StatusDegraded means a fallback produced the result.
	StatusDegraded Status = "degraded"
	// StatusPartial means a fallback produced a best-effort subset.
	StatusPartial Status = "partial"
	// StatusFailed means the invocation raised an error.
	StatusFailed Status = "failed"
)

// Call identifies one tool invocation for the execution log.
type Call struct {
	Tool      ToolMeta
	RequestID string
	SessionID string
	TraceID   string
}

// Execution is the per-invocation metrics record. It is mutated in place
// by the caller between LogStart and LogComplete/LogError, and frozen into
// an immutable Record once handed back to the recorder.
type Execution struct {
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	CacheHit   bool
	ErrorCount int

	span trace.Span
}

// Record is a frozen execution history entry.
type Record struct {
	Tool       string
	Operation  string
	RequestID  string
	Status     Status
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	CacheHit   bool
	ErrorCount int
	Error      string
}

// ToolMetrics aggregates the execution log for one tool (or all tools).
// Rates are recomputed from the running totals on read.
type ToolMetrics struct {
	Invocations  int64
	Successes    int64
	Failures     int64
	CacheHits    int64
	SuccessRate  float64
	CacheHitRate float64
	AvgDuration  time.Duration
}

// Recorder is the execution metrics/logging sink the adapters call at each
// invocation lifecycle point.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: recording is best-effort and never affects control flow; the
//   only value the caller depends on is the returned Execution handle.
type Recorder interface {
	// LogStart records the start of an invocation and returns the context
	// (carrying the invocation span) and the mutable execution handle.
	LogStart(ctx context.Context, call Call) (context.Context, *Execution)

	// LogComplete records a successful terminal status.
	LogComplete(ctx context.Context, call Call, exec *Execution, status Status)

	// LogError records a failed invocation.
	LogError(ctx context.Context, call Call, exec *Execution, err error)

	// LogWarning records an absorbed internal fault (cache store failure,
	// fallback engagement, and similar).
	LogWarning(ctx context.Context, call Call, msg string, detail any)

	// Metrics aggregates per-tool counters. An empty tool name aggregates
	// across all tools.
	Metrics(tool string) ToolMetrics

	// History returns up to limit frozen records, newest first. An empty
	// tool name returns records for all tools; limit <= 0 returns all
	// retained records.
	History(tool string, limit int) []Record
}

// RecorderConfig configures a recorder.
type RecorderConfig struct {
	// MaxHistory bounds the retained execution history.
	// Default: 256
	MaxHistory int
}

// recorder is the concrete Recorder backed by the telemetry primitives.
type recorder struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger

	maxHistory int

	mu      sync.Mutex
	aggs    map[string]*toolAgg
	history []Record
}

type toolAgg struct {
	invocations   int64
	successes     int64
	failures      int64
	cacheHits     int64
	totalDuration time.Duration
}

// NewRecorder creates a Recorder from explicit telemetry components.
func NewRecorder(tracer Tracer, metrics Metrics, logger Logger, config ...RecorderConfig) Recorder {
	cfg := RecorderConfig{MaxHistory: 256}
	if len(config) > 0 && config[0].MaxHistory > 0 {
		cfg = config[0]
	}

	return &recorder{
		tracer:     tracer,
		metrics:    metrics,
		logger:     logger,
		maxHistory: cfg.MaxHistory,
		aggs:       make(map[string]*toolAgg),
	}
}

// RecorderFromObserver creates a Recorder from an Observer.
// This is a convenience function for common use cases.
func RecorderFromObserver(obs Observer, config ...RecorderConfig) (Recorder, error) {
	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}
	return NewRecorder(newTracer(obs.Tracer()), metrics, obs.Logger(), config...), nil
}

// NopRecorder returns a recorder that keeps aggregates and history but
// emits no telemetry. Useful for tests.
func NopRecorder() Recorder {
	return NewRecorder(newNoopTracer(), &noopMetrics{}, &noopLogger{})
}

func (r *recorder) LogStart(ctx context.Context, call Call) (context.Context, *Execution) {
	ctx, span := r.tracer.StartSpan(ctx, call.Tool)

	exec := &Execution{
		StartTime: time.Now(),
		span:      span,
	}

	r.logger.WithTool(call.Tool).Debug(ctx, "tool execution started",
		Field{Key: "request_id", Value: call.RequestID})

	return ctx, exec
}

func (r *recorder) LogComplete(ctx context.Context, call Call, exec *Execution, status Status) {
	r.finish(exec)
	if exec.span != nil {
		r.tracer.EndSpan(exec.span, nil)
	}

	r.metrics.RecordExecution(ctx, call.Tool, status, exec.Duration, exec.CacheHit, nil)
	r.record(call, exec, status, nil)

	r.logger.WithTool(call.Tool).Info(ctx, "tool execution completed",
		Field{Key: "status", Value: string(status)},
		Field{Key: "cache_hit", Value: exec.CacheHit},
		Field{Key: "duration_ms", Value: float64(exec.Duration.Milliseconds())},
		Field{Key: "request_id", Value: call.RequestID},
	)
}

func (r *recorder) LogError(ctx context.Context, call Call, exec *Execution, err error) {
	r.finish(exec)
	if exec.span != nil {
		r.tracer.EndSpan(exec.span, err)
	}

	r.metrics.RecordExecution(ctx, call.Tool, StatusFailed, exec.Duration, exec.CacheHit, err)
	r.record(call, exec, StatusFailed, err)

	r.logger.WithTool(call.Tool).Error(ctx, "tool execution failed",
		Field{Key: "error", Value: err.Error()},
		Field{Key: "duration_ms", Value: float64(exec.Duration.Milliseconds())},
		Field{Key: "request_id", Value: call.RequestID},
	)
}

func (r *recorder) LogWarning(ctx context.Context, call Call, msg string, detail any) {
	fields := []Field{{Key: "request_id", Value: call.RequestID}}
	if detail != nil {
		fields = append(fields, Field{Key: "detail", Value: detail})
	}
	r.logger.WithTool(call.Tool).Warn(ctx, msg, fields...)
}

func (r *recorder) Metrics(tool string) ToolMetrics {
	r.mu.Lock()
	defer r.mu.Unlock()

	var total toolAgg
	if tool != "" {
		if agg, ok := r.aggs[tool]; ok {
			total = *agg
		}
	} else {
		for _, agg := range r.aggs {
			total.invocations += agg.invocations
			total.successes += agg.successes
			total.failures += agg.failures
			total.cacheHits += agg.cacheHits
			total.totalDuration += agg.totalDuration
		}
	}

	m := ToolMetrics{
		Invocations: total.invocations,
		Successes:   total.successes,
		Failures:    total.failures,
		CacheHits:   total.cacheHits,
	}
	if total.invocations > 0 {
		m.SuccessRate = float64(total.successes) / float64(total.invocations)
		m.CacheHitRate = float64(total.cacheHits) / float64(total.invocations)
		m.AvgDuration = total.totalDuration / time.Duration(total.invocations)
	}
	return m
}

func (r *recorder) History(tool string, limit int) []Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Newest first.
	out := make([]Record, 0, len(r.history))
	for i := len(r.history) - 1; i >= 0; i-- {
		rec := r.history[i]
		if tool != "" && rec.Tool != tool {
			continue
		}
		out = append(out, rec)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

func (r *recorder) finish(exec *Execution) {
	exec.EndTime = time.Now()
	exec.Duration = exec.EndTime.Sub(exec.StartTime)
}

func (r *recorder) record(call Call, exec *Execution, status Status, err error) {
	rec := Record{
		Tool:       call.Tool.Name,
		Operation:  call.Tool.Operation,
		RequestID:  call.RequestID,
		Status:     status,
		StartTime:  exec.StartTime,
		EndTime:    exec.EndTime,
		Duration:   exec.Duration,
		CacheHit:   exec.CacheHit,
		ErrorCount: exec.ErrorCount,
	}
	if err != nil {
		rec.Error = err.Error()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	agg, ok := r.aggs[rec.Tool]
	if !ok {
		agg = &toolAgg{}
		r.aggs[rec.Tool] = agg
	}
	agg.invocations++
	agg.totalDuration += exec.Duration
	if err != nil {
		agg.failures++
	} else {
		agg.successes++
	}
	if exec.CacheHit {
		agg.cacheHits++
	}

	r.history = append(r.history, rec)
	if len(r.history) > r.maxHistory {
		r.history = r.history[len(r.history)-r.maxHistory:]
	}
}
