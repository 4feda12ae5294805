package resilience

import (
	"context"
	"sync"
	"time"
)

// BulkheadConfig configures the concurrency limiter.
type BulkheadConfig struct {
	// MaxConcurrent is the number of operations admitted at once.
	// Default: 10
	MaxConcurrent int

	// MaxWait bounds how long Acquire blocks for a free slot.
	// Default: 0 (reject immediately when full)
	MaxWait time.Duration
}

// Bulkhead caps concurrent operations with a buffered-channel semaphore.
// Rejections are counted so saturation shows up in metrics rather than
// only as caller errors.
type Bulkhead struct {
	config BulkheadConfig
	slots  chan struct{}

	mu        sync.Mutex
	active    int
	maxActive int
	rejected  int64
}

// BulkheadMetrics is a point-in-time snapshot of bulkhead usage.
type BulkheadMetrics struct {
	Active        int
	MaxActive     int
	Available     int
	MaxConcurrent int
	Rejected      int64
}

// NewBulkhead creates a concurrency limiter.
func NewBulkhead(config BulkheadConfig) *Bulkhead {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 10
	}
	return &Bulkhead{
		config: config,
		slots:  make(chan struct{}, config.MaxConcurrent),
	}
}

// Acquire claims a slot, blocking up to MaxWait when the bulkhead is
// full. Returns ErrBulkheadFull when no slot frees up in time.
func (b *Bulkhead) Acquire(ctx context.Context) error {
	select {
	case b.slots <- struct{}{}:
		b.admitted()
		return nil
	default:
	}

	if b.config.MaxWait <= 0 {
		b.reject()
		return ErrBulkheadFull
	}

	timer := time.NewTimer(b.config.MaxWait)
	defer timer.Stop()

	select {
	case b.slots <- struct{}{}:
		b.admitted()
		return nil
	case <-timer.C:
		b.reject()
		return ErrBulkheadFull
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a previously acquired slot.
func (b *Bulkhead) Release() {
	select {
	case <-b.slots:
		b.mu.Lock()
		b.active--
		b.mu.Unlock()
	default:
		// Release without a matching Acquire; nothing to free.
	}
}

// Execute runs op inside one slot.
func (b *Bulkhead) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := b.Acquire(ctx); err != nil {
		return err
	}
	defer b.Release()
	return op(ctx)
}

// Metrics returns the current usage snapshot.
func (b *Bulkhead) Metrics() BulkheadMetrics {
	b.mu.Lock()
	defer b.mu.Unlock()

	return BulkheadMetrics{
		Active:        b.active,
		MaxActive:     b.maxActive,
		Available:     b.config.MaxConcurrent - b.active,
		MaxConcurrent: b.config.MaxConcurrent,
		Rejected:      b.rejected,
	}
}

func (b *Bulkhead) admitted() {
	b.mu.Lock()
	b.active++
	if b.active > b.maxActive {
		b.maxActive = b.active
	}
	b.mu.Unlock()
}

func (b *Bulkhead) reject() {
	b.mu.Lock()
	b.rejected++
	b.mu.Unlock()
}
