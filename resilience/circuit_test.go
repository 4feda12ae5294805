package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

var errBackendDown = errors.New("backend unavailable")

func failingOp(ctx context.Context) error { return errBackendDown }
func okOp(ctx context.Context) error      { return nil }

func openBreaker(t *testing.T, cb *CircuitBreaker, failures int) {
	t.Helper()
	for i := 0; i < failures; i++ {
		_ = cb.Execute(context.Background(), failingOp)
	}
	if cb.State() != StateOpen {
		t.Fatalf("State() = %v after %d failures, want open", cb.State(), failures)
	}
}

func TestCircuitBreaker_OpensAtThreshold(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 3, ResetTimeout: time.Minute})

	for i := 0; i < 2; i++ {
		_ = cb.Execute(context.Background(), failingOp)
		if cb.State() != StateClosed {
			t.Fatalf("State() = %v after %d failures, want closed", cb.State(), i+1)
		}
	}

	_ = cb.Execute(context.Background(), failingOp)
	if cb.State() != StateOpen {
		t.Errorf("State() = %v at threshold, want open", cb.State())
	}

	if err := cb.Execute(context.Background(), okOp); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Execute() while open error = %v, want ErrCircuitOpen", err)
	}
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 2, ResetTimeout: time.Minute})

	_ = cb.Execute(context.Background(), failingOp)
	_ = cb.Execute(context.Background(), okOp)
	_ = cb.Execute(context.Background(), failingOp)

	if cb.State() != StateClosed {
		t.Errorf("State() = %v, want closed (failures are not consecutive)", cb.State())
	}
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:  1,
		ResetTimeout: 10 * time.Millisecond,
	})
	openBreaker(t, cb, 1)

	time.Sleep(15 * time.Millisecond)
	if cb.State() != StateHalfOpen {
		t.Fatalf("State() = %v after reset timeout, want half-open", cb.State())
	}

	if err := cb.Execute(context.Background(), okOp); err != nil {
		t.Fatalf("probe Execute() error = %v", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("State() = %v after successful probe, want closed", cb.State())
	}
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:  1,
		ResetTimeout: 10 * time.Millisecond,
	})
	openBreaker(t, cb, 1)

	time.Sleep(15 * time.Millisecond)
	_ = cb.Execute(context.Background(), failingOp)

	if cb.State() != StateOpen {
		t.Errorf("State() = %v after failed probe, want open", cb.State())
	}
}

func TestCircuitBreaker_HalfOpenProbeBudget(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:         1,
		ResetTimeout:        10 * time.Millisecond,
		HalfOpenMaxRequests: 1,
	})
	openBreaker(t, cb, 1)
	time.Sleep(15 * time.Millisecond)

	release := make(chan struct{})
	go func() {
		_ = cb.Execute(context.Background(), func(ctx context.Context) error {
			<-release
			return nil
		})
	}()
	time.Sleep(5 * time.Millisecond)

	// The single probe slot is taken; further calls are rejected.
	if err := cb.Execute(context.Background(), okOp); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Execute() over probe budget error = %v, want ErrCircuitOpen", err)
	}
	close(release)
}

func TestCircuitBreaker_OnStateChange(t *testing.T) {
	var mu sync.Mutex
	var transitions []string

	cb := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:  1,
		ResetTimeout: time.Minute,
		OnStateChange: func(from, to State) {
			mu.Lock()
			transitions = append(transitions, from.String()+"->"+to.String())
			mu.Unlock()
		},
	})

	_ = cb.Execute(context.Background(), failingOp)
	cb.Reset()

	mu.Lock()
	defer mu.Unlock()
	want := []string{"closed->open", "open->closed"}
	if len(transitions) != len(want) {
		t.Fatalf("transitions = %v, want %v", transitions, want)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Errorf("transitions[%d] = %q, want %q", i, transitions[i], want[i])
		}
	}
}

func TestCircuitBreaker_IsFailureFilter(t *testing.T) {
	benign := errors.New("no results")
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:  1,
		ResetTimeout: time.Minute,
		IsFailure:    func(err error) bool { return err != nil && !errors.Is(err, benign) },
	})

	_ = cb.Execute(context.Background(), func(ctx context.Context) error { return benign })
	if cb.State() != StateClosed {
		t.Errorf("State() = %v, want closed (filtered error should not count)", cb.State())
	}
}

func TestCircuitBreaker_Metrics(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 5, ResetTimeout: time.Minute})

	_ = cb.Execute(context.Background(), okOp)
	_ = cb.Execute(context.Background(), failingOp)

	m := cb.Metrics()
	if m.State != StateClosed {
		t.Errorf("Metrics().State = %v, want closed", m.State)
	}
	if m.Failures != 1 {
		t.Errorf("Metrics().Failures = %d, want 1", m.Failures)
	}
	if m.LastFailure.IsZero() {
		t.Error("Metrics().LastFailure is zero after a failure")
	}
}

func TestCircuitBreaker_Concurrent(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 1000, ResetTimeout: time.Minute})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if (n+j)%2 == 0 {
					_ = cb.Execute(context.Background(), okOp)
				} else {
					_ = cb.Execute(context.Background(), failingOp)
				}
				_ = cb.State()
			}
		}(i)
	}
	wg.Wait()

	if cb.State() != StateClosed {
		t.Errorf("State() = %v, want closed (threshold never reached)", cb.State())
	}
}
