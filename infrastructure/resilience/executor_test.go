package resilience

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/felixgeelhaar/fortify/ferrors"
)

func TestDefaultExecutorConfig(t *testing.T) {
	t.Parallel()

	config := DefaultExecutorConfig()
	if config.MaxConcurrent != 4 {
		t.Errorf("MaxConcurrent = %d, want 4", config.MaxConcurrent)
	}
	if config.Timeout != 0 {
		t.Errorf("Timeout = %v, want 0", config.Timeout)
	}
}

func TestNewExecutor_NonPositiveUsesDefault(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, -3} {
		e := NewExecutor[int](ExecutorConfig{MaxConcurrent: n})
		if e.MaxConcurrent() != 4 {
			t.Errorf("MaxConcurrent(%d) = %d, want 4", n, e.MaxConcurrent())
		}
	}
}

func TestExecutor_Execute(t *testing.T) {
	t.Parallel()

	e := NewExecutorWithOptions[string](WithMaxConcurrent(2))

	got, err := e.Execute(context.Background(), func(context.Context) (string, error) {
		return "patrol", nil
	})
	if err != nil || got != "patrol" {
		t.Errorf("Execute() = %q, %v", got, err)
	}

	boom := errors.New("boom")
	if _, err := e.Execute(context.Background(), func(context.Context) (string, error) {
		return "", boom
	}); !errors.Is(err, boom) {
		t.Errorf("Execute() error = %v, want boom", err)
	}
}

func TestExecutor_Timeout(t *testing.T) {
	t.Parallel()

	e := NewExecutorWithOptions[bool](WithTimeout(time.Minute))

	hasDeadline, err := e.Execute(context.Background(), func(ctx context.Context) (bool, error) {
		_, ok := ctx.Deadline()
		return ok, nil
	})
	if err != nil || !hasDeadline {
		t.Errorf("Execute() deadline = %v, %v", hasDeadline, err)
	}
}

func TestExecutor_BoundedWorkers(t *testing.T) {
	t.Parallel()

	const limit = 3
	e := NewExecutor[int](ExecutorConfig{MaxConcurrent: limit})

	var running, peak atomic.Int32
	var wg sync.WaitGroup
	for i := range limit {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.Execute(context.Background(), func(context.Context) (int, error) {
				n := running.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				running.Add(-1)
				return i, nil
			})
			if err != nil {
				t.Errorf("Execute() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if peak.Load() > limit {
		t.Errorf("peak concurrency = %d, want <= %d", peak.Load(), limit)
	}
}

func TestExecutor_Queue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		maxQueue int
		wantFull int
	}{
		{name: "queue absorbs overflow", maxQueue: 3, wantFull: 0},
		{name: "no queue rejects overflow", maxQueue: 0, wantFull: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := NewExecutorWithOptions[int](WithMaxConcurrent(1), WithMaxQueue(tt.maxQueue))

			release := make(chan struct{})
			holding := make(chan struct{})
			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = e.Execute(context.Background(), func(context.Context) (int, error) {
					close(holding)
					<-release
					return 0, nil
				})
			}()
			<-holding

			var full, done atomic.Int32
			for i := range 3 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := e.Execute(context.Background(), func(context.Context) (int, error) {
						return i, nil
					})
					switch {
					case errors.Is(err, ferrors.ErrBulkheadFull):
						full.Add(1)
					case err == nil:
						done.Add(1)
					default:
						t.Errorf("Execute() error = %v", err)
					}
				}()
			}

			// Rejections are immediate; queued callers wait for the slot.
			if tt.wantFull > 0 {
				deadline := time.After(time.Second)
				for full.Load() < int32(tt.wantFull) {
					select {
					case <-deadline:
						t.Fatalf("rejections = %d, want %d", full.Load(), tt.wantFull)
					case <-time.After(time.Millisecond):
					}
				}
			}
			close(release)
			wg.Wait()
			_ = e.Close()

			if got := int(full.Load()); got != tt.wantFull {
				t.Errorf("rejections = %d, want %d", got, tt.wantFull)
			}
			if got := int(done.Load()); got != 3-tt.wantFull {
				t.Errorf("completed = %d, want %d", got, 3-tt.wantFull)
			}
		})
	}
}

func TestExecutor_CancelledContextSkipsWork(t *testing.T) {
	t.Parallel()

	e := NewExecutor[int](ExecutorConfig{MaxConcurrent: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	if _, err := e.Execute(ctx, func(context.Context) (int, error) {
		called = true
		return 0, nil
	}); !errors.Is(err, context.Canceled) {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
	if called {
		t.Error("fn ran with a cancelled context")
	}
}
