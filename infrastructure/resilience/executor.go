// Package resilience provides resilient execution patterns using fortify.
package resilience

import (
	"context"
	"time"

	"github.com/felixgeelhaar/fortify/bulkhead"
)

// Executor bounds concurrent work with a bulkhead and an optional per-call
// timeout.
type Executor[T any] struct {
	bulkhead      bulkhead.Bulkhead[T]
	maxConcurrent int
	timeout       time.Duration
}

// ExecutorConfig configures an Executor.
type ExecutorConfig struct {
	// MaxConcurrent limits concurrent executions.
	MaxConcurrent int

	// MaxQueue is how many callers may wait for a slot. Zero rejects callers
	// with ErrBulkheadFull once MaxConcurrent are running.
	MaxQueue int

	// Timeout bounds each execution. Zero means no timeout.
	Timeout time.Duration
}

// DefaultExecutorConfig returns a configuration with sensible defaults.
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		MaxConcurrent: 4,
	}
}

// NewExecutor creates a new executor.
func NewExecutor[T any](config ExecutorConfig) *Executor[T] {
	maxConcurrent := config.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultExecutorConfig().MaxConcurrent
	}

	return &Executor[T]{
		bulkhead: bulkhead.New[T](bulkhead.Config{
			MaxConcurrent: maxConcurrent,
			MaxQueue:      max(config.MaxQueue, 0),
		}),
		maxConcurrent: maxConcurrent,
		timeout:       config.Timeout,
	}
}

// NewExecutorWithOptions creates an executor with the given options.
func NewExecutorWithOptions[T any](opts ...Option) *Executor[T] {
	config := DefaultExecutorConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return NewExecutor[T](config)
}

// Execute runs fn inside the bulkhead, waiting in the queue when every slot
// is taken. A cancelled ctx never reaches fn.
func (e *Executor[T]) Execute(ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}
	return e.bulkhead.Execute(ctx, func(ctx context.Context) (T, error) {
		if e.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, e.timeout)
			defer cancel()
		}
		return fn(ctx)
	})
}

// Close stops the bulkhead's queue worker. Callers must wait for in-flight
// Execute calls first.
func (e *Executor[T]) Close() error {
	return e.bulkhead.Close()
}

// MaxConcurrent returns the effective concurrency limit.
func (e *Executor[T]) MaxConcurrent() int {
	return e.maxConcurrent
}
