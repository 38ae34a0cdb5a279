package resilience

import (
	"context"
	"time"

	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/felixgeelhaar/fortify/retry"

	"github.com/felixgeelhaar/goap-go/domain/journal"
)

// JournalConfig configures a RetryingStore.
type JournalConfig struct {
	// RetryMaxAttempts is the maximum number of attempts per append.
	RetryMaxAttempts int

	// RetryInitialDelay is the initial delay between retries.
	RetryInitialDelay time.Duration

	// RetryBackoffMultiplier is the exponential backoff multiplier.
	RetryBackoffMultiplier float64

	// CircuitBreakerThreshold is the number of consecutive failed appends
	// before the breaker opens.
	CircuitBreakerThreshold int

	// CircuitBreakerTimeout is how long the circuit stays open.
	CircuitBreakerTimeout time.Duration
}

// DefaultJournalConfig returns a configuration with sensible defaults.
func DefaultJournalConfig() JournalConfig {
	return JournalConfig{
		RetryMaxAttempts:        3,
		RetryInitialDelay:       10 * time.Millisecond,
		RetryBackoffMultiplier:  2.0,
		CircuitBreakerThreshold: 5,
		CircuitBreakerTimeout:   30 * time.Second,
	}
}

// RetryingStore decorates a journal store so appends are retried with
// exponential backoff behind a circuit breaker. Reads and queries pass
// straight through.
type RetryingStore struct {
	next    journal.Store
	breaker circuitbreaker.CircuitBreaker[struct{}]
	retry   retry.Retry[struct{}]
}

// NewRetryingStore wraps next.
func NewRetryingStore(next journal.Store, config JournalConfig) *RetryingStore {
	threshold := config.CircuitBreakerThreshold
	if threshold <= 0 {
		threshold = DefaultJournalConfig().CircuitBreakerThreshold
	}
	attempts := config.RetryMaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	return &RetryingStore{
		next: next,
		breaker: circuitbreaker.New[struct{}](circuitbreaker.Config{
			MaxRequests: 1,
			Interval:    config.CircuitBreakerTimeout,
			Timeout:     config.CircuitBreakerTimeout,
			ReadyToTrip: func(counts circuitbreaker.Counts) bool {
				return counts.ConsecutiveFailures >= uint32(threshold) // #nosec G115 -- positive, checked above
			},
		}),
		retry: retry.New[struct{}](retry.Config{
			MaxAttempts:   attempts,
			InitialDelay:  config.RetryInitialDelay,
			BackoffPolicy: retry.BackoffExponential,
			Multiplier:    config.RetryBackoffMultiplier,
		}),
	}
}

// NewRetryingStoreWithOptions wraps next using DefaultJournalConfig plus opts.
func NewRetryingStoreWithOptions(next journal.Store, opts ...JournalOption) *RetryingStore {
	config := DefaultJournalConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return NewRetryingStore(next, config)
}

// Append implements journal.Store.
func (s *RetryingStore) Append(ctx context.Context, entries ...journal.Entry) error {
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return err
		}
	}

	_, err := s.breaker.Execute(ctx, func(ctx context.Context) (struct{}, error) {
		return s.retry.Do(ctx, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.next.Append(ctx, entries...)
		})
	})
	return err
}

// Load implements journal.Store.
func (s *RetryingStore) Load(ctx context.Context, episodeID string) ([]journal.Entry, error) {
	return s.next.Load(ctx, episodeID)
}

// LoadFrom implements journal.Store.
func (s *RetryingStore) LoadFrom(ctx context.Context, episodeID string, fromSeq uint64) ([]journal.Entry, error) {
	return s.next.LoadFrom(ctx, episodeID, fromSeq)
}

// Count implements journal.Querier when the decorated store does.
func (s *RetryingStore) Count(ctx context.Context, episodeID string) (int64, error) {
	q, ok := s.next.(journal.Querier)
	if !ok {
		return 0, journal.ErrNotQueryable
	}
	return q.Count(ctx, episodeID)
}

// ListEpisodes implements journal.Querier when the decorated store does.
func (s *RetryingStore) ListEpisodes(ctx context.Context) ([]string, error) {
	q, ok := s.next.(journal.Querier)
	if !ok {
		return nil, journal.ErrNotQueryable
	}
	return q.ListEpisodes(ctx)
}

// CircuitBreakerState returns the current state of the circuit breaker.
func (s *RetryingStore) CircuitBreakerState() circuitbreaker.State {
	return s.breaker.State()
}

// Unwrap returns the decorated store.
func (s *RetryingStore) Unwrap() journal.Store {
	return s.next
}

var (
	_ journal.Store   = (*RetryingStore)(nil)
	_ journal.Querier = (*RetryingStore)(nil)
)
