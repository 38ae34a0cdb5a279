package resilience

import "time"

// Option configures the executor.
type Option func(*ExecutorConfig)

// WithMaxConcurrent sets the maximum concurrent executions.
func WithMaxConcurrent(n int) Option {
	return func(c *ExecutorConfig) {
		c.MaxConcurrent = n
	}
}

// WithMaxQueue sets how many callers may wait for a slot.
func WithMaxQueue(n int) Option {
	return func(c *ExecutorConfig) {
		c.MaxQueue = n
	}
}

// WithTimeout sets the per-execution timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *ExecutorConfig) {
		c.Timeout = d
	}
}

// JournalOption configures a RetryingStore.
type JournalOption func(*JournalConfig)

// WithRetryAttempts sets the maximum retry attempts.
func WithRetryAttempts(n int) JournalOption {
	return func(c *JournalConfig) {
		c.RetryMaxAttempts = n
	}
}

// WithRetryDelay sets the initial retry delay.
func WithRetryDelay(d time.Duration) JournalOption {
	return func(c *JournalConfig) {
		c.RetryInitialDelay = d
	}
}

// WithCircuitBreakerThreshold sets the failure threshold for circuit breaker.
func WithCircuitBreakerThreshold(n int) JournalOption {
	return func(c *JournalConfig) {
		c.CircuitBreakerThreshold = n
	}
}

// WithCircuitBreakerTimeout sets the circuit breaker open duration.
func WithCircuitBreakerTimeout(d time.Duration) JournalOption {
	return func(c *JournalConfig) {
		c.CircuitBreakerTimeout = d
	}
}
