package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/felixgeelhaar/fortify/ratelimit"

	"github.com/felixgeelhaar/goap-go/infrastructure/logging"
)

// ErrRateLimited is returned when a tool call exceeds the configured rate.
var ErrRateLimited = errors.New("tool call rate limit exceeded")

// Middleware wraps a tool handler. The tool name is passed so one middleware
// instance can serve every tool.
type Middleware func(tool string, next Handler) Handler

// RateLimitScope determines how calls are grouped into buckets.
type RateLimitScope string

const (
	// ScopeGlobal shares one bucket across all tools.
	ScopeGlobal RateLimitScope = "global"
	// ScopePerTool gives each tool its own bucket.
	ScopePerTool RateLimitScope = "per_tool"
)

// RateLimitConfig configures RateLimit.
type RateLimitConfig struct {
	// Limiter overrides the token bucket built from Rate and Burst.
	Limiter ratelimit.RateLimiter

	Scope RateLimitScope

	// Rate is the number of calls admitted per second.
	Rate int

	// Burst is the bucket capacity. Defaults to Rate.
	Burst int

	// FailOpen admits calls when the limiter itself fails.
	FailOpen bool
}

// RateLimit returns middleware that rejects calls over the configured rate
// with ErrRateLimited.
func RateLimit(cfg RateLimitConfig) Middleware {
	limiter := cfg.Limiter
	if limiter == nil {
		rate := cfg.Rate
		if rate <= 0 {
			rate = 100
		}
		burst := cfg.Burst
		if burst <= 0 {
			burst = rate
		}
		limiter = ratelimit.New(&ratelimit.Config{
			Rate:     rate,
			Burst:    burst,
			FailOpen: cfg.FailOpen,
		})
	}

	scope := cfg.Scope
	if scope == "" {
		scope = ScopeGlobal
	}

	return func(tool string, next Handler) Handler {
		key := "global"
		if scope == ScopePerTool {
			key = tool
		}
		return func(ctx context.Context, input json.RawMessage) (string, error) {
			if !limiter.Allow(ctx, key) {
				logging.Warn().
					Add(logging.Component("mcp")).
					Add(logging.Str("tool", tool)).
					Add(logging.Str("scope", string(scope))).
					Msg("rate limit exceeded")
				return "", ErrRateLimited
			}
			return next(ctx, input)
		}
	}
}
