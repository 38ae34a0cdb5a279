package application

import (
	"context"
	"strconv"
	"sync"

	"github.com/felixgeelhaar/goap-go/domain/agent"
	"github.com/felixgeelhaar/goap-go/domain/world"
	"github.com/felixgeelhaar/goap-go/infrastructure/logging"
	"github.com/felixgeelhaar/goap-go/infrastructure/resilience"
)

// BatchResult is the outcome of one scenario in a batch.
type BatchResult struct {
	Index   int
	Episode *agent.Episode
	Err     error
}

// RunBatch runs one episode per start state. Every scenario is submitted at
// once to a bulkhead that admits MaxConcurrent episodes and queues the rest.
// Results are returned in input order. Episodes that never started because
// ctx was cancelled carry ctx's error.
func (r *Runner) RunBatch(ctx context.Context, starts []world.State) []BatchResult {
	results := make([]BatchResult, len(starts))
	if len(starts) == 0 {
		return results
	}

	executor := resilience.NewExecutorWithOptions[*agent.Episode](
		resilience.WithMaxConcurrent(r.maxConcurrent),
		resilience.WithMaxQueue(len(starts)),
	)

	var wg sync.WaitGroup
	for i, start := range starts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ep, err := executor.Execute(ctx, func(ctx context.Context) (*agent.Episode, error) {
				return r.RunEpisode(ctx, start)
			})
			results[i] = BatchResult{Index: i, Episode: ep, Err: err}
		}()
	}
	wg.Wait()
	_ = executor.Close()

	logging.Info().
		Add(logging.Component("batch")).
		Add(logging.Count(len(starts))).
		Add(logging.Str("workers", strconv.Itoa(executor.MaxConcurrent()))).
		Msg("batch finished")

	return results
}
