package loadgen

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Observer is notified of run progress. Every method is called from the
// runner's goroutine, never concurrently. Outcomes of a batch are delivered
// together once the whole batch has finished, in request order.
type Observer interface {
	BatchStarted(batch, numBatches, size int)
	Outcome(o Outcome)
	BatchFinished(batch int, took time.Duration)
}

// Runner schedules batches and owns the Statistics of one run.
type Runner struct {
	executor    *Executor
	total       int
	concurrency int
	delay       time.Duration
	observer    Observer

	sleep func(time.Duration)
	now   func() time.Time
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithObserver attaches a progress observer.
func WithObserver(o Observer) RunnerOption {
	return func(r *Runner) {
		r.observer = o
	}
}

// WithSleep replaces time.Sleep for the inter-batch delay.
func WithSleep(sleep func(time.Duration)) RunnerOption {
	return func(r *Runner) {
		r.sleep = sleep
	}
}

// NewRunner creates a runner issuing total requests in batches of at most
// concurrency, pausing delay between batches.
func NewRunner(executor *Executor, total, concurrency int, delay time.Duration, options ...RunnerOption) *Runner {
	r := &Runner{
		executor:    executor,
		total:       total,
		concurrency: concurrency,
		delay:       delay,
		sleep:       time.Sleep,
		now:         time.Now,
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// Run executes every batch and returns the finalized statistics. ctx is
// handed to each request; the run itself has no cancellation point.
func (r *Runner) Run(ctx context.Context) (*Statistics, error) {
	sizes, err := Plan(r.total, r.concurrency)
	if err != nil {
		return nil, fmt.Errorf("failed to plan batches: %w", err)
	}

	stats := NewStatistics()
	stats.Start(r.now())

	for b, size := range sizes {
		if r.observer != nil {
			r.observer.BatchStarted(b, len(sizes), size)
		}

		batchStart := r.now()
		outcomes := r.runBatch(ctx, b, size)
		for _, o := range outcomes {
			stats.Record(o)
			if r.observer != nil {
				r.observer.Outcome(o)
			}
		}

		if r.observer != nil {
			r.observer.BatchFinished(b, r.now().Sub(batchStart))
		}

		if b < len(sizes)-1 && r.delay > 0 {
			r.sleep(r.delay)
		}
	}

	stats.Finish(r.now())
	return stats, nil
}

// runBatch issues size requests at once and waits for all of them.
func (r *Runner) runBatch(ctx context.Context, batch, size int) []Outcome {
	outcomes := make([]Outcome, size)

	var wg sync.WaitGroup
	for i := 0; i < size; i++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			o := r.executor.Execute(ctx, RequestID(batch, size, offset))
			o.Batch = batch
			outcomes[offset] = o
		}(i)
	}
	wg.Wait()

	return outcomes
}
