// Package dispatch runs notification jobs concurrently with independent
// failure capture. One channel failing never prevents another's delivery and
// never changes an already-determined acceptance.
package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// defaultOptionalTimeout bounds optional jobs after they detach from the
// request context
const defaultOptionalTimeout = 15 * time.Second

// Job is one notification delivery unit
type Job struct {
	// Name identifies the job in logs
	Name string
	// Mandatory jobs are awaited before Dispatch returns; optional jobs are
	// fire-and-forget with their outcome logged when they finish
	Mandatory bool
	// Run performs the delivery
	Run func(ctx context.Context) error
}

// Result captures a single mandatory job's outcome
type Result struct {
	Name string
	Err  error
}

// Dispatcher executes notification jobs
type Dispatcher struct {
	optionalTimeout time.Duration
}

// Option configures the Dispatcher
type Option func(*Dispatcher)

// WithOptionalTimeout overrides the detached-job timeout
func WithOptionalTimeout(d time.Duration) Option {
	return func(dp *Dispatcher) {
		if d > 0 {
			dp.optionalTimeout = d
		}
	}
}

// New creates a Dispatcher
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		optionalTimeout: defaultOptionalTimeout,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Dispatch starts every job concurrently and returns once all mandatory jobs
// have finished, with one Result per mandatory job. Optional jobs keep
// running on a context detached from the caller so a client disconnect or
// the response being written does not cancel them.
func (d *Dispatcher) Dispatch(ctx context.Context, jobs []Job) []Result {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []Result
	)

	for _, job := range jobs {
		if job.Mandatory {
			wg.Add(1)

			go func(j Job) {
				defer wg.Done()

				err := d.run(ctx, j)

				mu.Lock()
				results = append(results, Result{Name: j.Name, Err: err})
				mu.Unlock()
			}(job)

			continue
		}

		go func(j Job) {
			detached, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.optionalTimeout)
			defer cancel()

			_ = d.run(detached, j)
		}(job)
	}

	wg.Wait()

	return results
}

// run executes one job and logs its outcome
func (d *Dispatcher) run(ctx context.Context, j Job) error {
	if err := j.Run(ctx); err != nil {
		log.Error().Err(err).Str("job", j.Name).Msg("notification delivery failed")

		return err
	}

	log.Debug().Str("job", j.Name).Msg("notification delivered")

	return nil
}
