package detect

import (
	"context"
	"sync"

	"github.com/thurmanmarka/almagest"
	"github.com/thurmanmarka/almagest/internal/ephem"
	"github.com/thurmanmarka/almagest/pkg/logger"
)

// Runner fans detectors out over a worker pool. Each worker holds its
// own position provider, so detectors never contend on shared state,
// and a failed detector costs only its own results.
type Runner struct {
	workers int
	log     logger.Logger
}

func NewRunner(workers int, log logger.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{workers: workers, log: log.Named("runner")}
}

type taskResult struct {
	name   string
	events []almagest.Event
	err    error
}

// Run executes all detectors over the interval and returns the merged,
// time-ordered, deduplicated event list. Detector failures are logged
// and skipped; Run fails only when the context is cancelled.
func (r *Runner) Run(ctx context.Context, detectors []Detector, iv almagest.Interval) ([]almagest.Event, error) {
	if err := iv.Validate(); err != nil {
		return nil, err
	}

	tasks := make(chan Detector)
	results := make(chan taskResult, len(detectors))

	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := ephem.NewProvider()
			for det := range tasks {
				events, err := det.Detect(ctx, p, iv)
				results <- taskResult{name: det.Name(), events: events, err: err}
			}
		}()
	}

	go func() {
		defer close(tasks)
		for _, det := range detectors {
			select {
			case tasks <- det:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var merged []almagest.Event
	for res := range results {
		if res.err != nil {
			r.log.Error(ctx, "detector failed",
				logger.String("detector", res.name), logger.Error(res.err))
			continue
		}
		r.log.Info(ctx, "detector finished",
			logger.String("detector", res.name), logger.Int("events", len(res.events)))
		merged = append(merged, res.events...)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return almagest.Dedupe(merged), nil
}
