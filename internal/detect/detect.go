// Package detect implements the per-category event detectors and the
// parallel runner that fans them out.
//
// Every detector is a pure task over a read-only position provider and
// a year interval; detectors never share mutable state, so the runner
// can execute any number of them concurrently and merge the results by
// concatenation.
package detect

import (
	"context"
	"time"

	"github.com/thurmanmarka/almagest"
	"github.com/thurmanmarka/almagest/internal/ephem"
)

// Detector is one independent event-detection task.
type Detector interface {
	// Name identifies the task in logs and error reports.
	Name() string

	// Detect computes the events for the interval. Implementations
	// must only emit events whose start time lies inside iv, even when
	// they scan a wider range internally.
	Detect(ctx context.Context, p *ephem.Provider, iv almagest.Interval) ([]almagest.Event, error)
}

// Sampling steps for the coarse grid, sized to the angular speed of
// the body driving the metric (Moon ~13 deg/day, planets well under
// 1 deg/day).
const (
	slowStep = 24 * time.Hour
	fastStep = 6 * time.Hour
)

// gridStep picks the coarse sampling step for a set of participants.
func gridStep(bodies ...ephem.Body) time.Duration {
	for _, b := range bodies {
		if b == ephem.Moon {
			return fastStep
		}
	}
	return slowStep
}
