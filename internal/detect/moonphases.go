package detect

import (
	"context"
	"time"

	"github.com/thurmanmarka/almagest"
	"github.com/thurmanmarka/almagest/internal/ephem"
	"github.com/thurmanmarka/almagest/internal/solver"
	"github.com/thurmanmarka/almagest/internal/timeutil"
	"github.com/thurmanmarka/almagest/pkg/logger"
)

// Phase codes follow the elongation quadrant boundaries: 0 new, 1
// first quarter, 2 full, 3 last quarter.
var phaseNames = [4]string{"New Moon", "First Quarter Moon", "Full Moon", "Last Quarter Moon"}

// phaseMoment is a refined quarter-phase instant.
type phaseMoment struct {
	time time.Time
	code int
}

// elongationFunc returns the Sun-Moon elongation in ecliptic
// longitude, degrees in [0, 360).
func elongationFunc(p *ephem.Provider) solver.Func {
	return func(t time.Time) (float64, error) {
		moon, err := p.EclipticPosition(t, ephem.Moon, ephem.Geocentric, ephem.Apparent)
		if err != nil {
			return 0, err
		}
		sun, err := p.EclipticPosition(t, ephem.Sun, ephem.Geocentric, ephem.Apparent)
		if err != nil {
			return 0, err
		}
		return timeutil.Normalize360(moon.Lon - sun.Lon), nil
	}
}

// quarterPhases finds all quarter phases in the interval. The
// elongation grows ~12.2 deg/day, so six-hour samples bracket every
// boundary crossing comfortably.
func quarterPhases(p *ephem.Provider, iv almagest.Interval) []phaseMoment {
	elong := elongationFunc(p)
	samples := solver.SampleGrid(elong, iv.Start(), iv.End(), fastStep)

	var moments []phaseMoment
	for code, boundary := range []float64{0, 90, 180, 270} {
		target := solver.Target{F: elong, Value: boundary, Wrap: solver.WrapDegrees360}
		for _, br := range solver.Crossings(samples, boundary, solver.WrapDegrees360) {
			exact, err := solver.Refine(target, br, solver.DefaultMaxIter, solver.DefaultTolerance)
			if err != nil || !iv.Contains(exact) {
				continue
			}
			moments = append(moments, phaseMoment{time: exact, code: code})
		}
	}

	return moments
}

// MoonPhaseDetector emits the four primary Moon phases.
type MoonPhaseDetector struct {
	log logger.Logger
}

func NewMoonPhaseDetector(log logger.Logger) *MoonPhaseDetector {
	return &MoonPhaseDetector{log: log.Named("moonphases")}
}

func (d *MoonPhaseDetector) Name() string { return "moon_phases" }

func (d *MoonPhaseDetector) Detect(ctx context.Context, p *ephem.Provider, iv almagest.Interval) ([]almagest.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var events []almagest.Event
	for _, m := range quarterPhases(p, iv) {
		name := phaseNames[m.code]
		events = append(events, almagest.Event{
			Kind:         almagest.KindMoonPhase,
			Summary:      name,
			Start:        m.time,
			Description:  name + ".",
			Participants: []string{ephem.Moon.String()},
			Calendar:     "Astro: Moon Phases",
		})
	}
	return events, nil
}
