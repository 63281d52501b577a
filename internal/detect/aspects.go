package detect

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/thurmanmarka/almagest"
	"github.com/thurmanmarka/almagest/internal/ephem"
	"github.com/thurmanmarka/almagest/internal/solver"
	"github.com/thurmanmarka/almagest/pkg/logger"
)

// AspectAngles maps aspect names to their target angular separation in
// degrees. Non-axial angles are also searched at their 360-complement,
// since the signed longitude difference can approach from either side.
var AspectAngles = map[string]float64{
	"conjunction": 0,
	"sextile":     60,
	"quintile":    72,
	"square":      90,
	"trine":       120,
	"biquintile":  144,
	"opposition":  180,
}

// Aspect orb search: coarse step and cap for the entry/exit window.
// Four-hour steps capped at 200 bound the search at about 33 days each
// way; a wider orb than that degenerates to a point event.
const (
	orbSearchStep  = 4 * time.Hour
	orbSearchSteps = 200
	orbSearchTol   = time.Minute
)

// AspectDetector finds exact astrological aspects between body pairs,
// with an orb entry/exit window around each exact moment.
type AspectDetector struct {
	bodies  []string
	aspects []string
	orb     float64
	center  ephem.Center
	log     logger.Logger
}

// NewAspectDetector configures an aspect search over the given bodies.
// center selects geocentric or heliocentric longitudes; orb is the
// tolerance band in degrees.
func NewAspectDetector(bodies, aspects []string, orb float64, center ephem.Center, log logger.Logger) *AspectDetector {
	return &AspectDetector{
		bodies:  bodies,
		aspects: aspects,
		orb:     orb,
		center:  center,
		log:     log.Named("aspects"),
	}
}

func (d *AspectDetector) Name() string {
	if d.center == ephem.Heliocentric {
		return "aspects_helio"
	}
	return "aspects"
}

// longitudeDiff builds the signed longitude-difference function for a
// pair at the given precision tier.
func (d *AspectDetector) longitudeDiff(p *ephem.Provider, a, b ephem.Body, tier ephem.Tier) solver.Func {
	return func(t time.Time) (float64, error) {
		pa, err := p.EclipticPosition(t, a, d.center, tier)
		if err != nil {
			return 0, err
		}
		pb, err := p.EclipticPosition(t, b, d.center, tier)
		if err != nil {
			return 0, err
		}
		return pa.Lon - pb.Lon, nil
	}
}

func (d *AspectDetector) Detect(ctx context.Context, p *ephem.Provider, iv almagest.Interval) ([]almagest.Event, error) {
	bodies := d.resolve(ctx)
	var events []almagest.Event

	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			if err := ctx.Err(); err != nil {
				return events, err
			}
			events = append(events, d.detectPair(p, iv, bodies[i], bodies[j])...)
		}
	}
	return events, nil
}

// resolve maps configured names to bodies, dropping unknown names and
// bodies that cannot be observed from the configured center.
func (d *AspectDetector) resolve(ctx context.Context) []ephem.Body {
	resolved, unknown := ephem.ResolveBodies(d.bodies)
	for _, n := range unknown {
		d.log.Warn(ctx, "skipping unresolvable body", logger.String("body", n))
	}

	out := resolved[:0]
	for _, b := range resolved {
		if d.center == ephem.Heliocentric && b == ephem.Sun {
			continue
		}
		if d.center == ephem.Geocentric && b == ephem.Earth {
			continue
		}
		out = append(out, b)
	}
	return out
}

// detectPair runs the full pipeline for one pair: coarse sampling with
// the geometric tier, wraparound-aware crossing detection per target
// angle, precise bisection, then the orb entry/exit window.
func (d *AspectDetector) detectPair(p *ephem.Provider, iv almagest.Interval, a, b ephem.Body) []almagest.Event {
	coarse := d.longitudeDiff(p, a, b, ephem.Geometric)
	precise := d.longitudeDiff(p, a, b, ephem.Apparent)

	samples := solver.SampleGrid(coarse, iv.Start(), iv.End(), gridStep(a, b))

	var events []almagest.Event
	for _, name := range d.aspects {
		angle, ok := AspectAngles[name]
		if !ok {
			continue
		}

		// 0 and 180 are their own complement; everything else is hit
		// from both sides of the circle.
		targets := []float64{angle}
		if angle != 0 && angle != 180 {
			targets = append(targets, 360-angle)
		}

		for _, tgt := range targets {
			target := solver.Target{F: precise, Value: tgt, Wrap: solver.WrapDegrees360}

			for _, br := range solver.Crossings(samples, tgt, solver.WrapDegrees360) {
				exact, err := solver.Refine(target, br, solver.DefaultMaxIter, solver.DefaultTolerance)
				if err != nil {
					continue
				}
				if !iv.Contains(exact) {
					continue
				}

				w := solver.FindWindow(target, exact, d.orb, orbSearchStep, orbSearchSteps, orbSearchTol)
				start := w.Entry
				if start.Before(iv.Start()) {
					start = iv.Start()
				}
				duration := w.Exit.Sub(start)
				if duration < time.Minute {
					duration = time.Minute
				}

				events = append(events, d.event(name, angle, a, b, start, duration))
			}
		}
	}
	return events
}

func (d *AspectDetector) event(aspect string, angle float64, a, b ephem.Body, start time.Time, duration time.Duration) almagest.Event {
	summary := fmt.Sprintf("%s: %s - %s", titleCase(aspect), a.Title(), b.Title())
	desc := fmt.Sprintf("%s and %s exact %s (%g deg). Orb: %g deg.", a, b, aspect, angle, d.orb)
	calendar := fmt.Sprintf("Astro: %s Geo", a.Title())

	if d.center == ephem.Heliocentric {
		summary += " (Helio)"
		desc = "(Heliocentric) " + desc
		calendar = fmt.Sprintf("Astro: %s Helio", a.Title())
	}

	return almagest.Event{
		Kind:         almagest.KindAspect,
		Summary:      summary,
		Start:        start,
		Duration:     duration,
		Description:  desc,
		Participants: []string{a.String(), b.String()},
		Calendar:     calendar,
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
