package detect

import (
	"context"
	"fmt"
	"time"

	"github.com/thurmanmarka/almagest"
	"github.com/thurmanmarka/almagest/internal/ephem"
	"github.com/thurmanmarka/almagest/internal/solver"
	"github.com/thurmanmarka/almagest/pkg/logger"
)

// altitudeStep samples local altitude often enough that no rise or
// set fits between two grid points, even for the Moon.
const altitudeStep = 15 * time.Minute

// horizonFor is the altitude at which a body is considered to rise or
// set. The Sun and Moon get the conventional value folding refraction
// and semidiameter; point sources get refraction only.
func horizonFor(b ephem.Body) float64 {
	switch b {
	case ephem.Sun, ephem.Moon:
		return -0.8333
	default:
		return -0.5667
	}
}

// dayDivisions lists the rise-to-set fractions emitted between each
// rise/set pair: thirds, eighths and nineteenths.
var dayDivisions = []int{3, 8, 19}

// AlmanacDetector computes rise, set, upper and lower meridian
// transits for an observer location, plus fractional markers dividing
// each rise-to-set arc.
type AlmanacDetector struct {
	bodies   []string
	location string
	observer almagest.Coordinates
	log      logger.Logger
}

func NewAlmanacDetector(bodies []string, location string, observer almagest.Coordinates, log logger.Logger) *AlmanacDetector {
	return &AlmanacDetector{
		bodies:   bodies,
		location: location,
		observer: observer,
		log:      log.Named("almanac"),
	}
}

func (d *AlmanacDetector) Name() string { return "almanac" }

func (d *AlmanacDetector) Detect(ctx context.Context, p *ephem.Provider, iv almagest.Interval) ([]almagest.Event, error) {
	bodies, unknown := ephem.ResolveBodies(d.bodies)
	for _, name := range unknown {
		d.log.Warn(ctx, "skipping unknown body", logger.String("body", name))
	}

	var events []almagest.Event
	for _, b := range bodies {
		if b == ephem.Earth {
			continue
		}
		if err := ctx.Err(); err != nil {
			return events, err
		}
		events = append(events, d.riseSet(p, iv, b)...)
		events = append(events, d.transits(p, iv, b)...)
	}
	return events, nil
}

// riseSet finds horizon crossings and, for each complete rise-to-set
// pair, the fractional markers in between.
func (d *AlmanacDetector) riseSet(p *ephem.Provider, iv almagest.Interval, b ephem.Body) []almagest.Event {
	alt := func(t time.Time) (float64, error) {
		return p.Altitude(t, b, d.observer.Lat, d.observer.Lon)
	}
	tg := solver.Target{F: alt, Value: horizonFor(b), Wrap: solver.WrapNone}

	samples := solver.SampleGrid(alt, iv.Start(), iv.End(), altitudeStep)

	var events []almagest.Event
	var lastRise time.Time
	for _, br := range solver.Crossings(samples, tg.Value, solver.WrapNone) {
		exact, err := solver.Refine(tg, br, solver.DefaultMaxIter, solver.DefaultTolerance)
		if err != nil {
			continue
		}
		before, err := tg.Deviation(br.Lo)
		if err != nil {
			continue
		}
		rising := before < 0

		action := "Set"
		if rising {
			action = "Rise"
		}
		events = append(events, d.event(b, fmt.Sprintf("%s %s", b.Title(), action),
			exact, fmt.Sprintf("%s %s at %s.", b.Title(), action, d.location)))

		if rising {
			lastRise = exact
			continue
		}
		if !lastRise.IsZero() && exact.After(lastRise) {
			events = append(events, d.divisions(b, lastRise, exact)...)
			lastRise = time.Time{}
		}
	}
	return events
}

func (d *AlmanacDetector) divisions(b ephem.Body, rise, set time.Time) []almagest.Event {
	var events []almagest.Event
	arc := set.Sub(rise)
	for _, denom := range dayDivisions {
		for num := 1; num < denom; num++ {
			frac := float64(num) / float64(denom)
			at := rise.Add(time.Duration(frac * float64(arc)))
			events = append(events, d.event(b,
				fmt.Sprintf("%s %d/%d (Rise-Set)", b.Title(), num, denom),
				at,
				fmt.Sprintf("%s %d/%d of day (Rise to Set).", b.Title(), num, denom)))
		}
	}
	return events
}

// transits finds upper (MC) and lower (IC) meridian crossings via the
// local hour angle.
func (d *AlmanacDetector) transits(p *ephem.Provider, iv almagest.Interval, b ephem.Body) []almagest.Event {
	ha := func(t time.Time) (float64, error) {
		return p.HourAngle(t, b, d.observer.Lon)
	}

	samples := solver.SampleGrid(ha, iv.Start(), iv.End(), altitudeStep)

	var events []almagest.Event
	for _, tr := range []struct {
		angle float64
		code  string
		name  string
	}{
		{0, "MC", "Midheaven (MC)"},
		{180, "IC", "Nadir (IC)"},
	} {
		tg := solver.Target{F: ha, Value: tr.angle, Wrap: solver.WrapDegrees360}
		for _, br := range solver.Crossings(samples, tr.angle, solver.WrapDegrees360) {
			exact, err := solver.Refine(tg, br, solver.DefaultMaxIter, solver.DefaultTolerance)
			if err != nil {
				continue
			}
			events = append(events, d.event(b, fmt.Sprintf("%s %s", b.Title(), tr.code),
				exact, fmt.Sprintf("%s %s at %s.", b.Title(), tr.name, d.location)))
		}
	}
	return events
}

func (d *AlmanacDetector) event(b ephem.Body, summary string, at time.Time, desc string) almagest.Event {
	return almagest.Event{
		Kind:         almagest.KindAlmanac,
		Summary:      summary,
		Start:        at,
		Description:  desc,
		Participants: []string{b.String()},
		Calendar:     fmt.Sprintf("Astro: %s", b.Title()),
	}
}
