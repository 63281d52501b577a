package detect

import (
	"context"
	"time"

	"github.com/thurmanmarka/almagest"
	"github.com/thurmanmarka/almagest/internal/ephem"
	"github.com/thurmanmarka/almagest/internal/solver"
	"github.com/thurmanmarka/almagest/pkg/logger"
)

// Standstills are separated by half a draconic month (~13.6 days);
// anything closer is finite-difference noise around the extremum.
const standstillNoiseGap = 5 * 24 * time.Hour

// Declination finite-difference step. Shorter than the longitude rate
// step: declination turns around much more slowly than longitude moves.
const decRateStep = time.Second

// MoonFeatureDetector finds lunar nodes (ecliptic latitude zero
// crossings) and standstills (declination-rate sign changes).
type MoonFeatureDetector struct {
	log logger.Logger
}

func NewMoonFeatureDetector(log logger.Logger) *MoonFeatureDetector {
	return &MoonFeatureDetector{log: log.Named("moonfeatures")}
}

func (d *MoonFeatureDetector) Name() string { return "moon_features" }

func (d *MoonFeatureDetector) Detect(ctx context.Context, p *ephem.Provider, iv almagest.Interval) ([]almagest.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	events := d.detectNodes(p, iv)
	events = append(events, d.detectStandstills(p, iv)...)
	return events, nil
}

func (d *MoonFeatureDetector) detectNodes(p *ephem.Provider, iv almagest.Interval) []almagest.Event {
	latitude := func(t time.Time) (float64, error) {
		pos, err := p.EclipticPosition(t, ephem.Moon, ephem.Geocentric, ephem.Apparent)
		if err != nil {
			return 0, err
		}
		return pos.Lat, nil
	}

	target := solver.Target{F: latitude, Value: 0, Wrap: solver.WrapNone}
	samples := solver.SampleGrid(latitude, iv.Start(), iv.End(), 12*time.Hour)

	var events []almagest.Event
	for _, br := range solver.Crossings(samples, 0, solver.WrapNone) {
		exact, err := solver.Refine(target, br, solver.DefaultMaxIter, solver.DefaultTolerance)
		if err != nil || !iv.Contains(exact) {
			continue
		}

		before, err := latitude(br.Lo)
		if err != nil {
			continue
		}

		summary := "Moon North Node"
		desc := "Moon crosses ecliptic to the North (Ascending Node)."
		if before > 0 {
			summary = "Moon South Node"
			desc = "Moon crosses ecliptic to the South (Descending Node)."
		}

		events = append(events, almagest.Event{
			Kind:         almagest.KindMoonFeature,
			Summary:      summary,
			Start:        exact,
			Description:  desc,
			Participants: []string{ephem.Moon.String()},
			Calendar:     "Astro: Moon Features",
		})
	}
	return events
}

func (d *MoonFeatureDetector) detectStandstills(p *ephem.Provider, iv almagest.Interval) []almagest.Event {
	declination := func(t time.Time) (float64, error) {
		_, dec, err := p.Equatorial(t, ephem.Moon)
		return dec, err
	}

	decRate := func(t time.Time) (float64, error) {
		d1, err := declination(t)
		if err != nil {
			return 0, err
		}
		d2, err := declination(t.Add(decRateStep))
		if err != nil {
			return 0, err
		}
		return d2 - d1, nil
	}

	target := solver.Target{F: decRate, Value: 0, Wrap: solver.WrapNone}
	samples := solver.SampleGrid(decRate, iv.Start(), iv.End(), 12*time.Hour)

	var events []almagest.Event
	var lastExtreme time.Time

	for _, br := range solver.Crossings(samples, 0, solver.WrapNone) {
		exact, err := solver.Refine(target, br, solver.DefaultMaxIter, solver.DefaultTolerance)
		if err != nil {
			continue
		}

		// Extremes alternate ~13.6 days apart; rapid re-detections are
		// numerical flicker at the derivative zero.
		if !lastExtreme.IsZero() && exact.Sub(lastExtreme) < standstillNoiseGap {
			continue
		}
		lastExtreme = exact

		if !iv.Contains(exact) {
			continue
		}

		before, err := decRate(br.Lo)
		if err != nil {
			continue
		}

		// Label assignment is the inverse of the naive mapping: a
		// transition *to* increasing declination is the minimum, i.e.
		// the southern extreme.
		summary := "Moon Furthest South"
		desc := "Lunar Southern Standstill (Max South Declination)."
		if before > 0 {
			summary = "Moon Furthest North"
			desc = "Lunar Northern Standstill (Max North Declination)."
		}

		events = append(events, almagest.Event{
			Kind:         almagest.KindMoonFeature,
			Summary:      summary,
			Start:        exact,
			Description:  desc,
			Participants: []string{ephem.Moon.String()},
			Calendar:     "Astro: Moon Features",
		})
	}
	return events
}
