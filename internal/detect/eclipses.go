package detect

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/thurmanmarka/almagest"
	"github.com/thurmanmarka/almagest/internal/ephem"
	"github.com/thurmanmarka/almagest/internal/solver"
	"github.com/thurmanmarka/almagest/internal/timeutil"
	"github.com/thurmanmarka/almagest/pkg/logger"
)

// Separation thresholds in degrees, from mean apparent radii rather
// than per-event radii. 0.8 catches every solar contact with margin;
// the sub-bands gauge centrality by how deep the peak separation
// falls.
const (
	solarSepLimit   = 0.8
	solarCentralSep = 0.1

	lunarSepLimit   = 1.5 // penumbra radius + Moon radius, roughly
	lunarPartialSep = 1.0
	lunarTotalSep   = 0.4
)

// Duration search around the peak: ten-minute strides, capped at
// about six hours each way.
const (
	eclipseSearchStep  = 10 * time.Minute
	eclipseSearchSteps = 35
	eclipseSearchTol   = 30 * time.Second
)

// EclipseDetector finds solar eclipses at New Moons and lunar eclipses
// at Full Moons by thresholding angular separation.
type EclipseDetector struct {
	log logger.Logger
}

func NewEclipseDetector(log logger.Logger) *EclipseDetector {
	return &EclipseDetector{log: log.Named("eclipses")}
}

func (d *EclipseDetector) Name() string { return "eclipses" }

func (d *EclipseDetector) Detect(ctx context.Context, p *ephem.Provider, iv almagest.Interval) ([]almagest.Event, error) {
	var events []almagest.Event

	for _, m := range quarterPhases(p, iv) {
		if err := ctx.Err(); err != nil {
			return events, err
		}
		switch m.code {
		case 0: // New Moon
			if e, ok := d.solarEclipse(p, m.time); ok && iv.Contains(e.Start) {
				events = append(events, e)
			}
		case 2: // Full Moon
			if e, ok := d.lunarEclipse(p, m.time); ok && iv.Contains(e.Start) {
				events = append(events, e)
			}
		}
	}
	return events, nil
}

func (d *EclipseDetector) solarEclipse(p *ephem.Provider, peak time.Time) (almagest.Event, bool) {
	sep := func(t time.Time) (float64, error) {
		return p.Separation(t, ephem.Sun, ephem.Moon, ephem.Apparent)
	}

	sepPeak, err := sep(peak)
	if err != nil || sepPeak >= solarSepLimit {
		return almagest.Event{}, false
	}

	kind := "Partial Solar Eclipse"
	if sepPeak < solarCentralSep {
		kind = "Total Solar Eclipse" // or annular; radii decide, we don't model them
	}

	w := solver.FindWindow(
		solver.Target{F: sep, Value: 0, Wrap: solver.WrapNone},
		peak, solarSepLimit, eclipseSearchStep, eclipseSearchSteps, eclipseSearchTol,
	)

	return almagest.Event{
		Kind:     almagest.KindSolarEclipse,
		Summary:  kind,
		Start:    w.Entry,
		Duration: w.Duration(),
		Description: fmt.Sprintf("%s. Max separation: %.3f deg. Duration: %d mins.",
			kind, sepPeak, int(w.Duration().Minutes())),
		Participants: []string{ephem.Sun.String(), ephem.Moon.String()},
		Calendar:     "Astro: Solar Eclipses",
	}, true
}

// lunarEclipse thresholds the Moon's distance from the anti-Sun
// (Earth-shadow center): shadow longitude is the solar longitude plus
// 180, shadow latitude the negated solar latitude.
func (d *EclipseDetector) lunarEclipse(p *ephem.Provider, peak time.Time) (almagest.Event, bool) {
	shadowDist := func(t time.Time) (float64, error) {
		sun, err := p.EclipticPosition(t, ephem.Sun, ephem.Geocentric, ephem.Apparent)
		if err != nil {
			return 0, err
		}
		moon, err := p.EclipticPosition(t, ephem.Moon, ephem.Geocentric, ephem.Apparent)
		if err != nil {
			return 0, err
		}

		dLon := timeutil.Normalize180(moon.Lon - (sun.Lon + 180))
		dLat := moon.Lat + sun.Lat
		// Small-angle flat approximation; fine within a couple degrees
		// of the ecliptic.
		return math.Hypot(dLon, dLat), nil
	}

	distPeak, err := shadowDist(peak)
	if err != nil || distPeak >= lunarSepLimit {
		return almagest.Event{}, false
	}

	kind := "Penumbral Lunar Eclipse"
	switch {
	case distPeak < lunarTotalSep:
		kind = "Total Lunar Eclipse"
	case distPeak < lunarPartialSep:
		kind = "Partial Lunar Eclipse"
	}

	w := solver.FindWindow(
		solver.Target{F: shadowDist, Value: 0, Wrap: solver.WrapNone},
		peak, lunarSepLimit, eclipseSearchStep, eclipseSearchSteps, eclipseSearchTol,
	)

	return almagest.Event{
		Kind:     almagest.KindLunarEclipse,
		Summary:  kind,
		Start:    w.Entry,
		Duration: w.Duration(),
		Description: fmt.Sprintf("%s. Max separation to Shadow Center: %.3f deg. Duration: %d mins.",
			kind, distPeak, int(w.Duration().Minutes())),
		Participants: []string{ephem.Moon.String()},
		Calendar:     "Astro: Lunar Eclipses",
	}, true
}
