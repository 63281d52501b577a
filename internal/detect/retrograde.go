package detect

import (
	"context"
	"fmt"
	"time"

	"github.com/thurmanmarka/almagest"
	"github.com/thurmanmarka/almagest/internal/ephem"
	"github.com/thurmanmarka/almagest/internal/solver"
	"github.com/thurmanmarka/almagest/internal/timeutil"
	"github.com/thurmanmarka/almagest/pkg/logger"
)

// Finite-difference step for the longitude rate. One minute is short
// enough that the sign of the difference is the sign of the velocity.
const rateStep = time.Minute

// Shadow-exit scan: two-day strides for up to a year past the direct
// station.
const (
	shadowStep     = 48 * time.Hour
	shadowMaxSteps = 183
)

// station is a transient marker correlating a retrograde station with
// its direct station and shadow exit. Not part of the event schema.
type station struct {
	time       time.Time
	retrograde bool // true: stations retrograde; false: stations direct
	lon        float64
}

// RetrogradeDetector finds retrograde and direct stations (sign
// changes of the apparent longitudinal velocity) and the subsequent
// shadow exits (return to the pre-retrograde longitude).
type RetrogradeDetector struct {
	planets []string
	log     logger.Logger
}

func NewRetrogradeDetector(planets []string, log logger.Logger) *RetrogradeDetector {
	return &RetrogradeDetector{planets: planets, log: log.Named("retrograde")}
}

func (d *RetrogradeDetector) Name() string { return "retrograde" }

func (d *RetrogradeDetector) Detect(ctx context.Context, p *ephem.Provider, iv almagest.Interval) ([]almagest.Event, error) {
	resolved, unknown := ephem.ResolveBodies(d.planets)
	for _, n := range unknown {
		d.log.Warn(ctx, "skipping unresolvable body", logger.String("body", n))
	}

	var events []almagest.Event
	for _, b := range resolved {
		switch b {
		case ephem.Sun, ephem.Moon, ephem.Earth:
			// These never station as seen from Earth.
			continue
		}
		if err := ctx.Err(); err != nil {
			return events, err
		}
		events = append(events, d.detectPlanet(p, iv, b)...)
	}
	return events, nil
}

func (d *RetrogradeDetector) detectPlanet(p *ephem.Provider, iv almagest.Interval, b ephem.Body) []almagest.Event {
	longitude := func(t time.Time) (float64, error) {
		pos, err := p.EclipticPosition(t, b, ephem.Geocentric, ephem.Apparent)
		if err != nil {
			return 0, err
		}
		return pos.Lon, nil
	}

	// Longitude rate, degrees per rateStep, via forward difference.
	rate := func(t time.Time) (float64, error) {
		l1, err := longitude(t)
		if err != nil {
			return 0, err
		}
		l2, err := longitude(t.Add(rateStep))
		if err != nil {
			return 0, err
		}
		return timeutil.Normalize180(l2 - l1), nil
	}

	// Scan well past the queried range so a loop straddling New Year
	// still gets its direct station and shadow exit; emitted events
	// are clipped back to the interval below.
	scanStart := iv.Start()
	scanEnd := almagest.Years(iv.StartYear, iv.EndYear+1).End()

	target := solver.Target{F: rate, Value: 0, Wrap: solver.WrapNone}
	samples := solver.SampleGrid(rate, scanStart, scanEnd, slowStep)

	var stations []station
	for _, br := range solver.Crossings(samples, 0, solver.WrapNone) {
		exact, err := solver.Refine(target, br, solver.DefaultMaxIter, solver.DefaultTolerance)
		if err != nil {
			continue
		}
		vBefore, err := rate(br.Lo)
		if err != nil {
			continue
		}
		lon, err := longitude(exact)
		if err != nil {
			continue
		}
		stations = append(stations, station{
			time:       exact,
			retrograde: vBefore > 0, // was direct, now stations retrograde
			lon:        lon,
		})
	}

	var events []almagest.Event
	for i, st := range stations {
		if iv.Contains(st.time) {
			events = append(events, d.stationEvent(b, st))
		}

		// A direct station directly preceded by a retrograde station
		// opens a shadow period ending when the planet re-crosses the
		// station-retrograde longitude from below.
		if !st.retrograde && i > 0 && stations[i-1].retrograde {
			exit, ok := solver.ScanUpwardCrossing(
				solver.Target{F: longitude, Value: stations[i-1].lon, Wrap: solver.WrapDegrees360},
				st.time, shadowStep, shadowMaxSteps, solver.DefaultTolerance,
			)
			if ok && iv.Contains(exit) {
				events = append(events, almagest.Event{
					Kind:         almagest.KindRetrograde,
					Summary:      fmt.Sprintf("%s Shadow Exit", b.Title()),
					Start:        exit,
					Description:  fmt.Sprintf("%s exits retrograde shadow at %.2f deg.", b.Title(), stations[i-1].lon),
					Participants: []string{b.String()},
					Calendar:     fmt.Sprintf("Astro: %s Geo", b.Title()),
				})
			}
		}
	}
	return events
}

func (d *RetrogradeDetector) stationEvent(b ephem.Body, st station) almagest.Event {
	motion, code := "Direct", "D"
	if st.retrograde {
		motion, code = "Retrograde", "R"
	}
	return almagest.Event{
		Kind:         almagest.KindRetrograde,
		Summary:      fmt.Sprintf("%s %s", b.Title(), motion),
		Start:        st.time,
		Description:  fmt.Sprintf("%s stations %s at %.2f deg.", b.Title(), code, st.lon),
		Participants: []string{b.String()},
		Calendar:     fmt.Sprintf("Astro: %s Geo", b.Title()),
	}
}
