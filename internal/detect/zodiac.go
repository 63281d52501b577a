package detect

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/thurmanmarka/almagest"
	"github.com/thurmanmarka/almagest/internal/ephem"
	"github.com/thurmanmarka/almagest/internal/solver"
	"github.com/thurmanmarka/almagest/pkg/logger"
)

// ZodiacSigns in longitude order; sign i spans [i*30, (i+1)*30) degrees.
var ZodiacSigns = [12]string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// ZodiacDetector finds the instants bodies cross 30-degree sign
// boundaries in geocentric ecliptic longitude.
//
// The sign index is an integer step function, so ingress detection is
// a discrete state change; the exact time is refined by bisecting the
// underlying continuous longitude against the boundary value, never
// the integer itself.
type ZodiacDetector struct {
	bodies []string
	log    logger.Logger
}

func NewZodiacDetector(bodies []string, log logger.Logger) *ZodiacDetector {
	return &ZodiacDetector{bodies: bodies, log: log.Named("zodiac")}
}

func (d *ZodiacDetector) Name() string { return "zodiac" }

func (d *ZodiacDetector) Detect(ctx context.Context, p *ephem.Provider, iv almagest.Interval) ([]almagest.Event, error) {
	resolved, unknown := ephem.ResolveBodies(d.bodies)
	for _, n := range unknown {
		d.log.Warn(ctx, "skipping unresolvable body", logger.String("body", n))
	}

	var events []almagest.Event
	for _, b := range resolved {
		if b == ephem.Earth {
			continue
		}
		if err := ctx.Err(); err != nil {
			return events, err
		}
		events = append(events, d.detectBody(p, iv, b)...)
	}
	return events, nil
}

func (d *ZodiacDetector) detectBody(p *ephem.Provider, iv almagest.Interval, b ephem.Body) []almagest.Event {
	longitude := func(t time.Time) (float64, error) {
		pos, err := p.EclipticPosition(t, b, ephem.Geocentric, ephem.Apparent)
		if err != nil {
			return 0, err
		}
		return pos.Lon, nil
	}

	signIndex := func(t time.Time) (int, error) {
		lon, err := longitude(t)
		if err != nil {
			return 0, err
		}
		return int(math.Floor(lon / 30.0)), nil
	}

	step := 12 * time.Hour
	if b == ephem.Moon {
		step = 144 * time.Minute // 0.1 day; the Moon changes sign every ~2.3 days
	}

	changes := solver.StateChanges(solver.SampleDiscrete(signIndex, iv.Start(), iv.End(), step))

	var events []almagest.Event
	for _, ch := range changes {
		boundary := ingressBoundary(ch.From, ch.To)
		target := solver.Target{F: longitude, Value: boundary, Wrap: solver.WrapDegrees360}

		exact, err := solver.Refine(target, solver.Bracket{Lo: ch.Lo, Hi: ch.Hi}, solver.DefaultMaxIter, solver.DefaultTolerance)
		if err != nil || !iv.Contains(exact) {
			continue
		}

		sign := ZodiacSigns[((ch.To%12)+12)%12]
		events = append(events, almagest.Event{
			Kind:         almagest.KindZodiacIngress,
			Summary:      fmt.Sprintf("%s enters %s", b.Title(), sign),
			Start:        exact,
			Description:  fmt.Sprintf("%s enters %s at 0°.", b.Title(), sign),
			Participants: []string{b.String()},
			Calendar:     fmt.Sprintf("Astro: %s Zodiac", b.Title()),
		})
	}
	return events
}

// ingressBoundary returns the longitude of the sign boundary crossed
// by a from→to transition. Direct motion crosses the start of the new
// sign; retrograde motion re-crosses the start of the old one.
func ingressBoundary(from, to int) float64 {
	switch {
	case to == (from+1)%12:
		return float64(to%12) * 30.0
	case from == (to+1)%12:
		return float64(from%12) * 30.0
	default:
		// More than one sign between samples: the grid was too sparse
		// for this body. Refining against the new sign's start keeps
		// the event usable.
		return float64(to%12) * 30.0
	}
}
