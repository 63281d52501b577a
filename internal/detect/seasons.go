package detect

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/thurmanmarka/almagest"
	"github.com/thurmanmarka/almagest/internal/ephem"
	"github.com/thurmanmarka/almagest/internal/solver"
	"github.com/thurmanmarka/almagest/pkg/logger"
)

var seasonNames = [4]string{
	"Vernal Equinox (Spring)",
	"Summer Solstice",
	"Autumnal Equinox (Fall)",
	"Winter Solstice",
}

// SeasonDetector finds equinoxes and solstices by solving the apparent
// solar longitude for the four cardinal angles.
type SeasonDetector struct {
	log logger.Logger
}

func NewSeasonDetector(log logger.Logger) *SeasonDetector {
	return &SeasonDetector{log: log.Named("seasons")}
}

func (d *SeasonDetector) Name() string { return "seasons" }

// seasonMoments returns the cardinal solar-longitude crossings inside
// [start, end) paired with their quadrant code, sorted by time.
// Shared with the solar-year progress detector, which needs the
// vernal equinoxes of a slightly wider span.
func seasonMoments(p *ephem.Provider, start, end time.Time) []phaseMoment {
	lon := func(t time.Time) (float64, error) {
		pos, err := p.EclipticPosition(t, ephem.Sun, ephem.Geocentric, ephem.Apparent)
		if err != nil {
			return 0, err
		}
		return pos.Lon, nil
	}

	samples := solver.SampleGrid(lon, start, end, slowStep)

	var moments []phaseMoment
	for code, angle := range [4]float64{0, 90, 180, 270} {
		tg := solver.Target{F: lon, Value: angle, Wrap: solver.WrapDegrees360}
		for _, b := range solver.Crossings(samples, angle, solver.WrapDegrees360) {
			exact, err := solver.Refine(tg, b, solver.DefaultMaxIter, solver.DefaultTolerance)
			if err != nil {
				continue
			}
			moments = append(moments, phaseMoment{time: exact, code: code})
		}
	}
	sort.Slice(moments, func(i, j int) bool { return moments[i].time.Before(moments[j].time) })
	return moments
}

func (d *SeasonDetector) Detect(ctx context.Context, p *ephem.Provider, iv almagest.Interval) ([]almagest.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var events []almagest.Event
	for _, m := range seasonMoments(p, iv.Start(), iv.End()) {
		if !iv.Contains(m.time) {
			continue
		}
		name := seasonNames[m.code]
		events = append(events, almagest.Event{
			Kind:        almagest.KindSeason,
			Summary:     name,
			Start:       m.time,
			Description: fmt.Sprintf("%s. Exact moment.", name),
			Calendar:    "Astro: Seasons",
		})
	}
	d.log.Debug(ctx, "seasons detected", logger.Int("count", len(events)))
	return events, nil
}
