package detect

import (
	"context"
	"fmt"
	"time"

	"github.com/thurmanmarka/almagest"
	"github.com/thurmanmarka/almagest/internal/ephem"
	"github.com/thurmanmarka/almagest/pkg/logger"
)

// YearProgressDetector emits milestone markers for two year framings:
// the calendar year (Jan 1 to Jan 1) and the solar year (vernal
// equinox to vernal equinox). Each framing gets fifteen 1/16th
// fraction markers plus one marker per square-numbered day.
type YearProgressDetector struct {
	log logger.Logger
}

func NewYearProgressDetector(log logger.Logger) *YearProgressDetector {
	return &YearProgressDetector{log: log.Named("year_progress")}
}

func (d *YearProgressDetector) Name() string { return "year_progress" }

func (d *YearProgressDetector) Detect(ctx context.Context, p *ephem.Provider, iv almagest.Interval) ([]almagest.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var events []almagest.Event

	for year := iv.StartYear; year <= iv.EndYear; year++ {
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)
		events = append(events, progressEvents(year, start, end, "Calendar Year", "Astro: Calendar Year Progress")...)
	}

	// Solar years: collect vernal equinoxes over a span wide enough
	// that every period overlapping the interval has both endpoints,
	// including the one straddling the previous New Year.
	scanStart := time.Date(iv.StartYear-1, time.January, 1, 0, 0, 0, 0, time.UTC)
	scanEnd := time.Date(iv.EndYear+2, time.January, 1, 0, 0, 0, 0, time.UTC)
	var vernals []time.Time
	for _, m := range seasonMoments(p, scanStart, scanEnd) {
		if m.code == 0 {
			vernals = append(vernals, m.time)
		}
	}
	for i := 0; i+1 < len(vernals); i++ {
		if !vernals[i+1].After(iv.Start()) || !vernals[i].Before(iv.End()) {
			continue
		}
		year := vernals[i].Year()
		for _, ev := range progressEvents(year, vernals[i], vernals[i+1], "Solar Year", "Astro: Solar Year Progress") {
			if iv.Contains(ev.Start) {
				events = append(events, ev)
			}
		}
	}

	d.log.Debug(ctx, "progress markers generated", logger.Int("count", len(events)))
	return events, nil
}

func progressEvents(year int, start, end time.Time, prefix, calendar string) []almagest.Event {
	var events []almagest.Event
	total := end.Sub(start)

	for k := 1; k < 16; k++ {
		frac := float64(k) / 16
		pct := frac * 100
		at := start.Add(time.Duration(frac * float64(total)))
		events = append(events, almagest.Event{
			Kind:        almagest.KindYearProgress,
			Summary:     fmt.Sprintf("%s: %d/16 (%.1f%%)", prefix, k, pct),
			Start:       at,
			Description: fmt.Sprintf("Year %d (%s) is %.1f%% complete.", year, prefix, pct),
			Calendar:    calendar,
		})
	}

	// Day N is the calendar day numbered N from the period start, so
	// day 1 lands on the start itself. The period length in whole
	// days bounds the walk; a leap year keeps day 64 where February
	// pushed it.
	days := int(total.Hours() / 24)
	for n := 1; ; n++ {
		sq := n * n
		if sq > days+1 {
			break
		}
		at := start.AddDate(0, 0, sq-1)
		if !at.Before(end) {
			break
		}
		events = append(events, almagest.Event{
			Kind:        almagest.KindYearProgress,
			Summary:     fmt.Sprintf("%s Day %d (%d^2)", prefix, sq, n),
			Start:       at,
			Description: fmt.Sprintf("Day %d of %s %d (Square of %d).", sq, prefix, year, n),
			Calendar:    calendar,
		})
	}
	return events
}
