package detect

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/thurmanmarka/almagest"
	"github.com/thurmanmarka/almagest/internal/ephem"
	"github.com/thurmanmarka/almagest/pkg/logger"
)

// PatternDetector finds moments where one body holds a square to a
// second body while simultaneously trine a third. It runs a private
// geocentric aspect pass restricted to squares and trines and then
// intersects the orb windows per vertex body.
type PatternDetector struct {
	bodies []string
	orb    float64
	log    logger.Logger
}

func NewPatternDetector(bodies []string, orb float64, log logger.Logger) *PatternDetector {
	return &PatternDetector{bodies: bodies, orb: orb, log: log.Named("patterns")}
}

func (d *PatternDetector) Name() string { return "patterns" }

// bodyAspect is one leg of a potential pattern, seen from one of its
// two participants.
type bodyAspect struct {
	partner string
	kind    string // "square" or "trine"
	start   time.Time
	end     time.Time
}

func (d *PatternDetector) Detect(ctx context.Context, p *ephem.Provider, iv almagest.Interval) ([]almagest.Event, error) {
	inner := NewAspectDetector(d.bodies, []string{"square", "trine"}, d.orb, ephem.Geocentric, logger.Nop())
	raw, err := inner.Detect(ctx, p, iv)
	if err != nil {
		return nil, err
	}

	// Aspects are symmetric, so each event is indexed under both
	// participants.
	byBody := make(map[string][]bodyAspect)
	for _, ev := range raw {
		if len(ev.Participants) != 2 {
			continue
		}
		kind := strings.ToLower(strings.SplitN(ev.Summary, ":", 2)[0])
		a, b := ev.Participants[0], ev.Participants[1]
		byBody[a] = append(byBody[a], bodyAspect{partner: b, kind: kind, start: ev.Start, end: ev.End()})
		byBody[b] = append(byBody[b], bodyAspect{partner: a, kind: kind, start: ev.Start, end: ev.End()})
	}

	var events []almagest.Event
	for body, list := range byBody {
		for _, sq := range list {
			if sq.kind != "square" {
				continue
			}
			for _, tr := range list {
				if tr.kind != "trine" {
					continue
				}
				start := sq.start
				if tr.start.After(start) {
					start = tr.start
				}
				end := sq.end
				if tr.end.Before(end) {
					end = tr.end
				}
				if !start.Before(end) {
					continue
				}
				overlap := end.Sub(start)
				events = append(events, almagest.Event{
					Kind:     almagest.KindPattern,
					Summary:  fmt.Sprintf("%s: Sq %s & Tri %s", titleCase(body), titleCase(sq.partner), titleCase(tr.partner)),
					Start:    start,
					Duration: overlap,
					Description: fmt.Sprintf("%s is simultaneously:\n- Square %s\n- Trine %s\nOverlap Duration: %d mins.",
						titleCase(body), titleCase(sq.partner), titleCase(tr.partner), int(overlap.Minutes())),
					Participants: []string{body, sq.partner, tr.partner},
					Calendar:     "Astro: Square and Trine",
				})
			}
		}
	}

	almagest.SortByStart(events)
	d.log.Debug(ctx, "patterns detected", logger.Int("count", len(events)))
	return events, nil
}
