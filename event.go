package almagest

import (
	"sort"
	"strings"
	"time"
)

// Kind is the event taxonomy. Downstream writers group and deduplicate
// on it, so values are stable identifiers rather than display text.
type Kind string

const (
	KindAspect        Kind = "aspect"
	KindZodiacIngress Kind = "zodiac_ingress"
	KindRetrograde    Kind = "retrograde"
	KindMoonFeature   Kind = "moon_feature"
	KindSolarEclipse  Kind = "solar_eclipse"
	KindLunarEclipse  Kind = "lunar_eclipse"
	KindSeason        Kind = "season"
	KindMoonPhase     Kind = "moon_phase"
	KindAlmanac       Kind = "almanac"
	KindYearProgress  Kind = "year_progress"
	KindPattern       Kind = "pattern"
)

// Event is one detected astronomical event.
//
// Start is the *entry* instant for window-bounded events (the moment
// the metric enters the orb band), not the exact crossing; point
// events carry a zero Duration. Start always falls inside the queried
// interval even when a detector scanned past it for lookahead.
type Event struct {
	Kind         Kind          `json:"kind"`
	Summary      string        `json:"summary"`
	Start        time.Time     `json:"start_time"`
	Duration     time.Duration `json:"duration"`
	Description  string        `json:"description,omitempty"`
	Participants []string      `json:"participants,omitempty"`
	Calendar     string        `json:"calendar,omitempty"`
}

// End returns the end of the event's validity window; for point events
// it equals Start.
func (e Event) End() time.Time {
	return e.Start.Add(e.Duration)
}

// Identity is what the deduplicator and the archive consider "the
// same event recurring": kind plus summary plus participant set.
func (e Event) Identity() string {
	parts := append([]string(nil), e.Participants...)
	sort.Strings(parts)
	return string(e.Kind) + "\x00" + e.Summary + "\x00" + strings.Join(parts, ",")
}

// SortByStart stable-sorts events chronologically. Results from
// parallel detectors are merged by concatenation, so callers sort
// before presenting or deduplicating.
func SortByStart(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
}
