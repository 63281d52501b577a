package almagest

import "time"

// minSeparation is the per-kind threshold under which a recurring
// identical event is treated as a noise-driven double detection. The
// values span two-plus orders of magnitude: rise/set events can
// legitimately recur within hours, while a planet cannot station twice
// in a week.
var minSeparation = map[Kind]time.Duration{
	KindAlmanac:       10 * time.Minute,
	KindAspect:        time.Hour,
	KindZodiacIngress: 12 * time.Hour,
	KindSolarEclipse:  24 * time.Hour,
	KindLunarEclipse:  24 * time.Hour,
	KindMoonPhase:     24 * time.Hour,
	KindRetrograde:    5 * 24 * time.Hour,
	KindMoonFeature:   5 * 24 * time.Hour,
	KindSeason:        10 * 24 * time.Hour,
}

// defaultMinSeparation applies to kinds without a table entry.
const defaultMinSeparation = time.Hour

// MinSeparation returns the deduplication threshold for a kind.
func MinSeparation(k Kind) time.Duration {
	if d, ok := minSeparation[k]; ok {
		return d
	}
	return defaultMinSeparation
}

// Dedupe sorts events by start time and suppresses any event whose
// identity (kind + summary + participants) already occurred within the
// per-kind minimum separation. It is a pure post-filter: surviving
// events keep their order, and running it on its own output changes
// nothing.
func Dedupe(events []Event) []Event {
	if len(events) == 0 {
		return events
	}

	sorted := append([]Event(nil), events...)
	SortByStart(sorted)

	lastKept := make(map[string]time.Time)
	out := sorted[:0]

	for _, e := range sorted {
		id := e.Identity()
		if prev, seen := lastKept[id]; seen {
			if e.Start.Sub(prev) < MinSeparation(e.Kind) {
				continue
			}
		}
		lastKept[id] = e.Start
		out = append(out, e)
	}
	return out
}
