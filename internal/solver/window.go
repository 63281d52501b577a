package solver

import (
	"math"
	"time"
)

// Window is the validity interval of an event around its exact time:
// the span where the absolute deviation stays inside the tolerance
// band (orb).
type Window struct {
	Entry, Exit time.Time
}

// Duration returns the window length.
func (w Window) Duration() time.Duration {
	return w.Exit.Sub(w.Entry)
}

// FindWindow locates, around the exact crossing time t0, the first
// instants before and after t0 where |deviation| exceeds orb: the
// entry is the backward boundary, the exit the forward one.
//
// The search steps outward in coarse increments (the caller sizes the
// step to the metric's timescale: hours for the Moon or eclipses, up
// to days for slow aspects) until the band edge is bracketed, then
// bisects inside that bracket. The number of coarse steps is capped;
// when no edge is found within the cap (an orb too wide for it, or a
// function that never leaves the band) the window degenerates to a
// zero-duration point at t0 instead of searching unboundedly.
func FindWindow(tg Target, t0 time.Time, orb float64, step time.Duration, maxSteps int, tol time.Duration) Window {
	w := Window{Entry: t0, Exit: t0}
	if orb <= 0 || step <= 0 || maxSteps <= 0 {
		return w
	}

	outside := func(t time.Time) (bool, bool) {
		d, err := tg.Deviation(t)
		if err != nil {
			return false, false
		}
		return math.Abs(d) > orb, true
	}

	// Backward: find the last instant inside the band.
	cursor := t0
	for i := 0; i < maxSteps; i++ {
		prev := cursor.Add(-step)
		out, ok := outside(prev)
		if !ok {
			cursor = prev
			continue
		}
		if out {
			w.Entry = bisectEdge(outside, prev, cursor, tol)
			break
		}
		cursor = prev
	}

	// Forward: mirror image.
	cursor = t0
	for i := 0; i < maxSteps; i++ {
		next := cursor.Add(step)
		out, ok := outside(next)
		if !ok {
			cursor = next
			continue
		}
		if out {
			w.Exit = bisectEdge(outside, cursor, next, tol)
			break
		}
		cursor = next
	}

	return w
}

// bisectEdge refines the boundary between an inside point and an
// outside point of the orb band. Exactly one of (a, b) is outside; the
// returned time is the band edge to within tol.
func bisectEdge(outside func(time.Time) (bool, bool), a, b time.Time, tol time.Duration) time.Time {
	outA, okA := outside(a)
	if !okA {
		return b
	}

	for iter := 0; iter < 24 && b.Sub(a) > tol; iter++ {
		mid := a.Add(b.Sub(a) / 2)
		outM, ok := outside(mid)
		if !ok {
			// Undefined midpoint: shrink from the far end and move on.
			b = mid
			continue
		}
		if outM == outA {
			a = mid
		} else {
			b = mid
		}
	}
	return a.Add(b.Sub(a) / 2)
}

// ScanUpwardCrossing walks forward from start in coarse steps until
// the signed deviation of tg transitions from negative to
// non-negative, then bisects the bracket. It reports false when no
// such transition occurs within maxSteps.
//
// This is the directional variant of the window search used for the
// retrograde shadow exit: the planet must return *up through* the
// station longitude, not merely approach it.
func ScanUpwardCrossing(tg Target, start time.Time, step time.Duration, maxSteps int, tol time.Duration) (time.Time, bool) {
	if step <= 0 || maxSteps <= 0 {
		return time.Time{}, false
	}

	prev := start
	dPrev, err := tg.Deviation(prev)
	for i := 0; err != nil && i < maxSteps; i++ {
		prev = prev.Add(step)
		dPrev, err = tg.Deviation(prev)
	}
	if err != nil {
		return time.Time{}, false
	}

	for i := 0; i < maxSteps; i++ {
		next := prev.Add(step)
		dNext, derr := tg.Deviation(next)
		if derr != nil {
			prev = next
			continue
		}

		if dPrev < 0 && dNext >= 0 {
			t, rerr := Refine(tg, Bracket{Lo: prev, Hi: next}, DefaultMaxIter, tol)
			if rerr != nil {
				return next, true
			}
			return t, true
		}

		prev, dPrev = next, dNext
	}
	return time.Time{}, false
}
