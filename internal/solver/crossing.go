package solver

import (
	"math"
	"time"
)

// Bracket is a time interval known to contain a sign change of the
// search function.
type Bracket struct {
	Lo, Hi time.Time
}

// StateChange records an integer-state transition between two adjacent
// samples. The exact time still has to be refined against the
// underlying continuous quantity.
type StateChange struct {
	Lo, Hi   time.Time
	From, To int
}

// Crossings scans adjacent samples for sign changes of
// normalize(value - target) and returns the surviving brackets.
//
// The |d_i - d_{i+1}| < 180 guard rejects false crossings produced by
// the angular metric wrapping through +-180 degrees instead of truly
// passing through the target.
func Crossings(samples []Sample, target float64, wrap Wrap) []Bracket {
	var brackets []Bracket

	for i := 0; i+1 < len(samples); i++ {
		d0 := normalize(samples[i].Value-target, wrap)
		d1 := normalize(samples[i+1].Value-target, wrap)

		crossed := d0*d1 < 0 || (d0 == 0 && d1 != 0)
		if !crossed {
			continue
		}
		if math.Abs(d0-d1) >= 180 {
			// Wrapped through the far side of the circle, not a crossing.
			continue
		}
		brackets = append(brackets, Bracket{Lo: samples[i].Time, Hi: samples[i+1].Time})
	}
	return brackets
}

// StateChanges scans adjacent discrete samples for state transitions.
func StateChanges(samples []DiscreteSample) []StateChange {
	var changes []StateChange

	for i := 0; i+1 < len(samples); i++ {
		if samples[i].State == samples[i+1].State {
			continue
		}
		changes = append(changes, StateChange{
			Lo:   samples[i].Time,
			Hi:   samples[i+1].Time,
			From: samples[i].State,
			To:   samples[i+1].State,
		})
	}
	return changes
}
