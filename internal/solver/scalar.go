// Package solver is the generic event-detection engine: it turns an
// arbitrary scalar function of time into bracketed crossings, refines
// them by bisection to sub-minute precision, and finds the tolerance
// window around a crossing.
//
// The same machinery drives aspects, ingresses, stations, standstills
// and eclipse durations; only the scalar function and the target value
// change between event categories.
package solver

import (
	"errors"
	"time"

	"github.com/thurmanmarka/almagest/internal/timeutil"
)

// Func is a scalar function of time. An error marks the function as
// undefined at that instant; searches skip such points rather than
// aborting (the provider can legitimately fail at a single time).
type Func func(t time.Time) (float64, error)

// DiscreteFunc is an integer-valued step function of time, used for
// metrics like the zodiac sign index where the "crossing" is a state
// change rather than a sign change.
type DiscreteFunc func(t time.Time) (int, error)

// Wrap describes the wraparound semantics of a scalar metric.
type Wrap int

const (
	// WrapNone: plain subtraction.
	WrapNone Wrap = iota
	// WrapDegrees360: differences are angles, normalized into [-180, 180).
	WrapDegrees360
)

// Target defines what "crossing" means: the search operates on
// normalize(F(t) - Value) under the target's wraparound rule.
type Target struct {
	F     Func
	Value float64
	Wrap  Wrap
}

// Deviation evaluates the signed, normalized deviation of the target
// function from the target value at t.
func (tg Target) Deviation(t time.Time) (float64, error) {
	v, err := tg.F(t)
	if err != nil {
		return 0, err
	}
	return normalize(v-tg.Value, tg.Wrap), nil
}

func normalize(d float64, w Wrap) float64 {
	if w == WrapDegrees360 {
		return timeutil.Normalize180(d)
	}
	return d
}

// ErrNoCrossing is returned when a bracket turns out not to contain a
// sign change (numerical noise near the bracket edges can fake one).
var ErrNoCrossing = errors.New("bracket does not contain a crossing")
