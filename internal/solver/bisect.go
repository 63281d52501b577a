package solver

import (
	"time"
)

const (
	// DefaultMaxIter bounds the bisection budget. On a bracket of one
	// day, 17 halvings reach about 0.6 seconds.
	DefaultMaxIter = 17

	// DefaultTolerance is the absolute time tolerance at which the
	// bisection stops early.
	DefaultTolerance = time.Second
)

// Refine narrows a bracketed crossing of tg to within tol (or the
// iteration budget, whichever comes first) and returns the refined
// instant.
//
// The invariant is the usual one: the deviation has opposite signs at
// the two ends of the bracket. If the endpoints turn out to share a
// sign (coarse-grid noise can fake a crossing) ErrNoCrossing is
// returned and the caller skips the bracket. If the budget runs out
// before tol is reached, the current midpoint is returned as degraded
// but usable data rather than an error.
func Refine(tg Target, b Bracket, maxIter int, tol time.Duration) (time.Time, error) {
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}
	if tol <= 0 {
		tol = DefaultTolerance
	}

	lo, hi := b.Lo, b.Hi
	dLo, err := tg.Deviation(lo)
	if err != nil {
		return time.Time{}, err
	}
	dHi, err := tg.Deviation(hi)
	if err != nil {
		return time.Time{}, err
	}

	if dLo == 0 {
		return lo, nil
	}
	if dHi == 0 {
		return hi, nil
	}
	if dLo*dHi > 0 {
		return time.Time{}, ErrNoCrossing
	}

	for i := 0; i < maxIter && hi.Sub(lo) > tol; i++ {
		mid := lo.Add(hi.Sub(lo) / 2)

		dMid, err := tg.Deviation(mid)
		if err != nil {
			// Undefined at the exact midpoint: nudge once and retry,
			// otherwise fail closed for this bracket.
			mid = mid.Add(hi.Sub(lo) / 64)
			if dMid, err = tg.Deviation(mid); err != nil {
				return time.Time{}, err
			}
		}

		if dMid == 0 {
			return mid, nil
		}
		if dLo*dMid < 0 {
			hi = mid
		} else {
			lo, dLo = mid, dMid
		}
	}

	return lo.Add(hi.Sub(lo) / 2), nil
}
