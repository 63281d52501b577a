package almagest

import (
	"fmt"
	"time"
)

// Interval is an inclusive span of calendar years to generate events
// for. Detectors may scan past End for lookahead (a shadow exit can
// trail its station by many months) but must clip emitted events to
// the interval.
type Interval struct {
	StartYear int
	EndYear   int
}

// Years builds an interval from a first and last year, inclusive.
func Years(start, end int) Interval {
	return Interval{StartYear: start, EndYear: end}
}

// Start returns the first instant of the interval (UTC).
func (iv Interval) Start() time.Time {
	return time.Date(iv.StartYear, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the first instant after the interval (UTC).
func (iv Interval) End() time.Time {
	return time.Date(iv.EndYear+1, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether t falls inside the interval.
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start()) && t.Before(iv.End())
}

// Validate rejects inverted or absurd year ranges before any work is
// scheduled.
func (iv Interval) Validate() error {
	if iv.EndYear < iv.StartYear {
		return fmt.Errorf("end year %d before start year %d", iv.EndYear, iv.StartYear)
	}
	return nil
}
