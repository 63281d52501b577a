package ephem

import "errors"

var (
	// ErrUnknownBody is returned when a body name is not in the lookup table.
	ErrUnknownBody = errors.New("unknown body")

	// ErrOutOfRange is returned when a time falls outside the validity
	// window of the planetary element table (1800-2050).
	ErrOutOfRange = errors.New("time outside ephemeris validity range")

	// ErrBadGeometry is returned for degenerate observer/target pairs,
	// e.g. observing the Earth from the Earth.
	ErrBadGeometry = errors.New("cannot observe body from itself")
)
