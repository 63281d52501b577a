// Package ephem is the position provider: approximate apparent and
// geometric positions for the Sun, Moon, and planets.
//
// The models are truncated Meeus/Standish-style series, good to roughly
// arcminute level for the planets and a few tenths of a degree for the
// Moon. That is the accuracy tier the event detectors are calibrated
// for; swapping in a full ephemeris would only tighten timestamps.
package ephem

import (
	"fmt"
	"strings"
)

// Body identifies a celestial body supported by the provider.
type Body int

const (
	Sun Body = iota
	Moon
	Mercury
	Venus
	Earth
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
)

var bodyNames = map[Body]string{
	Sun:     "sun",
	Moon:    "moon",
	Mercury: "mercury",
	Venus:   "venus",
	Earth:   "earth",
	Mars:    "mars",
	Jupiter: "jupiter",
	Saturn:  "saturn",
	Uranus:  "uranus",
	Neptune: "neptune",
	Pluto:   "pluto",
}

// nameTable resolves user-facing body names to identifiers. Keys are
// lowercase; ResolveBody folds case before the lookup.
var nameTable = func() map[string]Body {
	m := make(map[string]Body, len(bodyNames))
	for b, n := range bodyNames {
		m[n] = b
	}
	return m
}()

func (b Body) String() string {
	if n, ok := bodyNames[b]; ok {
		return n
	}
	return fmt.Sprintf("body(%d)", int(b))
}

// Title returns the display form of the body name, e.g. "Jupiter".
func (b Body) Title() string {
	n := b.String()
	if n == "" {
		return n
	}
	return strings.ToUpper(n[:1]) + n[1:]
}

// ResolveBody maps a body name to its identifier. Unknown names return
// an error so callers can skip the body and continue with the rest.
func ResolveBody(name string) (Body, error) {
	b, ok := nameTable[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownBody, name)
	}
	return b, nil
}

// ResolveBodies resolves a list of names, returning the bodies that
// resolved and the names that did not.
func ResolveBodies(names []string) (bodies []Body, unknown []string) {
	for _, n := range names {
		b, err := ResolveBody(n)
		if err != nil {
			unknown = append(unknown, n)
			continue
		}
		bodies = append(bodies, b)
	}
	return bodies, unknown
}
