// Package almagest detects discrete astronomical events (aspects,
// zodiac ingresses, retrograde stations, lunar nodes and standstills,
// eclipses, seasons, moon phases and local almanac events) over a
// span of years, to sub-minute precision.
//
// The public surface of this package is the event model: Event, Kind,
// Interval, and the deduplication post-filter. The detection engine
// itself lives under internal/: a generic sample/bracket/bisect solver
// (internal/solver) driven by approximate ephemeris models
// (internal/ephem) and per-category detectors (internal/detect).
package almagest

// Coordinates represent an observer's location, used by the local
// almanac detectors (rise/set, meridian transits).
type Coordinates struct {
	Lat       float64 // degrees, north positive
	Lon       float64 // degrees, east positive (west negative, e.g. -105 for 105°W)
	Elevation float64 // meters above sea level (reserved for future use)
}
