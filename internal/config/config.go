// Package config defines the generation settings and their loading.
package config

import (
	"time"

	"github.com/thurmanmarka/almagest"
)

// Config holds every knob the event generator reads. Zero values are
// never used directly; build one with Default and layer overrides on
// top via Load.
type Config struct {
	// StartYear and EndYear bound the generated interval, inclusive.
	StartYear int `koanf:"start_year"`
	EndYear   int `koanf:"end_year"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// OutputMode selects the export target: ics, json or sqlite.
	OutputMode string `koanf:"output_mode"`

	// OutputDir receives the exported calendar files.
	OutputDir string `koanf:"output_dir"`

	// DatabasePath is the SQLite archive location for OutputMode sqlite.
	DatabasePath string `koanf:"database_path"`

	// Workers sets the detector pool size. Zero means one worker per
	// detector.
	Workers int `koanf:"workers"`

	// Observer names and places the rise/set location.
	ObserverName string  `koanf:"observer_name"`
	ObserverLat  float64 `koanf:"observer_lat"`
	ObserverLon  float64 `koanf:"observer_lon"`

	// Feature toggles, one per detector category.
	EnableAspects      bool `koanf:"enable_aspects"`
	EnableHelioAspects bool `koanf:"enable_helio_aspects"`
	EnableZodiac       bool `koanf:"enable_zodiac"`
	EnableRetrograde   bool `koanf:"enable_retrograde"`
	EnableMoonFeatures bool `koanf:"enable_moon_features"`
	EnableMoonPhases   bool `koanf:"enable_moon_phases"`
	EnableEclipses     bool `koanf:"enable_eclipses"`
	EnableSeasons      bool `koanf:"enable_seasons"`
	EnableAlmanac      bool `koanf:"enable_almanac"`
	EnableProgress     bool `koanf:"enable_progress"`
	EnablePatterns     bool `koanf:"enable_patterns"`

	// AspectBodies participate in the geocentric and heliocentric
	// aspect searches and the square-trine pattern search.
	AspectBodies []string `koanf:"aspect_bodies"`

	// Aspects lists the tracked aspect names.
	Aspects []string `koanf:"aspects"`

	// AspectOrb is the orb half-width in degrees.
	AspectOrb float64 `koanf:"aspect_orb"`

	// RetrogradePlanets are scanned for stations and shadow exits.
	RetrogradePlanets []string `koanf:"retrograde_planets"`

	// ZodiacBodies are tracked for sign ingresses.
	ZodiacBodies []string `koanf:"zodiac_bodies"`

	// AlmanacBodies get rise, set and meridian events.
	AlmanacBodies []string `koanf:"almanac_bodies"`
}

// Default returns the stock configuration: the current year, a New
// York observer and every detector enabled.
func Default() *Config {
	year := time.Now().UTC().Year()
	return &Config{
		StartYear:    year,
		EndYear:      year,
		LogLevel:     "info",
		OutputMode:   "ics",
		OutputDir:    "calendars",
		DatabasePath: "almagest.db",
		Workers:      0,

		ObserverName: "New York, USA",
		ObserverLat:  40.7128,
		ObserverLon:  -74.0060,

		EnableAspects:      true,
		EnableHelioAspects: true,
		EnableZodiac:       true,
		EnableRetrograde:   true,
		EnableMoonFeatures: true,
		EnableMoonPhases:   true,
		EnableEclipses:     true,
		EnableSeasons:      true,
		EnableAlmanac:      true,
		EnableProgress:     true,
		EnablePatterns:     true,

		AspectBodies: []string{
			"mercury", "venus", "mars", "jupiter",
			"saturn", "uranus", "neptune", "pluto",
		},
		Aspects: []string{
			"conjunction", "square", "trine", "opposition",
			"sextile", "quintile", "biquintile",
		},
		AspectOrb: 1.0,

		RetrogradePlanets: []string{
			"mercury", "venus", "mars", "jupiter",
			"saturn", "uranus", "neptune", "pluto",
		},
		ZodiacBodies: []string{
			"sun", "moon", "mercury", "venus", "mars",
			"jupiter", "saturn", "uranus", "neptune", "pluto",
		},
		AlmanacBodies: []string{"sun", "moon"},
	}
}

// Observer returns the configured location as coordinates.
func (c *Config) Observer() almagest.Coordinates {
	return almagest.Coordinates{Lat: c.ObserverLat, Lon: c.ObserverLon}
}

// Interval returns the configured year range.
func (c *Config) Interval() almagest.Interval {
	return almagest.Interval{StartYear: c.StartYear, EndYear: c.EndYear}
}
