// Package timeutil holds the time and angle arithmetic shared by the
// ephemeris models and the event solver: Julian-date conversions for the
// linear time scale the search algorithms bisect on, and degree helpers
// for the wraparound-aware angular metrics.
package timeutil

import (
	"math"
	"time"
)

// j2000 is the J2000.0 epoch: 2000-01-01 12:00:00 UTC.
var j2000 = time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC)

// J2000JD is the Julian date of the J2000.0 epoch.
const J2000JD = 2451545.0

// DaysSinceJ2000 returns the number of (UTC) days since the J2000.0 epoch.
//
// This is an approximation suitable for low/medium-precision astronomy.
// For high-precision work you would want a true TT-based Julian day, but
// the series models here are the dominant error source anyway.
func DaysSinceJ2000(t time.Time) float64 {
	return t.UTC().Sub(j2000).Hours() / 24.0
}

// JulianDay returns the Julian date for t (UTC).
func JulianDay(t time.Time) float64 {
	return J2000JD + DaysSinceJ2000(t)
}

// FromJulianDay converts a Julian date back into a UTC time.Time,
// rounded to the nearest millisecond to suppress float noise.
func FromJulianDay(jd float64) time.Time {
	days := jd - J2000JD
	ms := math.Round(days * 24 * 3600 * 1000)
	return j2000.Add(time.Duration(ms) * time.Millisecond)
}

// JulianCenturies returns centuries since J2000.0.
func JulianCenturies(t time.Time) float64 {
	return DaysSinceJ2000(t) / 36525.0
}

func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180.0
}

func Rad2Deg(r float64) float64 {
	return r * 180.0 / math.Pi
}

// Normalize360 maps an angle in degrees into [0, 360).
func Normalize360(d float64) float64 {
	d = math.Mod(d, 360.0)
	if d < 0 {
		d += 360.0
	}
	return d
}

// Normalize180 maps an angle in degrees into [-180, 180). This is the
// signed wraparound metric the crossing detector operates on.
func Normalize180(d float64) float64 {
	d = math.Mod(d+180.0, 360.0)
	if d < 0 {
		d += 360.0
	}
	return d - 180.0
}

// Separation returns the great-circle angle in degrees between two
// directions given as (longitude, latitude) pairs in degrees. Works for
// ecliptic lon/lat as well as RA/Dec.
func Separation(lon1, lat1, lon2, lat2 float64) float64 {
	b1 := Deg2Rad(lat1)
	b2 := Deg2Rad(lat2)
	dl := Deg2Rad(lon1 - lon2)

	cosPsi := math.Sin(b1)*math.Sin(b2) + math.Cos(b1)*math.Cos(b2)*math.Cos(dl)
	if cosPsi > 1 {
		cosPsi = 1
	} else if cosPsi < -1 {
		cosPsi = -1
	}
	return Rad2Deg(math.Acos(cosPsi))
}
