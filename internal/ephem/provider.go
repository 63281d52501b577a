package ephem

import (
	"math"
	"time"

	"github.com/thurmanmarka/almagest/internal/timeutil"
)

// Tier selects the precision of a position evaluation.
//
// Geometric positions are cheap and systematically displaced by
// light-time; they are suitable for bracketing a search but never for
// reporting a timestamp. Apparent positions are light-time corrected
// and are the reporting tier.
type Tier int

const (
	Geometric Tier = iota
	Apparent
)

// Center selects the observing center for longitude metrics.
type Center int

const (
	Geocentric Center = iota
	Heliocentric
)

// Ecliptic is an ecliptic position relative to the observing center.
type Ecliptic struct {
	Lon  float64 // degrees, [0, 360)
	Lat  float64 // degrees
	Dist float64 // AU
}

const (
	kmPerAU = 149597870.7
	// Light travel time across one AU, in days.
	lightDaysPerAU = 499.004784 / 86400.0
)

// Provider computes positions for the supported bodies. It is an
// immutable value: construct one per worker and share it read-only.
// Construction is free; the "load cost" of a real ephemeris file would
// be paid here once per worker.
type Provider struct{}

// NewProvider returns a ready-to-use position provider.
func NewProvider() *Provider {
	return &Provider{}
}

func (p *Provider) checkRange(t time.Time) error {
	if t.Before(elementsValidFrom) || t.After(elementsValidTo) {
		return ErrOutOfRange
	}
	return nil
}

// EclipticPosition returns the ecliptic position of body as seen from
// center at time t, at the requested precision tier.
func (p *Provider) EclipticPosition(t time.Time, body Body, center Center, tier Tier) (Ecliptic, error) {
	if err := p.checkRange(t); err != nil {
		return Ecliptic{}, err
	}

	switch center {
	case Heliocentric:
		return p.heliocentricPosition(t, body, tier)
	default:
		return p.geocentricPosition(t, body, tier)
	}
}

func (p *Provider) geocentricPosition(t time.Time, body Body, tier Tier) (Ecliptic, error) {
	switch body {
	case Earth:
		return Ecliptic{}, ErrBadGeometry
	case Sun:
		// The solar series yields the apparent longitude directly; the
		// geometric/apparent distinction is below its noise floor.
		lon, dist := solarLongitude(t)
		return Ecliptic{Lon: lon, Dist: dist}, nil
	case Moon:
		// Light time to the Moon is ~1.3 s, irrelevant at this accuracy.
		lon, lat, km := lunarPosition(t)
		return Ecliptic{Lon: lon, Lat: lat, Dist: km / kmPerAU}, nil
	}

	earth := heliocentric(Earth, t)
	rel := heliocentric(body, t).sub(earth)

	if tier == Apparent {
		// Light-time iteration: re-evaluate the target at t - tau.
		// Two rounds are plenty; tau changes by microseconds after that.
		for i := 0; i < 2; i++ {
			tau := rel.norm() * lightDaysPerAU
			emit := t.Add(-time.Duration(tau * 24 * float64(time.Hour)))
			rel = heliocentric(body, emit).sub(earth)
		}
	}

	return vectorToEcliptic(rel), nil
}

func (p *Provider) heliocentricPosition(t time.Time, body Body, tier Tier) (Ecliptic, error) {
	switch body {
	case Sun:
		return Ecliptic{}, ErrBadGeometry
	case Moon:
		// Compose: heliocentric Moon = heliocentric Earth + geocentric Moon.
		lon, lat, km := lunarPosition(t)
		geo := eclipticToVector(lon, lat, km/kmPerAU)
		e := heliocentric(Earth, t)
		return vectorToEcliptic(vector3{e.x + geo.x, e.y + geo.y, e.z + geo.z}), nil
	}

	pos := heliocentric(body, t)
	if tier == Apparent {
		for i := 0; i < 2; i++ {
			tau := pos.norm() * lightDaysPerAU
			emit := t.Add(-time.Duration(tau * 24 * float64(time.Hour)))
			pos = heliocentric(body, emit)
		}
	}
	return vectorToEcliptic(pos), nil
}

// Equatorial returns apparent RA/Dec (degrees) of body as seen from
// Earth at time t.
func (p *Provider) Equatorial(t time.Time, body Body) (raDeg, decDeg float64, err error) {
	pos, err := p.geocentricPosition(t, body, Apparent)
	if err != nil {
		return 0, 0, err
	}
	ra, dec := eclipticToEquatorial(t, pos.Lon, pos.Lat)
	return ra, dec, nil
}

// Separation returns the geocentric angular separation (degrees)
// between two bodies at time t, at the requested tier.
func (p *Provider) Separation(t time.Time, a, b Body, tier Tier) (float64, error) {
	pa, err := p.geocentricPosition(t, a, tier)
	if err != nil {
		return 0, err
	}
	pb, err := p.geocentricPosition(t, b, tier)
	if err != nil {
		return 0, err
	}
	return timeutil.Separation(pa.Lon, pa.Lat, pb.Lon, pb.Lat), nil
}

// HourAngle returns the local hour angle (degrees, [0,360)) of body
// for an observer at geographic longitude obsLon at time t. Zero puts
// the body on the upper meridian, 180 on the lower.
func (p *Provider) HourAngle(t time.Time, body Body, obsLon float64) (float64, error) {
	ra, _, err := p.Equatorial(t, body)
	if err != nil {
		return 0, err
	}
	d := timeutil.DaysSinceJ2000(t)
	gmst := 280.46061837 + 360.98564736629*d
	return timeutil.Normalize360(gmst + obsLon - ra), nil
}

// Altitude returns the approximate topocentric altitude (degrees) of
// body for an observer at geographic lat/lon (degrees) at time t. For
// the Moon a horizontal-parallax correction is applied; for everything
// else the geocentric altitude is accurate enough for rise/set work.
func (p *Provider) Altitude(t time.Time, body Body, obsLat, obsLon float64) (float64, error) {
	ra, dec, err := p.Equatorial(t, body)
	if err != nil {
		return 0, err
	}

	raRad := timeutil.Deg2Rad(ra)
	decRad := timeutil.Deg2Rad(dec)
	latRad := timeutil.Deg2Rad(obsLat)

	// Local sidereal time.
	d := timeutil.DaysSinceJ2000(t)
	gmst := 280.46061837 + 360.98564736629*d
	lst := timeutil.Deg2Rad(timeutil.Normalize360(gmst + obsLon))

	H := lst - raRad
	for H > math.Pi {
		H -= 2 * math.Pi
	}
	for H < -math.Pi {
		H += 2 * math.Pi
	}

	sinAlt := math.Sin(latRad)*math.Sin(decRad) + math.Cos(latRad)*math.Cos(decRad)*math.Cos(H)
	alt := math.Asin(sinAlt)

	if body == Moon {
		// First-order topocentric correction: the Moon sits lower by
		// roughly pi*cos(alt), with pi the horizontal parallax.
		_, _, km := lunarPosition(t)
		if km > 6378.14 {
			parallax := math.Asin(6378.14 / km)
			alt -= parallax * math.Cos(alt)
		}
	}

	return timeutil.Rad2Deg(alt), nil
}

func vectorToEcliptic(v vector3) Ecliptic {
	lon := timeutil.Rad2Deg(math.Atan2(v.y, v.x))
	r := v.norm()
	lat := 0.0
	if r > 0 {
		lat = timeutil.Rad2Deg(math.Asin(v.z / r))
	}
	return Ecliptic{Lon: timeutil.Normalize360(lon), Lat: lat, Dist: r}
}

func eclipticToVector(lonDeg, latDeg, dist float64) vector3 {
	lon := timeutil.Deg2Rad(lonDeg)
	lat := timeutil.Deg2Rad(latDeg)
	return vector3{
		x: dist * math.Cos(lat) * math.Cos(lon),
		y: dist * math.Cos(lat) * math.Sin(lon),
		z: dist * math.Sin(lat),
	}
}
