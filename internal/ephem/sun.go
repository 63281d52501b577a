package ephem

import (
	"math"
	"time"

	"github.com/thurmanmarka/almagest/internal/timeutil"
)

// solarLongitude returns the Sun's apparent geocentric ecliptic
// longitude (degrees) and the Earth-Sun distance (AU) at t.
//
// Standard NOAA/Meeus low-precision model:
//
//	g  = mean anomaly of the Sun
//	q  = mean longitude of the Sun
//	L  = ecliptic longitude with equation of center
//
// The series constants already fold in annual aberration, so this is
// the apparent longitude, good to about 0.01 degrees.
func solarLongitude(t time.Time) (lonDeg, distAU float64) {
	d := timeutil.DaysSinceJ2000(t)

	g := timeutil.Deg2Rad(357.529 + 0.98560028*d)
	q := 280.459 + 0.98564736*d

	lonDeg = timeutil.Normalize360(q + 1.915*math.Sin(g) + 0.020*math.Sin(2*g))
	distAU = 1.00014 - 0.01671*math.Cos(g) - 0.00014*math.Cos(2*g)
	return lonDeg, distAU
}

// obliquity returns the mean obliquity of the ecliptic in radians.
func obliquity(t time.Time) float64 {
	d := timeutil.DaysSinceJ2000(t)
	return timeutil.Deg2Rad(23.439291 - 0.00000036*d)
}

// eclipticToEquatorial converts ecliptic lon/lat (degrees) at time t
// into RA/Dec (degrees, RA in [0,360)).
func eclipticToEquatorial(t time.Time, lonDeg, latDeg float64) (raDeg, decDeg float64) {
	eps := obliquity(t)
	lon := timeutil.Deg2Rad(lonDeg)
	lat := timeutil.Deg2Rad(latDeg)

	x := math.Cos(lat) * math.Cos(lon)
	y := math.Cos(lat)*math.Sin(lon)*math.Cos(eps) - math.Sin(lat)*math.Sin(eps)
	z := math.Cos(lat)*math.Sin(lon)*math.Sin(eps) + math.Sin(lat)*math.Cos(eps)

	ra := math.Atan2(y, x)
	if ra < 0 {
		ra += 2 * math.Pi
	}
	return timeutil.Rad2Deg(ra), timeutil.Rad2Deg(math.Asin(z))
}
