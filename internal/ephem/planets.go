package ephem

import (
	"math"
	"time"

	"github.com/thurmanmarka/almagest/internal/timeutil"
)

// orbitalElements holds Keplerian elements at J2000.0 plus centennial
// rates (Standish's approximate planetary elements, valid 1800-2050).
// Angles in degrees, a in AU, rates per Julian century.
type orbitalElements struct {
	a, aDot       float64 // semi-major axis
	e, eDot       float64 // eccentricity
	i, iDot       float64 // inclination
	l, lDot       float64 // mean longitude
	peri, periDot float64 // longitude of perihelion
	node, nodeDot float64 // longitude of ascending node
}

// Validity window for the element table. Outside it the provider
// reports an evaluation error rather than returning garbage.
var (
	elementsValidFrom = time.Date(1800, time.January, 1, 0, 0, 0, 0, time.UTC)
	elementsValidTo   = time.Date(2050, time.January, 1, 0, 0, 0, 0, time.UTC)
)

var planetElements = map[Body]orbitalElements{
	Mercury: {0.38709927, 0.00000037, 0.20563593, 0.00001906, 7.00497902, -0.00594749,
		252.25032350, 149472.67411175, 77.45779628, 0.16047689, 48.33076593, -0.12534081},
	Venus: {0.72333566, 0.00000390, 0.00677672, -0.00004107, 3.39467605, -0.00078890,
		181.97909950, 58517.81538729, 131.60246718, 0.00268329, 76.67984255, -0.27769418},
	Earth: {1.00000261, 0.00000562, 0.01671123, -0.00004392, -0.00001531, -0.01294668,
		100.46457166, 35999.37244981, 102.93768193, 0.32327364, 0, 0},
	Mars: {1.52371034, 0.00001847, 0.09339410, 0.00007882, 1.84969142, -0.00813131,
		-4.55343205, 19140.30268499, -23.94362959, 0.44441088, 49.55953891, -0.29257343},
	Jupiter: {5.20288700, -0.00011607, 0.04838624, -0.00013253, 1.30439695, -0.00183714,
		34.39644051, 3034.74612775, 14.72847983, 0.21252668, 100.47390909, 0.20469106},
	Saturn: {9.53667594, -0.00125060, 0.05386179, -0.00050991, 2.48599187, 0.00193609,
		49.95424423, 1222.49362201, 92.59887831, -0.41897216, 113.66242448, -0.28867794},
	Uranus: {19.18916464, -0.00196176, 0.04725744, -0.00004397, 0.77263783, -0.00242939,
		313.23810451, 428.48202785, 170.95427630, 0.40805281, 74.01692503, 0.04240589},
	Neptune: {30.06992276, 0.00026291, 0.00859048, 0.00005105, 1.77004347, 0.00035372,
		-55.12002969, 218.45945325, 44.96476227, -0.32241464, 131.78422574, -0.00508664},
	Pluto: {39.48211675, -0.00031596, 0.24882730, 0.00005170, 17.14001206, 0.00004818,
		238.92903833, 145.20780515, 224.06891629, -0.04062942, 110.30393684, -0.01183482},
}

// vector3 is a heliocentric ecliptic position in AU.
type vector3 struct {
	x, y, z float64
}

func (v vector3) sub(o vector3) vector3 {
	return vector3{v.x - o.x, v.y - o.y, v.z - o.z}
}

func (v vector3) norm() float64 {
	return math.Sqrt(v.x*v.x + v.y*v.y + v.z*v.z)
}

// heliocentric returns the heliocentric ecliptic position of a planet
// (or the Earth-Moon barycenter for Earth) at t.
func heliocentric(b Body, t time.Time) vector3 {
	el := planetElements[b]
	T := timeutil.JulianCenturies(t)

	a := el.a + el.aDot*T
	e := el.e + el.eDot*T
	i := timeutil.Deg2Rad(el.i + el.iDot*T)
	l := el.l + el.lDot*T
	peri := el.peri + el.periDot*T
	node := timeutil.Deg2Rad(el.node + el.nodeDot*T)

	// Argument of perihelion and mean anomaly.
	argPeri := timeutil.Deg2Rad(peri) - node
	M := timeutil.Deg2Rad(timeutil.Normalize180(l - peri))

	E := solveKepler(M, e)

	// Position in the orbital plane.
	xp := a * (math.Cos(E) - e)
	yp := a * math.Sqrt(1-e*e) * math.Sin(E)

	cosW, sinW := math.Cos(argPeri), math.Sin(argPeri)
	cosO, sinO := math.Cos(node), math.Sin(node)
	cosI, sinI := math.Cos(i), math.Sin(i)

	return vector3{
		x: (cosW*cosO-sinW*sinO*cosI)*xp + (-sinW*cosO-cosW*sinO*cosI)*yp,
		y: (cosW*sinO+sinW*cosO*cosI)*xp + (-sinW*sinO+cosW*cosO*cosI)*yp,
		z: sinW*sinI*xp + cosW*sinI*yp,
	}
}

// solveKepler iterates Kepler's equation M = E - e sin E for the
// eccentric anomaly E (radians). Newton's method converges in a
// handful of steps for every eccentricity in the table.
func solveKepler(M, e float64) float64 {
	E := M + e*math.Sin(M)
	for iter := 0; iter < 10; iter++ {
		dM := M - (E - e*math.Sin(E))
		dE := dM / (1 - e*math.Cos(E))
		E += dE
		if math.Abs(dE) < 1e-9 {
			break
		}
	}
	return E
}
