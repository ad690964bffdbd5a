package ephemeris

import (
	"math"
	"time"

	"github.com/skyplan/skyplan/internal/transform"
)

// Body identifies a solar-system body whose position is a function of time.
type Body int

const (
	BodyMercury Body = iota
	BodyVenus
	BodyMars
	BodyJupiter
	BodySaturn
	BodyUranus
	BodyNeptune
	BodyMoon
	BodyComet
)

var bodyNames = map[Body]string{
	BodyMercury: "mercury",
	BodyVenus:   "venus",
	BodyMars:    "mars",
	BodyJupiter: "jupiter",
	BodySaturn:  "saturn",
	BodyUranus:  "uranus",
	BodyNeptune: "neptune",
	BodyMoon:    "moon",
	BodyComet:   "comet",
}

func (b Body) String() string {
	if s, ok := bodyNames[b]; ok {
		return s
	}
	return "unknown"
}

// BodyFromName resolves a lowercase body name. Returns false for names the
// ephemeris does not model.
func BodyFromName(name string) (Body, bool) {
	for b, s := range bodyNames {
		if s == name {
			return b, true
		}
	}
	return 0, false
}

// elements holds J2000 Keplerian orbital elements and their secular rates
// per Julian century, from the JPL approximate-position tables. Angles in
// degrees, semi-major axis in AU.
type elements struct {
	a, aDot       float64 // semi-major axis
	e, eDot       float64 // eccentricity
	i, iDot       float64 // inclination
	l, lDot       float64 // mean longitude
	peri, periDot float64 // longitude of perihelion
	node, nodeDot float64 // longitude of ascending node
}

var planetElements = map[Body]elements{
	BodyMercury: {0.38709927, 0.00000037, 0.20563593, 0.00001906, 7.00497902, -0.00594749,
		252.25032350, 149472.67411175, 77.45779628, 0.16047689, 48.33076593, -0.12534081},
	BodyVenus: {0.72333566, 0.00000390, 0.00677672, -0.00004107, 3.39467605, -0.00078890,
		181.97909950, 58517.81538729, 131.60246718, 0.00268329, 76.67984255, -0.27769418},
	BodyMars: {1.52371034, 0.00001847, 0.09339410, 0.00007882, 1.84969142, -0.00813131,
		-4.55343205, 19140.30268499, -23.94362959, 0.44441088, 49.55953891, -0.29257343},
	BodyJupiter: {5.20288700, -0.00011607, 0.04838624, -0.00013253, 1.30439695, -0.00183714,
		34.39644051, 3034.74612775, 14.72847983, 0.21252668, 100.47390909, 0.20469106},
	BodySaturn: {9.53667594, -0.00125060, 0.05386179, -0.00050991, 2.48599187, 0.00193609,
		49.95424423, 1222.49362201, 92.59887831, -0.41897216, 113.66242448, -0.28867794},
	BodyUranus: {19.18916464, -0.00196176, 0.04725744, -0.00004397, 0.77263783, -0.00242939,
		313.23810451, 428.48202785, 170.95427630, 0.40805281, 74.01692503, 0.04240589},
	BodyNeptune: {30.06992276, 0.00026291, 0.00859048, 0.00005105, 1.77004347, 0.00035372,
		-55.12002969, 218.45945325, 44.96476227, -0.32241464, 131.78422574, -0.00508664},
}

// Earth-Moon barycenter elements, used to shift heliocentric positions to
// geocentric ones.
var earthElements = elements{1.00000261, 0.00000562, 0.01671123, -0.00004392, -0.00001531, -0.01294668,
	100.46457166, 35999.37244981, 102.93768193, 0.32327364, 0.0, 0.0}

// BodyEquatorial returns the geocentric RA/Dec of a dynamic body at time t.
//
// The second return reports whether the position is resolved from a real
// model. Planets and the Moon are always resolved. Comets carry no
// per-object ephemeris here; they get a fixed placeholder position and
// resolved=false, which callers must check before trusting the coordinates.
func BodyEquatorial(b Body, t time.Time) (transform.Equatorial, bool) {
	switch b {
	case BodyMoon:
		return MoonEquatorial(t), true
	case BodyComet:
		// Dynamic but not resolved: anti-solar placeholder keeps charts
		// renderable without pretending to know where the comet is.
		sun := SunEquatorial(t)
		return transform.Equatorial{
			RADeg:  transform.NormalizeDeg(sun.RADeg + 180),
			DecDeg: -sun.DecDeg,
		}, false
	}

	el, ok := planetElements[b]
	if !ok {
		return transform.Equatorial{}, false
	}

	T := transform.JulianCenturies(t)
	px, py, pz := heliocentric(el, T)
	ex, ey, ez := heliocentric(earthElements, T)

	// Geocentric ecliptic vector by subtraction of Earth's position.
	gx := px - ex
	gy := py - ey
	gz := pz - ez

	lambda := math.Atan2(gy, gx)
	beta := math.Atan2(gz, math.Hypot(gx, gy))

	return eclipticToEquatorial(lambda, beta, transform.DaysSinceJ2000(t)), true
}

// heliocentric computes the heliocentric ecliptic position (AU) of a body
// from its propagated orbital elements at T centuries past J2000.
func heliocentric(el elements, T float64) (x, y, z float64) {
	a := el.a + el.aDot*T
	e := el.e + el.eDot*T
	i := transform.Deg2Rad(el.i + el.iDot*T)
	l := el.l + el.lDot*T
	peri := el.peri + el.periDot*T
	node := transform.Deg2Rad(el.node + el.nodeDot*T)

	// Argument of perihelion and mean anomaly.
	omega := transform.Deg2Rad(peri - (el.node + el.nodeDot*T))
	M := transform.Deg2Rad(wrapMeanAnomaly(l - peri))

	E := solveKepler(M, e)

	// Position in the orbital plane.
	xp := a * (math.Cos(E) - e)
	yp := a * math.Sqrt(1-e*e) * math.Sin(E)

	// Rotate by argument of perihelion, inclination, ascending node.
	cosO, sinO := math.Cos(node), math.Sin(node)
	cosI, sinI := math.Cos(i), math.Sin(i)
	cosW, sinW := math.Cos(omega), math.Sin(omega)

	x = (cosW*cosO-sinW*sinO*cosI)*xp + (-sinW*cosO-cosW*sinO*cosI)*yp
	y = (cosW*sinO+sinW*cosO*cosI)*xp + (-sinW*sinO+cosW*cosO*cosI)*yp
	z = (sinW*sinI)*xp + (cosW*sinI)*yp
	return x, y, z
}

// solveKepler iterates Kepler's equation E - e*sin(E) = M for the eccentric
// anomaly. Newton's method converges in a handful of steps for planetary
// eccentricities.
func solveKepler(M, e float64) float64 {
	E := M + e*math.Sin(M)
	for iter := 0; iter < 10; iter++ {
		dE := (E - e*math.Sin(E) - M) / (1 - e*math.Cos(E))
		E -= dE
		if math.Abs(dE) < 1e-8 {
			break
		}
	}
	return E
}

// wrapMeanAnomaly wraps degrees to [-180, 180] for a well-conditioned
// Kepler solve.
func wrapMeanAnomaly(d float64) float64 {
	d = math.Mod(d, 360.0)
	if d > 180 {
		d -= 360
	}
	if d < -180 {
		d += 360
	}
	return d
}
