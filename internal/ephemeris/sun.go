// Package ephemeris provides low-precision positions for the Sun, Moon, and
// planets, sufficient for observation planning. Accuracy is on the order of
// arcminutes; this is a planning engine, not a pointing system.
package ephemeris

import (
	"math"
	"time"

	"github.com/skyplan/skyplan/internal/transform"
)

// Twilight thresholds in degrees of solar altitude.
const (
	CivilTwilightAlt        = 0.0
	NauticalTwilightAlt     = -6.0
	AstronomicalTwilightAlt = -12.0
	NightAlt                = -18.0
)

// Darkness classifies sky darkness from the sun's altitude.
type Darkness int

const (
	Day Darkness = iota
	CivilTwilight
	NauticalTwilight
	AstronomicalTwilight
	Night // full astronomical night, the only band good for imaging
)

// String returns the conventional name of the darkness band.
func (d Darkness) String() string {
	switch d {
	case Day:
		return "day"
	case CivilTwilight:
		return "civil_twilight"
	case NauticalTwilight:
		return "nautical_twilight"
	case AstronomicalTwilight:
		return "astronomical_twilight"
	case Night:
		return "night"
	}
	return "unknown"
}

// ClassifyDarkness maps a sun altitude to its twilight band.
func ClassifyDarkness(sunAltDeg float64) Darkness {
	switch {
	case sunAltDeg > CivilTwilightAlt:
		return Day
	case sunAltDeg > NauticalTwilightAlt:
		return CivilTwilight
	case sunAltDeg > AstronomicalTwilightAlt:
		return NauticalTwilight
	case sunAltDeg > NightAlt:
		return AstronomicalTwilight
	}
	return Night
}

// SunEquatorial returns the Sun's approximate geocentric RA/Dec at time t.
//
// Standard low-precision model: mean longitude plus equation-of-center
// correction, then ecliptic to equatorial conversion with the mean obliquity.
// Good to roughly an arcminute over the supported window.
func SunEquatorial(t time.Time) transform.Equatorial {
	d := transform.DaysSinceJ2000(t)

	// Mean anomaly and mean longitude of the Sun (degrees).
	g := transform.Deg2Rad(357.529 + 0.98560028*d)
	q := 280.459 + 0.98564736*d

	// Ecliptic longitude with equation of center.
	lambda := transform.Deg2Rad(q) +
		transform.Deg2Rad(1.915)*math.Sin(g) +
		transform.Deg2Rad(0.020)*math.Sin(2*g)

	return eclipticToEquatorial(lambda, 0, d)
}

// SunAltitude returns the Sun's altitude in degrees for an observer at time t.
// Used for twilight classification; negative at night.
func SunAltitude(loc transform.Location, t time.Time) float64 {
	return transform.HorizontalAt(SunEquatorial(t), loc, t).AltDeg
}

// eclipticToEquatorial converts ecliptic longitude/latitude (radians) to
// equatorial coordinates using the slowly-drifting mean obliquity.
func eclipticToEquatorial(lambda, beta, daysSinceJ2000 float64) transform.Equatorial {
	eps := transform.Deg2Rad(23.439 - 0.00000036*daysSinceJ2000)

	sinLambda := math.Sin(lambda)
	x := math.Cos(lambda) * math.Cos(beta)
	y := math.Cos(eps)*sinLambda*math.Cos(beta) - math.Sin(eps)*math.Sin(beta)
	z := math.Sin(eps)*sinLambda*math.Cos(beta) + math.Cos(eps)*math.Sin(beta)

	ra := math.Atan2(y, x)
	if ra < 0 {
		ra += 2 * math.Pi
	}
	dec := math.Asin(clamp1(z))

	return transform.Equatorial{
		RADeg:  transform.Rad2Deg(ra),
		DecDeg: transform.Rad2Deg(dec),
	}
}

func clamp1(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
