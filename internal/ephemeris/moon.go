package ephemeris

import (
	"math"
	"time"

	"github.com/skyplan/skyplan/internal/transform"
)

// MoonState is the Moon's observer-relative position and illuminated
// fraction at a single instant.
type MoonState struct {
	Instant      time.Time
	AltDeg       float64
	AzDeg        float64
	Illumination float64 // [0, 1]; 0 = new moon, 1 = full moon
}

// MoonEquatorial returns the Moon's approximate geocentric RA/Dec at time t.
//
// Mean orbital elements only, no perturbation series beyond the dominant
// evection/equation-of-center terms. Position error stays under about a
// degree, which is plenty for moonlight planning.
func MoonEquatorial(t time.Time) transform.Equatorial {
	d := transform.DaysSinceJ2000(t)
	T := transform.JulianCenturies(t)

	// Mean elements (degrees).
	L := 218.316 + 481267.8813*T  // mean longitude
	M := 134.963 + 477198.8676*T  // mean anomaly
	F := 93.272 + 483202.0175*T   // argument of latitude

	Mr := transform.Deg2Rad(M)
	Fr := transform.Deg2Rad(F)

	// Ecliptic longitude and latitude with the largest periodic terms.
	lambda := transform.Deg2Rad(L + 6.289*math.Sin(Mr))
	beta := transform.Deg2Rad(5.128 * math.Sin(Fr))

	return eclipticToEquatorial(lambda, beta, d)
}

// MoonIllumination returns the illuminated fraction of the Moon's disc at
// time t, derived from the phase angle. The phase angle is the supplement of
// the Sun-Moon elongation seen from Earth, so
//
//	illumination = (1 + cos(180° - elongation)) / 2 = (1 - cos(elongation)) / 2
//
// giving 0 at new moon (elongation 0) and 1 at full moon (elongation 180°).
func MoonIllumination(t time.Time) float64 {
	sun := SunEquatorial(t)
	moon := MoonEquatorial(t)

	elong := transform.Deg2Rad(transform.EquatorialSeparation(sun, moon))
	illum := (1 - math.Cos(elong)) / 2

	// Keep strictly within [0, 1] against float rounding.
	if illum < 0 {
		illum = 0
	} else if illum > 1 {
		illum = 1
	}
	return illum
}

// MoonStateAt returns the Moon's horizontal position and illumination for an
// observer at time t.
func MoonStateAt(loc transform.Location, t time.Time) MoonState {
	h := transform.HorizontalAt(MoonEquatorial(t), loc, t)
	return MoonState{
		Instant:      t,
		AltDeg:       h.AltDeg,
		AzDeg:        h.AzDeg,
		Illumination: MoonIllumination(t),
	}
}
