package transform

import (
	"math"
	"time"
)

// ToHorizontal converts equatorial coordinates to horizontal coordinates
// for the given observer and local sidereal time (degrees).
//
// Hour angle H = LST - RA, wrapped to [-180, 180]. Altitude and azimuth via
// the standard spherical triangle relations; azimuth is measured from North
// through East and normalized to [0, 360).
//
// At the poles (|lat| = 90) every direction along the horizon is "north" or
// "south"; azimuth is conventionally reported as 0 there. This is a fixed
// policy for a degenerate-but-valid input, not an error.
func ToHorizontal(eq Equatorial, loc Location, lstDeg float64) Horizontal {
	H := Deg2Rad(wrap180(lstDeg - eq.RADeg))
	dec := Deg2Rad(eq.DecDeg)
	lat := Deg2Rad(loc.LatDeg)

	sinAlt := math.Sin(dec)*math.Sin(lat) + math.Cos(dec)*math.Cos(lat)*math.Cos(H)
	// Guard asin domain against float rounding at |sinAlt| slightly > 1.
	if sinAlt > 1 {
		sinAlt = 1
	} else if sinAlt < -1 {
		sinAlt = -1
	}
	alt := math.Asin(sinAlt)

	if math.Abs(loc.LatDeg) >= 90 {
		return Horizontal{AltDeg: Rad2Deg(alt), AzDeg: 0}
	}

	az := math.Atan2(-math.Sin(H), math.Tan(dec)*math.Cos(lat)-math.Sin(lat)*math.Cos(H))

	return Horizontal{
		AltDeg: Rad2Deg(alt),
		AzDeg:  NormalizeDeg(Rad2Deg(az)),
	}
}

// HorizontalAt is a convenience wrapper that derives LST from the instant.
func HorizontalAt(eq Equatorial, loc Location, t time.Time) Horizontal {
	return ToHorizontal(eq, loc, LST(t, loc.LonDeg))
}

// AngularSeparation returns the angular distance in degrees between two
// horizontal positions using the spherical law of cosines.
func AngularSeparation(a, b Horizontal) float64 {
	alt1 := Deg2Rad(a.AltDeg)
	alt2 := Deg2Rad(b.AltDeg)
	dAz := Deg2Rad(a.AzDeg - b.AzDeg)

	cosSep := math.Sin(alt1)*math.Sin(alt2) + math.Cos(alt1)*math.Cos(alt2)*math.Cos(dAz)
	if cosSep > 1 {
		cosSep = 1
	} else if cosSep < -1 {
		cosSep = -1
	}
	return Rad2Deg(math.Acos(cosSep))
}

// EquatorialSeparation returns the angular distance in degrees between two
// equatorial positions. Same spherical relation, with declination taking the
// role of altitude and right ascension the role of azimuth.
func EquatorialSeparation(a, b Equatorial) float64 {
	return AngularSeparation(
		Horizontal{AltDeg: a.DecDeg, AzDeg: a.RADeg},
		Horizontal{AltDeg: b.DecDeg, AzDeg: b.RADeg},
	)
}
