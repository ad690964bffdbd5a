package transform

import (
	"fmt"
	"math"
)

// Equatorial holds equatorial sky coordinates in degrees.
// RA is measured eastward along the celestial equator, J2000 epoch for
// catalog objects.
type Equatorial struct {
	RADeg  float64 // right ascension, [0, 360)
	DecDeg float64 // declination, [-90, 90]
}

// Horizontal holds observer-relative horizontal coordinates in degrees.
// Derived per instant, never persisted.
type Horizontal struct {
	AltDeg float64 // altitude above horizon, [-90, 90]
	AzDeg  float64 // azimuth from North through East, [0, 360)
}

// Location is a ground observer position. Immutable value, supplied per call.
type Location struct {
	LatDeg float64 // geodetic latitude, [-90, 90]
	LonDeg float64 // longitude, east positive, [-180, 180]
	ElevM  float64 // elevation above sea level, meters, >= 0
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 { return d * math.Pi / 180.0 }

// Rad2Deg converts radians to degrees.
func Rad2Deg(r float64) float64 { return r * 180.0 / math.Pi }

// NormalizeDeg wraps an angle to [0, 360).
func NormalizeDeg(d float64) float64 {
	d = math.Mod(d, 360.0)
	if d < 0 {
		d += 360.0
	}
	return d
}

// wrap180 wraps an angle to [-180, 180].
func wrap180(d float64) float64 {
	d = math.Mod(d, 360.0)
	if d > 180 {
		d -= 360
	}
	if d < -180 {
		d += 360
	}
	return d
}

// ValidateLocation rejects out-of-range or non-finite observer coordinates.
func ValidateLocation(loc Location) error {
	if !isFinite(loc.LatDeg) || !isFinite(loc.LonDeg) || !isFinite(loc.ElevM) {
		return fmt.Errorf("location has non-finite component")
	}
	if loc.LatDeg < -90 || loc.LatDeg > 90 {
		return fmt.Errorf("latitude %.4f out of range [-90, 90]", loc.LatDeg)
	}
	if loc.LonDeg < -180 || loc.LonDeg > 180 {
		return fmt.Errorf("longitude %.4f out of range [-180, 180]", loc.LonDeg)
	}
	if loc.ElevM < 0 {
		return fmt.Errorf("elevation %.1f m below zero", loc.ElevM)
	}
	return nil
}

// ValidateEquatorial rejects out-of-range or non-finite sky coordinates.
func ValidateEquatorial(eq Equatorial) error {
	if !isFinite(eq.RADeg) || !isFinite(eq.DecDeg) {
		return fmt.Errorf("coordinates have non-finite component")
	}
	if eq.RADeg < 0 || eq.RADeg >= 360 {
		return fmt.Errorf("right ascension %.4f out of range [0, 360)", eq.RADeg)
	}
	if eq.DecDeg < -90 || eq.DecDeg > 90 {
		return fmt.Errorf("declination %.4f out of range [-90, 90]", eq.DecDeg)
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
