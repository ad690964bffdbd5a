package ephemeris

import (
	"math"
	"testing"
	"time"

	"github.com/skyplan/skyplan/internal/transform"
)

func TestSunEquatorial_Equinox(t *testing.T) {
	// Around the March equinox the Sun crosses the celestial equator:
	// declination near 0, RA near 0.
	eq := SunEquatorial(time.Date(2025, 3, 20, 9, 0, 0, 0, time.UTC))
	if math.Abs(eq.DecDeg) > 1.0 {
		t.Errorf("equinox declination = %.3f, want |dec| < 1", eq.DecDeg)
	}
	ra := eq.RADeg
	if ra > 180 {
		ra -= 360
	}
	if math.Abs(ra) > 2.0 {
		t.Errorf("equinox RA = %.3f, want within 2 deg of 0", eq.RADeg)
	}
}

func TestSunEquatorial_Solstices(t *testing.T) {
	// June solstice: declination at the obliquity maximum (~+23.44).
	june := SunEquatorial(time.Date(2025, 6, 21, 3, 0, 0, 0, time.UTC))
	if math.Abs(june.DecDeg-23.44) > 0.5 {
		t.Errorf("June solstice declination = %.3f, want ~23.44", june.DecDeg)
	}

	// December solstice: declination minimum (~-23.44).
	dec := SunEquatorial(time.Date(2025, 12, 21, 15, 0, 0, 0, time.UTC))
	if math.Abs(dec.DecDeg+23.44) > 0.5 {
		t.Errorf("December solstice declination = %.3f, want ~-23.44", dec.DecDeg)
	}
}

func TestSunAltitude_NoonAndMidnight(t *testing.T) {
	// Greenwich observer: sun well up at local noon, well down at midnight.
	loc := transform.Location{LatDeg: 51.48, LonDeg: 0}

	noon := SunAltitude(loc, time.Date(2025, 6, 21, 12, 0, 0, 0, time.UTC))
	if noon < 55 || noon > 65 {
		t.Errorf("midsummer noon altitude = %.2f, want ~61.9", noon)
	}

	midnight := SunAltitude(loc, time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC))
	if midnight > -10 {
		t.Errorf("midsummer midnight altitude = %.2f, want well below horizon", midnight)
	}
}

func TestClassifyDarkness(t *testing.T) {
	tests := []struct {
		name   string
		altDeg float64
		want   Darkness
	}{
		{"high noon", 45, Day},
		{"just above horizon", 0.1, Day},
		{"civil band", -3, CivilTwilight},
		{"nautical band", -9, NauticalTwilight},
		{"astronomical band", -15, AstronomicalTwilight},
		{"full night", -20, Night},
		{"boundary -6 is nautical", -6, NauticalTwilight},
		{"boundary -18 is night", -18, Night},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyDarkness(tt.altDeg); got != tt.want {
				t.Errorf("ClassifyDarkness(%v) = %v, want %v", tt.altDeg, got, tt.want)
			}
		})
	}
}

func TestDarknessString(t *testing.T) {
	if Night.String() != "night" || Day.String() != "day" {
		t.Errorf("unexpected darkness names: %q, %q", Night, Day)
	}
}
