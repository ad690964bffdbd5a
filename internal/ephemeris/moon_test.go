package ephemeris

import (
	"math"
	"testing"
	"time"

	"github.com/skyplan/skyplan/internal/transform"
)

func TestMoonIllumination_KnownPhases(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		min  float64
		max  float64
	}{
		// New moon 2024-01-11 11:57 UTC.
		{"new moon", time.Date(2024, 1, 11, 12, 0, 0, 0, time.UTC), 0.0, 0.05},
		// Full moon 2024-01-25 17:54 UTC.
		{"full moon", time.Date(2024, 1, 25, 18, 0, 0, 0, time.UTC), 0.95, 1.0},
		// First quarter 2024-01-18 03:53 UTC.
		{"first quarter", time.Date(2024, 1, 18, 4, 0, 0, 0, time.UTC), 0.35, 0.65},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MoonIllumination(tt.at)
			if got < tt.min || got > tt.max {
				t.Errorf("illumination = %.4f, want in [%.2f, %.2f]", got, tt.min, tt.max)
			}
		})
	}
}

func TestMoonIllumination_SynodicPeriod(t *testing.T) {
	// Illumination repeats with the ~29.53-day synodic month.
	synodic := time.Duration(29.53059 * 24 * float64(time.Hour))
	starts := []time.Time{
		time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 4, 12, 18, 0, 0, 0, time.UTC),
		time.Date(2025, 9, 30, 6, 0, 0, 0, time.UTC),
	}
	for _, t0 := range starts {
		i0 := MoonIllumination(t0)
		i1 := MoonIllumination(t0.Add(synodic))
		if diff := math.Abs(i1 - i0); diff > 0.03 {
			t.Errorf("illumination drift over one synodic month from %v = %.4f, want < 0.03", t0, diff)
		}
	}
}

func TestMoonIllumination_Range(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 24*60; i++ {
		illum := MoonIllumination(start.Add(time.Duration(i) * time.Hour))
		if illum < 0 || illum > 1 {
			t.Fatalf("illumination out of [0,1] at step %d: %v", i, illum)
		}
	}
}

func TestMoonEquatorial_NearEcliptic(t *testing.T) {
	// The Moon's orbit is inclined ~5.1 deg to the ecliptic, so its
	// declination stays within the obliquity plus inclination band.
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 60; i++ {
		eq := MoonEquatorial(start.Add(time.Duration(i) * 12 * time.Hour))
		if math.Abs(eq.DecDeg) > 23.44+5.2+1 {
			t.Fatalf("moon declination %.2f outside plausible band at step %d", eq.DecDeg, i)
		}
		if eq.RADeg < 0 || eq.RADeg >= 360 {
			t.Fatalf("moon RA out of range at step %d: %v", i, eq.RADeg)
		}
	}
}

func TestMoonStateAt(t *testing.T) {
	loc := transform.Location{LatDeg: 34.0, LonDeg: -118.2, ElevM: 100}
	at := time.Date(2025, 7, 10, 8, 0, 0, 0, time.UTC)

	st := MoonStateAt(loc, at)
	if !st.Instant.Equal(at) {
		t.Errorf("instant = %v, want %v", st.Instant, at)
	}
	if st.AltDeg < -90 || st.AltDeg > 90 {
		t.Errorf("altitude out of range: %v", st.AltDeg)
	}
	if st.AzDeg < 0 || st.AzDeg >= 360 {
		t.Errorf("azimuth out of range: %v", st.AzDeg)
	}
	if st.Illumination < 0 || st.Illumination > 1 {
		t.Errorf("illumination out of range: %v", st.Illumination)
	}
}
