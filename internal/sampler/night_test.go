package sampler

import (
	"testing"
	"time"

	"github.com/skyplan/skyplan/internal/catalog"
	"github.com/skyplan/skyplan/internal/transform"
)

func seriesFor(t *testing.T, decDeg, latDeg float64) (Series, []SunSample) {
	t.Helper()
	tgt := catalog.Target{ID: "t", Name: "T", Kind: catalog.Static,
		Coords: transform.Equatorial{RADeg: 50, DecDeg: decDeg}}
	loc := transform.Location{LatDeg: latDeg, LonDeg: 0}
	return Sample(tgt, loc, startOfDay, 24, 10), SampleSun(loc, startOfDay, 24, 10)
}

func TestSummarize_RiseTransitSet(t *testing.T) {
	s, sun := seriesFor(t, 10, 47.6)
	ns := Summarize(s, sun)

	if ns.Circumpolar || ns.NeverRises {
		t.Fatalf("dec +10 at lat 47.6 should rise and set: %+v", ns)
	}
	if ns.Rise.IsZero() || ns.Set.IsZero() {
		t.Fatalf("expected rise and set in a 24h window: %+v", ns)
	}
	if ns.Transit.IsZero() {
		t.Fatal("transit must always be reported")
	}
	// Transit altitude ~ 90 - |lat - dec| = 52.4.
	if ns.MaxAltDeg < 50 || ns.MaxAltDeg > 54 {
		t.Errorf("max altitude = %.2f, want ~52.4", ns.MaxAltDeg)
	}
}

func TestSummarize_Circumpolar(t *testing.T) {
	// Polaris-like declination from a northern site never sets.
	s, sun := seriesFor(t, 89, 47.6)
	ns := Summarize(s, sun)
	if !ns.Circumpolar {
		t.Errorf("dec 89 from lat 47.6 should be circumpolar: %+v", ns)
	}
	if ns.NeverRises {
		t.Error("circumpolar target cannot also never rise")
	}
}

func TestSummarize_NeverRises(t *testing.T) {
	// Far-southern object from a northern site stays below the horizon.
	// Degenerate-but-valid: the summary reports it, never errors.
	s, sun := seriesFor(t, -80, 47.6)
	ns := Summarize(s, sun)
	if !ns.NeverRises {
		t.Errorf("dec -80 from lat 47.6 should never rise: %+v", ns)
	}
	if ns.MaxAltDeg > 0 {
		t.Errorf("never-rises target max altitude = %.2f, want <= 0", ns.MaxAltDeg)
	}
}

func TestSummarize_DarkHoursPositive(t *testing.T) {
	s, sun := seriesFor(t, 40, 47.6)
	ns := Summarize(s, sun)
	// October mid-latitude night: many hours of astronomical darkness.
	if ns.DarkHours < 4 {
		t.Errorf("dark hours = %.1f, want >= 4 in mid-October", ns.DarkHours)
	}
	if ns.DarkMaxAltDeg < -90 || ns.DarkMaxAltDeg > ns.MaxAltDeg+1e-9 {
		t.Errorf("dark max altitude %.2f inconsistent with overall max %.2f", ns.DarkMaxAltDeg, ns.MaxAltDeg)
	}
}

func TestSummarize_RiseBeforeSetOrdering(t *testing.T) {
	s, sun := seriesFor(t, 10, 47.6)
	ns := Summarize(s, sun)
	if !ns.Rise.IsZero() && !ns.Set.IsZero() && ns.Set.Before(ns.Rise) {
		// A set before the rise is fine only when the target started the
		// window above the horizon; in that case Rise is the later event.
		first := s.Samples[0]
		if first.AltDeg <= 0 {
			t.Errorf("set %v precedes rise %v for target starting below horizon", ns.Set, ns.Rise)
		}
	}
}

func TestSummarize_Empty(t *testing.T) {
	ns := Summarize(Series{}, nil)
	if ns.Circumpolar || ns.NeverRises || !ns.Rise.IsZero() {
		t.Errorf("empty series summary should be zero-valued: %+v", ns)
	}
}

func TestInterpolateCrossing_Bounds(t *testing.T) {
	a := TimeSample{Instant: startOfDay, AltDeg: -1}
	b := TimeSample{Instant: startOfDay.Add(30 * time.Minute), AltDeg: 1}
	cross := interpolateCrossing(a, b)
	if cross.Before(a.Instant) || cross.After(b.Instant) {
		t.Errorf("crossing %v outside sample interval", cross)
	}
	// Symmetric altitudes cross at the midpoint.
	if want := startOfDay.Add(15 * time.Minute); !cross.Equal(want) {
		t.Errorf("crossing = %v, want %v", cross, want)
	}
}
