// Package sampler builds fixed-cadence time series of sky positions across
// an observation window. Series are finite, deterministic, and computed on
// request; nothing here is persisted or streamed.
package sampler

import (
	"math"
	"time"

	"github.com/skyplan/skyplan/internal/catalog"
	"github.com/skyplan/skyplan/internal/ephemeris"
	"github.com/skyplan/skyplan/internal/transform"
)

// Default sampling cadence for a one-night planning window.
const (
	DefaultWindowHours = 24
	DefaultStepMinutes = 30
)

// TimeSample is a target's horizontal position at one instant.
type TimeSample struct {
	Instant time.Time
	AltDeg  float64
	AzDeg   float64
}

// Series is an ordered, fixed-cadence sequence of samples for one target.
// Approximate is true when the target's position came from an unresolved
// placeholder (comets); consumers should gray such series out rather than
// trust them.
type Series struct {
	Samples     []TimeSample
	Approximate bool
}

// SunSample is the sun's altitude and darkness band at one instant.
type SunSample struct {
	Instant  time.Time
	AltDeg   float64
	Darkness ephemeris.Darkness
}

// instants returns the sample instants for a window: ⌈minutes/step⌉+1 points
// starting at start, strictly increasing, fixed cadence.
func instants(start time.Time, windowHours, stepMinutes int) []time.Time {
	totalMin := windowHours * 60
	n := int(math.Ceil(float64(totalMin)/float64(stepMinutes))) + 1
	out := make([]time.Time, n)
	for i := range out {
		out[i] = start.Add(time.Duration(i*stepMinutes) * time.Minute)
	}
	return out
}

// Sample computes the target's horizontal position across the window.
// Dynamic targets are re-resolved at every step; static targets reuse their
// fixed coordinates. Same inputs always produce the same series.
func Sample(tgt catalog.Target, loc transform.Location, start time.Time, windowHours, stepMinutes int) Series {
	ts := instants(start.UTC(), windowHours, stepMinutes)

	var s Series
	s.Samples = make([]TimeSample, len(ts))
	for i, at := range ts {
		eq, resolved := tgt.Position(at)
		if !resolved {
			s.Approximate = true
		}
		h := transform.HorizontalAt(eq, loc, at)
		s.Samples[i] = TimeSample{Instant: at, AltDeg: h.AltDeg, AzDeg: h.AzDeg}
	}
	return s
}

// SampleMoon computes the moon's state at the same cadence used by Sample,
// so the two series can be compared instant-by-instant.
func SampleMoon(loc transform.Location, start time.Time, windowHours, stepMinutes int) []ephemeris.MoonState {
	ts := instants(start.UTC(), windowHours, stepMinutes)
	out := make([]ephemeris.MoonState, len(ts))
	for i, at := range ts {
		out[i] = ephemeris.MoonStateAt(loc, at)
	}
	return out
}

// SampleSun computes the sun's altitude and darkness band at the same
// cadence, for twilight shading on charts.
func SampleSun(loc transform.Location, start time.Time, windowHours, stepMinutes int) []SunSample {
	ts := instants(start.UTC(), windowHours, stepMinutes)
	out := make([]SunSample, len(ts))
	for i, at := range ts {
		alt := ephemeris.SunAltitude(loc, at)
		out[i] = SunSample{Instant: at, AltDeg: alt, Darkness: ephemeris.ClassifyDarkness(alt)}
	}
	return out
}
