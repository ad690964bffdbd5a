package sampler

import (
	"time"

	"github.com/skyplan/skyplan/internal/ephemeris"
)

// NightSummary condenses a sampled night into the numbers a planner shows:
// when the target clears the horizon, when it culminates, and how high it
// gets while the sky is fully dark.
type NightSummary struct {
	Rise    time.Time // zero when the target never crosses upward in the window
	Set     time.Time // zero when the target never crosses downward after rise
	Transit time.Time // instant of maximum altitude within the window

	MaxAltDeg     float64 // maximum altitude anywhere in the window
	DarkMaxAltDeg float64 // maximum altitude while sun altitude < -18
	DarkHours     float64 // hours of astronomical night in the window

	Circumpolar bool // never drops below the horizon
	NeverRises  bool // never clears the horizon; charts still render the series
}

// Summarize derives a NightSummary from a target series and the parallel sun
// series. Both must share the same instants. Horizon crossings are located by
// linear interpolation between adjacent samples.
func Summarize(s Series, sun []SunSample) NightSummary {
	var ns NightSummary
	if len(s.Samples) == 0 {
		return ns
	}

	minAlt, maxAlt := s.Samples[0].AltDeg, s.Samples[0].AltDeg
	maxIdx := 0
	for i, sm := range s.Samples {
		if sm.AltDeg > maxAlt {
			maxAlt = sm.AltDeg
			maxIdx = i
		}
		if sm.AltDeg < minAlt {
			minAlt = sm.AltDeg
		}
	}
	ns.MaxAltDeg = maxAlt
	ns.Transit = s.Samples[maxIdx].Instant

	// Dark-sky metrics from the parallel sun series.
	stepHours := 0.0
	if len(s.Samples) > 1 {
		stepHours = s.Samples[1].Instant.Sub(s.Samples[0].Instant).Hours()
	}
	ns.DarkMaxAltDeg = -90
	for i := range sun {
		if i >= len(s.Samples) {
			break
		}
		if sun[i].AltDeg < ephemeris.NightAlt {
			ns.DarkHours += stepHours
			if s.Samples[i].AltDeg > ns.DarkMaxAltDeg {
				ns.DarkMaxAltDeg = s.Samples[i].AltDeg
			}
		}
	}

	switch {
	case minAlt > 0:
		ns.Circumpolar = true
		return ns
	case maxAlt <= 0:
		ns.NeverRises = true
		return ns
	}

	// First upward horizon crossing.
	for i := 1; i < len(s.Samples); i++ {
		prev, curr := s.Samples[i-1], s.Samples[i]
		if prev.AltDeg <= 0 && curr.AltDeg > 0 {
			ns.Rise = interpolateCrossing(prev, curr)
			break
		}
	}

	// First downward crossing after the rise (or from the window start when
	// the target was already up).
	from := ns.Rise
	for i := 1; i < len(s.Samples); i++ {
		prev, curr := s.Samples[i-1], s.Samples[i]
		if !from.IsZero() && !curr.Instant.After(from) {
			continue
		}
		if prev.AltDeg > 0 && curr.AltDeg <= 0 {
			ns.Set = interpolateCrossing(prev, curr)
			break
		}
	}

	return ns
}

// interpolateCrossing locates the zero-altitude instant between two samples
// by linear interpolation.
func interpolateCrossing(a, b TimeSample) time.Time {
	span := b.AltDeg - a.AltDeg
	if span == 0 {
		return a.Instant
	}
	frac := -a.AltDeg / span
	if frac < 0 {
		frac = 0
	} else if frac > 1 {
		frac = 1
	}
	return a.Instant.Add(time.Duration(frac * float64(b.Instant.Sub(a.Instant))))
}
