// Package interference flags time windows where moonlight washes out a
// target. The detector walks a target series and the parallel moon series
// and merges consecutive interfering instants into windows.
package interference

import (
	"time"

	"github.com/skyplan/skyplan/internal/ephemeris"
	"github.com/skyplan/skyplan/internal/sampler"
	"github.com/skyplan/skyplan/internal/transform"
)

// MaxSafeSeparationDeg is the required separation from a full moon.
// The safe distance scales linearly down to zero at new moon, so a new moon
// never interferes no matter how close it sits to the target. This mapping is
// a tunable policy, not a physical constant.
const MaxSafeSeparationDeg = 60.0

// SafeSeparation returns the minimum comfortable moon separation in degrees
// for a given illuminated fraction. Monotonically increasing: a brighter
// moon demands more distance.
func SafeSeparation(illumination float64) float64 {
	if illumination < 0 {
		illumination = 0
	} else if illumination > 1 {
		illumination = 1
	}
	return MaxSafeSeparationDeg * illumination
}

// Window is a contiguous run of instants where the moon interferes with the
// target. Severity is the moon's illumination at the start of the run.
type Window struct {
	Start    time.Time
	End      time.Time
	Severity float64
}

// Detect finds interference windows across two parallel series. Both series
// must share instants; the shorter length bounds the scan. An instant
// interferes when the angular separation falls below the illumination-scaled
// safe distance while the moon is above the horizon. A run still open at the
// final sample is closed at the series boundary, not dropped.
func Detect(target []sampler.TimeSample, moon []ephemeris.MoonState) []Window {
	n := len(target)
	if len(moon) < n {
		n = len(moon)
	}

	var windows []Window
	var open bool
	var current Window

	for i := 0; i < n; i++ {
		sep := transform.AngularSeparation(
			transform.Horizontal{AltDeg: target[i].AltDeg, AzDeg: target[i].AzDeg},
			transform.Horizontal{AltDeg: moon[i].AltDeg, AzDeg: moon[i].AzDeg},
		)
		interferes := moon[i].AltDeg > 0 && sep < SafeSeparation(moon[i].Illumination)

		switch {
		case interferes && !open:
			open = true
			current = Window{Start: target[i].Instant, Severity: moon[i].Illumination}
		case !interferes && open:
			open = false
			current.End = target[i-1].Instant
			windows = append(windows, current)
		}
	}

	if open {
		current.End = target[n-1].Instant
		windows = append(windows, current)
	}

	return windows
}
