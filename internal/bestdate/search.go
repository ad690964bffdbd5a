// Package bestdate scans forward across calendar days to find the soonest
// date on which a fixed-sky target is well placed during astronomical night.
package bestdate

import (
	"time"

	"github.com/skyplan/skyplan/internal/ephemeris"
	"github.com/skyplan/skyplan/internal/transform"
)

const (
	// HorizonDays bounds the forward scan. A target that is not well placed
	// within this horizon yields an explicit "none found", never an
	// unbounded search.
	HorizonDays = 90

	// GoodAltitudeDeg is the dark-sky altitude a candidate night must reach.
	GoodAltitudeDeg = 30.0

	// scanStepMinutes is the within-night sampling cadence. Fine enough to
	// catch a transit that lasts tens of minutes above threshold.
	scanStepMinutes = 10
)

// Result is the outcome of a best-date search.
type Result struct {
	Date          time.Time // UTC midnight of the chosen day; zero when not found
	MaxDarkAltDeg float64   // target's peak altitude during darkness on that day
	Found         bool
}

// Search returns the earliest date, starting at start's calendar day, on
// which the target exceeds GoodAltitudeDeg during full astronomical night
// (sun below -18 degrees).
//
// Policy is soonest-good rather than best-ever: the scan stops at the first
// qualifying day, so a target already well placed tonight returns the start
// date immediately. Because the target's RA is fixed, its transit drifts
// about four minutes earlier per solar day; scanning day-by-day walks the
// transit into (or out of) the dark window.
//
// A target that never clears the threshold during darkness anywhere in the
// horizon — the circumpolar-never-rises case among others — yields
// Found=false. That is a legitimate "no answer", not an error.
func Search(eq transform.Equatorial, loc transform.Location, start time.Time) Result {
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)

	for i := 0; i < HorizonDays; i++ {
		candidate := day.AddDate(0, 0, i)
		if maxAlt, ok := maxDarkAltitude(eq, loc, candidate); ok && maxAlt >= GoodAltitudeDeg {
			return Result{Date: candidate, MaxDarkAltDeg: maxAlt, Found: true}
		}
	}
	return Result{}
}

// maxDarkAltitude samples one 24h day and returns the target's maximum
// altitude while the sun is below the astronomical-night threshold. ok is
// false when the day has no dark instants at all (polar summer).
func maxDarkAltitude(eq transform.Equatorial, loc transform.Location, dayStart time.Time) (float64, bool) {
	maxAlt := -90.0
	dark := false

	steps := (24 * 60) / scanStepMinutes
	for s := 0; s <= steps; s++ {
		at := dayStart.Add(time.Duration(s*scanStepMinutes) * time.Minute)
		if ephemeris.SunAltitude(loc, at) >= ephemeris.NightAlt {
			continue
		}
		dark = true
		if alt := transform.HorizontalAt(eq, loc, at).AltDeg; alt > maxAlt {
			maxAlt = alt
		}
	}
	return maxAlt, dark
}
