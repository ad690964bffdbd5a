// Package catalog defines observation targets and provides loading and
// thread-safe storage for the target catalog.
package catalog

import (
	"time"

	"github.com/skyplan/skyplan/internal/ephemeris"
	"github.com/skyplan/skyplan/internal/transform"
)

// Kind discriminates the two target variants. Exactly one variant is active
// per target; call sites switch on Kind rather than probing fields.
type Kind int

const (
	// Static targets have fixed catalog RA/Dec (galaxies, nebulae, clusters).
	Static Kind = iota
	// Dynamic targets are solar-system bodies whose position is a function
	// of time.
	Dynamic
)

// Target is one catalog entry. For Static targets Coords is authoritative
// and Body is meaningless; for Dynamic targets the reverse holds.
type Target struct {
	ID   string
	Name string
	Type string // galaxy, nebula, cluster, planet, moon, comet

	Kind   Kind
	Coords transform.Equatorial // Static only
	Body   ephemeris.Body       // Dynamic only
}

// Position resolves the target's geocentric RA/Dec at the given instant.
// Static targets return their fixed coordinates. The second return is false
// only for dynamic bodies without a real ephemeris (comets); callers must
// check it before trusting the coordinates.
func (t Target) Position(at time.Time) (transform.Equatorial, bool) {
	switch t.Kind {
	case Dynamic:
		return ephemeris.BodyEquatorial(t.Body, at)
	default:
		return t.Coords, true
	}
}
