package catalog

import (
	"github.com/skyplan/skyplan/internal/ephemeris"
	"github.com/skyplan/skyplan/internal/transform"
)

// Builtin returns the embedded default catalog: popular imaging targets
// across target types plus the bright solar-system bodies. Coordinates are
// J2000 epoch.
func Builtin() []Target {
	return builtinTargets
}

func static(id, name, typ string, raDeg, decDeg float64) Target {
	return Target{ID: id, Name: name, Type: typ, Kind: Static,
		Coords: transform.Equatorial{RADeg: raDeg, DecDeg: decDeg}}
}

func dynamic(id, name, typ string, body ephemeris.Body) Target {
	return Target{ID: id, Name: name, Type: typ, Kind: Dynamic, Body: body}
}

// builtinTargets covers the objects most requested by beginning imagers.
var builtinTargets = []Target{
	// Galaxies.
	static("m31", "Andromeda Galaxy", "galaxy", 10.685, 41.269),
	static("m33", "Triangulum Galaxy", "galaxy", 23.462, 30.660),
	static("m51", "Whirlpool Galaxy", "galaxy", 202.470, 47.195),
	static("m81", "Bode's Galaxy", "galaxy", 148.888, 69.065),
	static("m82", "Cigar Galaxy", "galaxy", 148.968, 69.681),
	static("m101", "Pinwheel Galaxy", "galaxy", 210.802, 54.349),
	static("m104", "Sombrero Galaxy", "galaxy", 189.998, -11.623),

	// Nebulae.
	static("m42", "Orion Nebula", "nebula", 83.822, -5.391),
	static("m8", "Lagoon Nebula", "nebula", 270.904, -24.387),
	static("m20", "Trifid Nebula", "nebula", 270.675, -22.972),
	static("m27", "Dumbbell Nebula", "nebula", 299.902, 22.721),
	static("m57", "Ring Nebula", "nebula", 283.396, 33.029),
	static("ngc7000", "North America Nebula", "nebula", 314.697, 44.519),
	static("ngc6960", "Veil Nebula (West)", "nebula", 311.062, 30.709),
	static("ic434", "Horsehead Nebula", "nebula", 85.246, -2.458),
	static("ngc2237", "Rosette Nebula", "nebula", 97.983, 4.950),

	// Clusters.
	static("m45", "Pleiades", "cluster", 56.871, 24.105),
	static("m13", "Hercules Cluster", "cluster", 250.422, 36.460),
	static("m44", "Beehive Cluster", "cluster", 130.100, 19.667),
	static("ngc869", "Double Cluster", "cluster", 35.575, 57.133),

	// Solar-system bodies.
	dynamic("moon", "Moon", "moon", ephemeris.BodyMoon),
	dynamic("mercury", "Mercury", "planet", ephemeris.BodyMercury),
	dynamic("venus", "Venus", "planet", ephemeris.BodyVenus),
	dynamic("mars", "Mars", "planet", ephemeris.BodyMars),
	dynamic("jupiter", "Jupiter", "planet", ephemeris.BodyJupiter),
	dynamic("saturn", "Saturn", "planet", ephemeris.BodySaturn),
	dynamic("uranus", "Uranus", "planet", ephemeris.BodyUranus),
	dynamic("neptune", "Neptune", "planet", ephemeris.BodyNeptune),
}
