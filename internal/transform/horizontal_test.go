package transform

import (
	"math"
	"testing"
	"time"
)

func TestToHorizontal_TransitAltitude(t *testing.T) {
	// At transit (hour angle = 0, i.e. LST = RA) the altitude collapses to
	// 90 - |lat - dec| for an object culminating south of zenith.
	tests := []struct {
		name     string
		lat, dec float64
	}{
		{"mid-northern galaxy", 40.0, 20.0},
		{"zenith pass", 35.0, 35.0},
		{"southern target from north", 45.0, -10.0},
		{"southern observer", -33.0, -60.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eq := Equatorial{RADeg: 120.0, DecDeg: tt.dec}
			loc := Location{LatDeg: tt.lat, LonDeg: 0}
			h := ToHorizontal(eq, loc, eq.RADeg) // LST == RA
			want := 90.0 - math.Abs(tt.lat-tt.dec)
			if math.Abs(h.AltDeg-want) > 0.01 {
				t.Errorf("transit altitude = %.4f, want %.4f", h.AltDeg, want)
			}
		})
	}
}

func TestToHorizontal_RangesOverGrid(t *testing.T) {
	// Altitude must stay in [-90, 90] and azimuth in [0, 360) for any valid
	// combination of inputs.
	for lat := -90.0; lat <= 90.0; lat += 30.0 {
		for dec := -90.0; dec <= 90.0; dec += 30.0 {
			for lst := 0.0; lst < 360.0; lst += 45.0 {
				h := ToHorizontal(Equatorial{RADeg: 80, DecDeg: dec}, Location{LatDeg: lat}, lst)
				if h.AltDeg < -90.0001 || h.AltDeg > 90.0001 {
					t.Fatalf("altitude out of range: lat=%v dec=%v lst=%v alt=%v", lat, dec, lst, h.AltDeg)
				}
				if h.AzDeg < 0 || h.AzDeg >= 360 {
					t.Fatalf("azimuth out of range: lat=%v dec=%v lst=%v az=%v", lat, dec, lst, h.AzDeg)
				}
			}
		}
	}
}

func TestToHorizontal_PoleAzimuthPolicy(t *testing.T) {
	// At |lat| = 90 azimuth is degenerate; the fixed policy reports 0.
	h := ToHorizontal(Equatorial{RADeg: 200, DecDeg: 45}, Location{LatDeg: 90}, 123.4)
	if h.AzDeg != 0 {
		t.Errorf("north pole azimuth = %v, want 0", h.AzDeg)
	}
	// Altitude at the pole equals declination.
	if math.Abs(h.AltDeg-45) > 0.01 {
		t.Errorf("north pole altitude = %.4f, want 45", h.AltDeg)
	}

	h = ToHorizontal(Equatorial{RADeg: 10, DecDeg: -30}, Location{LatDeg: -90}, 321.0)
	if h.AzDeg != 0 {
		t.Errorf("south pole azimuth = %v, want 0", h.AzDeg)
	}
	if math.Abs(h.AltDeg-30) > 0.01 {
		t.Errorf("south pole altitude = %.4f, want 30", h.AltDeg)
	}
}

func TestToHorizontal_AzimuthQuadrants(t *testing.T) {
	// An object east of the meridian (negative hour angle) sits in the
	// eastern half of the sky for a northern observer; west of the meridian
	// in the western half.
	loc := Location{LatDeg: 40}
	eq := Equatorial{RADeg: 100, DecDeg: 10}

	east := ToHorizontal(eq, loc, eq.RADeg-40) // rising side
	if east.AzDeg <= 0 || east.AzDeg >= 180 {
		t.Errorf("rising object azimuth = %.2f, want (0, 180)", east.AzDeg)
	}

	west := ToHorizontal(eq, loc, eq.RADeg+40) // setting side
	if west.AzDeg <= 180 || west.AzDeg >= 360 {
		t.Errorf("setting object azimuth = %.2f, want (180, 360)", west.AzDeg)
	}
}

func TestHorizontalAt_MatchesManualLST(t *testing.T) {
	at := time.Date(2025, 9, 20, 4, 0, 0, 0, time.UTC)
	loc := Location{LatDeg: 51.5, LonDeg: -0.12}
	eq := Equatorial{RADeg: 310.358, DecDeg: 45.280} // Deneb

	got := HorizontalAt(eq, loc, at)
	want := ToHorizontal(eq, loc, LST(at, loc.LonDeg))
	if got != want {
		t.Errorf("HorizontalAt = %+v, want %+v", got, want)
	}
}

func TestAngularSeparation(t *testing.T) {
	tests := []struct {
		name string
		a, b Horizontal
		want float64
	}{
		{"coincident", Horizontal{30, 120}, Horizontal{30, 120}, 0},
		{"zenith to horizon", Horizontal{90, 0}, Horizontal{0, 45}, 90},
		{"opposite horizon points", Horizontal{0, 0}, Horizontal{0, 180}, 180},
		{"same altitude quarter turn", Horizontal{0, 10}, Horizontal{0, 100}, 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AngularSeparation(tt.a, tt.b)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("separation = %.4f, want %.4f", got, tt.want)
			}
		})
	}
}

func TestValidateLocation(t *testing.T) {
	tests := []struct {
		name    string
		loc     Location
		wantErr bool
	}{
		{"valid", Location{47.6, -122.3, 50}, false},
		{"equator", Location{0, 0, 0}, false},
		{"latitude too high", Location{91, 0, 0}, true},
		{"longitude too low", Location{0, -181, 0}, true},
		{"negative elevation", Location{0, 0, -5}, true},
		{"NaN latitude", Location{math.NaN(), 0, 0}, true},
		{"Inf longitude", Location{0, math.Inf(1), 0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLocation(tt.loc)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLocation(%+v) err = %v, wantErr = %v", tt.loc, err, tt.wantErr)
			}
		})
	}
}

func TestValidateEquatorial(t *testing.T) {
	tests := []struct {
		name    string
		eq      Equatorial
		wantErr bool
	}{
		{"valid", Equatorial{10.68, 41.27}, false},
		{"RA exactly 360", Equatorial{360, 0}, true},
		{"negative RA", Equatorial{-1, 0}, true},
		{"dec beyond pole", Equatorial{0, 90.5}, true},
		{"NaN dec", Equatorial{0, math.NaN()}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEquatorial(tt.eq)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEquatorial(%+v) err = %v, wantErr = %v", tt.eq, err, tt.wantErr)
			}
		})
	}
}
