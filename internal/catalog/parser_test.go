package catalog

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/skyplan/skyplan/internal/ephemeris"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestParse_StaticAndDynamic(t *testing.T) {
	data := `[
		{"id": "m31", "name": "Andromeda Galaxy", "type": "galaxy", "ra_deg": 10.685, "dec_deg": 41.269},
		{"id": "jupiter", "name": "Jupiter", "type": "planet", "body": "jupiter"}
	]`

	targets, err := Parse(strings.NewReader(data), testLogger())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(targets) != 2 {
		t.Fatalf("got %d targets, want 2", len(targets))
	}

	if targets[0].Kind != Static {
		t.Errorf("m31 kind = %v, want Static", targets[0].Kind)
	}
	if targets[0].Coords.RADeg != 10.685 || targets[0].Coords.DecDeg != 41.269 {
		t.Errorf("m31 coords = %+v", targets[0].Coords)
	}

	if targets[1].Kind != Dynamic {
		t.Errorf("jupiter kind = %v, want Dynamic", targets[1].Kind)
	}
	if targets[1].Body != ephemeris.BodyJupiter {
		t.Errorf("jupiter body = %v", targets[1].Body)
	}
}

func TestParse_SkipsMalformedEntries(t *testing.T) {
	data := `[
		{"id": "good", "name": "Good", "type": "galaxy", "ra_deg": 100, "dec_deg": 10},
		{"id": "", "name": "No ID", "ra_deg": 1, "dec_deg": 1},
		{"id": "both", "name": "Both variants", "ra_deg": 1, "dec_deg": 1, "body": "mars"},
		{"id": "neither", "name": "Neither variant"},
		{"id": "half", "name": "Half coords", "ra_deg": 1},
		{"id": "badra", "name": "Bad RA", "ra_deg": 400, "dec_deg": 0},
		{"id": "badbody", "name": "Bad body", "body": "pluto"},
		{"id": "good", "name": "Duplicate", "ra_deg": 2, "dec_deg": 2}
	]`

	targets, err := Parse(strings.NewReader(data), testLogger())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(targets) != 1 {
		t.Fatalf("got %d targets, want 1 (only the valid entry)", len(targets))
	}
	if targets[0].ID != "good" {
		t.Errorf("surviving target = %q, want %q", targets[0].ID, "good")
	}
}

func TestParse_InvalidDocument(t *testing.T) {
	if _, err := Parse(strings.NewReader("{not json"), testLogger()); err == nil {
		t.Error("expected error for invalid JSON document")
	}
}

func TestBuiltin_AllValid(t *testing.T) {
	targets := Builtin()
	if len(targets) < 20 {
		t.Fatalf("builtin catalog has %d targets, want at least 20", len(targets))
	}
	seen := make(map[string]bool)
	for _, tgt := range targets {
		if tgt.ID == "" || tgt.Name == "" {
			t.Errorf("builtin target missing id or name: %+v", tgt)
		}
		if seen[tgt.ID] {
			t.Errorf("duplicate builtin id %q", tgt.ID)
		}
		seen[tgt.ID] = true
	}
}
