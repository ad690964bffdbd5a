package ranking

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/skyplan/skyplan/internal/catalog"
	"github.com/skyplan/skyplan/internal/ephemeris"
	"github.com/skyplan/skyplan/internal/transform"
)

var (
	testLoc    = transform.Location{LatDeg: 47.6, LonDeg: -122.3, ElevM: 50}
	testNight  = time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	testLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))
)

func TestRankNight_OrderedByScore(t *testing.T) {
	pool := NewPool(4, testLogger)
	evals := pool.RankNight(context.Background(), catalog.Builtin(), testLoc, testNight)

	if len(evals) != len(catalog.Builtin()) {
		t.Fatalf("got %d evaluations, want %d", len(evals), len(catalog.Builtin()))
	}
	for i := 1; i < len(evals); i++ {
		if evals[i].Score > evals[i-1].Score {
			t.Fatalf("evaluations out of order at %d: %.2f > %.2f", i, evals[i].Score, evals[i-1].Score)
		}
	}
	// Every target must appear exactly once.
	seen := make(map[string]bool)
	for _, e := range evals {
		if seen[e.Target.ID] {
			t.Fatalf("duplicate target %q in ranking", e.Target.ID)
		}
		seen[e.Target.ID] = true
	}
}

func TestRankNight_DeterministicAcrossWorkerCounts(t *testing.T) {
	// Evaluation order must not depend on pool size: the final sort is the
	// only ordering step.
	one := NewPool(1, testLogger).RankNight(context.Background(), catalog.Builtin(), testLoc, testNight)
	many := NewPool(8, testLogger).RankNight(context.Background(), catalog.Builtin(), testLoc, testNight)

	if len(one) != len(many) {
		t.Fatalf("lengths differ: %d vs %d", len(one), len(many))
	}
	for i := range one {
		if one[i].Target.ID != many[i].Target.ID {
			t.Fatalf("order differs at %d: %q vs %q", i, one[i].Target.ID, many[i].Target.ID)
		}
		if one[i].Score != many[i].Score {
			t.Fatalf("score differs for %q: %v vs %v", one[i].Target.ID, one[i].Score, many[i].Score)
		}
	}
}

func TestRankNight_HighTargetBeatsNeverRising(t *testing.T) {
	high := catalog.Target{ID: "high", Name: "High", Kind: catalog.Static,
		Coords: transform.Equatorial{RADeg: 10, DecDeg: 45}}
	buried := catalog.Target{ID: "buried", Name: "Buried", Kind: catalog.Static,
		Coords: transform.Equatorial{RADeg: 10, DecDeg: -80}}

	evals := NewPool(2, testLogger).RankNight(context.Background(),
		[]catalog.Target{buried, high}, testLoc, testNight)

	if evals[0].Target.ID != "high" {
		t.Errorf("best target = %q, want %q", evals[0].Target.ID, "high")
	}
	if !evals[1].Night.NeverRises {
		t.Errorf("dec -80 target should be flagged never-rises: %+v", evals[1].Night)
	}
}

func TestRankNight_CometMarkedApproximate(t *testing.T) {
	comet := catalog.Target{ID: "c1", Name: "Comet", Kind: catalog.Dynamic, Body: ephemeris.BodyComet}
	evals := NewPool(2, testLogger).RankNight(context.Background(),
		[]catalog.Target{comet}, testLoc, testNight)
	if !evals[0].Approximate {
		t.Error("comet evaluation must be marked approximate")
	}
}

func TestRankNight_EmptyAndCancelled(t *testing.T) {
	pool := NewPool(2, testLogger)

	if evals := pool.RankNight(context.Background(), nil, testLoc, testNight); evals != nil {
		t.Errorf("empty catalog should produce nil, got %d", len(evals))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	evals := pool.RankNight(ctx, catalog.Builtin(), testLoc, testNight)
	// Cancellation may leave some zero-valued evaluations; the call itself
	// must still return.
	if len(evals) != len(catalog.Builtin()) {
		t.Errorf("cancelled ranking returned %d slots, want %d", len(evals), len(catalog.Builtin()))
	}
}
