// Package ranking evaluates every catalog target for one night and orders
// them by imaging quality. Evaluations are independent, so the work is
// spread across a fixed pool of workers; only the final sort imposes order.
package ranking

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/skyplan/skyplan/internal/catalog"
	"github.com/skyplan/skyplan/internal/ephemeris"
	"github.com/skyplan/skyplan/internal/interference"
	"github.com/skyplan/skyplan/internal/sampler"
	"github.com/skyplan/skyplan/internal/transform"
)

// moonPenaltyDeg converts the fraction of the night lost to moonlight into
// an altitude-equivalent score penalty.
const moonPenaltyDeg = 30.0

// Evaluation is one target's score card for the night.
type Evaluation struct {
	Target             catalog.Target
	Night              sampler.NightSummary
	Windows            []interference.Window
	InterferedFraction float64 // share of the window inside interference
	Approximate        bool    // position came from an unresolved placeholder
	Score              float64
}

// Pool runs night evaluations across a fixed number of goroutines.
type Pool struct {
	workers int
	logger  *slog.Logger
}

// NewPool creates an evaluation pool with the given number of workers.
func NewPool(workers int, logger *slog.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{workers: workers, logger: logger}
}

// rankJob is a unit of work for the pool.
type rankJob struct {
	idx    int
	target catalog.Target
}

// RankNight evaluates all targets for the night starting at dayStart and
// returns them ordered best-first. The moon and sun series are shared by
// every evaluation, so they are sampled once up front.
func (p *Pool) RankNight(ctx context.Context, targets []catalog.Target, loc transform.Location, dayStart time.Time) []Evaluation {
	if len(targets) == 0 {
		return nil
	}

	// One moon/sun pass serves the whole catalog.
	moon := sampler.SampleMoon(loc, dayStart, sampler.DefaultWindowHours, sampler.DefaultStepMinutes)
	sun := sampler.SampleSun(loc, dayStart, sampler.DefaultWindowHours, sampler.DefaultStepMinutes)

	jobs := make(chan rankJob, p.workers*2)
	evals := make([]Evaluation, len(targets))

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				evals[job.idx] = evaluate(job.target, loc, dayStart, moon, sun)
			}
		}()
	}

	// Feed jobs; a cancelled context stops feeding and leaves the remaining
	// evaluations zero-valued.
	go func() {
		defer close(jobs)
		for i, tgt := range targets {
			select {
			case jobs <- rankJob{idx: i, target: tgt}:
			case <-ctx.Done():
				p.logger.Warn("ranking cancelled", "fed", i, "total", len(targets))
				return
			}
		}
	}()

	wg.Wait()

	sort.SliceStable(evals, func(a, b int) bool {
		if evals[a].Score != evals[b].Score {
			return evals[a].Score > evals[b].Score
		}
		return evals[a].Target.ID < evals[b].Target.ID
	})
	return evals
}

// evaluate scores a single target for the night.
func evaluate(tgt catalog.Target, loc transform.Location, dayStart time.Time, moon []ephemeris.MoonState, sun []sampler.SunSample) Evaluation {
	series := sampler.Sample(tgt, loc, dayStart, sampler.DefaultWindowHours, sampler.DefaultStepMinutes)
	night := sampler.Summarize(series, sun)
	windows := interference.Detect(series.Samples, moon)

	frac := interferedFraction(windows, series.Samples)

	// Altitude during darkness carries the score; moonlight subtracts.
	score := night.DarkMaxAltDeg - moonPenaltyDeg*frac

	return Evaluation{
		Target:             tgt,
		Night:              night,
		Windows:            windows,
		InterferedFraction: frac,
		Approximate:        series.Approximate,
		Score:              score,
	}
}

// interferedFraction returns the share of the sampled window covered by
// interference windows.
func interferedFraction(windows []interference.Window, samples []sampler.TimeSample) float64 {
	if len(samples) < 2 {
		return 0
	}
	total := samples[len(samples)-1].Instant.Sub(samples[0].Instant)
	if total <= 0 {
		return 0
	}
	var covered time.Duration
	for _, w := range windows {
		covered += w.End.Sub(w.Start)
	}
	return float64(covered) / float64(total)
}
