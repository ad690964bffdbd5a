package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/skyplan/skyplan/internal/bestdate"
	"github.com/skyplan/skyplan/internal/catalog"
	"github.com/skyplan/skyplan/internal/interference"
	"github.com/skyplan/skyplan/internal/sampler"
	"github.com/skyplan/skyplan/internal/transform"
)

func main() {
	targetID := flag.String("target", "m31", "catalog target id")
	lat := flag.Float64("lat", 47.6062, "observer latitude, degrees")
	lon := flag.Float64("lon", -122.3321, "observer longitude, degrees")
	date := flag.String("date", "", "UTC day YYYY-MM-DD (default: today)")
	flag.Parse()

	store := catalog.NewStore()
	store.Set(&catalog.Dataset{
		Source:   "builtin",
		LoadedAt: time.Now().UTC(),
		Targets:  catalog.Builtin(),
	})

	tgt, ok := store.Find(*targetID)
	if !ok {
		fmt.Println("ERROR: unknown target", *targetID)
		os.Exit(1)
	}

	start := time.Now().UTC().Truncate(24 * time.Hour)
	if *date != "" {
		t, err := time.Parse("2006-01-02", *date)
		if err != nil {
			fmt.Println("ERROR parsing date:", err)
			os.Exit(1)
		}
		start = t
	}

	loc := transform.Location{LatDeg: *lat, LonDeg: *lon}
	if err := transform.ValidateLocation(loc); err != nil {
		fmt.Println("ERROR:", err)
		os.Exit(1)
	}

	fmt.Printf("%s (%s) from %.4f, %.4f on %s\n\n",
		tgt.Name, tgt.ID, loc.LatDeg, loc.LonDeg, start.Format("2006-01-02"))

	series := sampler.Sample(tgt, loc, start, sampler.DefaultWindowHours, sampler.DefaultStepMinutes)
	sun := sampler.SampleSun(loc, start, sampler.DefaultWindowHours, sampler.DefaultStepMinutes)
	moon := sampler.SampleMoon(loc, start, sampler.DefaultWindowHours, sampler.DefaultStepMinutes)
	night := sampler.Summarize(series, sun)

	if series.Approximate {
		fmt.Println("NOTE: position is an approximate placeholder")
	}

	fmt.Printf("samples: %d at %dmin cadence\n", len(series.Samples), sampler.DefaultStepMinutes)
	if !night.Rise.IsZero() {
		fmt.Printf("rise:    %s\n", night.Rise.Format(time.RFC3339))
	}
	fmt.Printf("transit: %s at %.1f deg\n", night.Transit.Format(time.RFC3339), night.MaxAltDeg)
	if !night.Set.IsZero() {
		fmt.Printf("set:     %s\n", night.Set.Format(time.RFC3339))
	}
	fmt.Printf("dark-sky max altitude: %.1f deg over %.1f dark hours\n", night.DarkMaxAltDeg, night.DarkHours)
	if night.Circumpolar {
		fmt.Println("target is circumpolar")
	}
	if night.NeverRises {
		fmt.Println("target never rises")
	}

	fmt.Printf("moon illumination: %.0f%%\n", moon[0].Illumination*100)
	windows := interference.Detect(series.Samples, moon)
	if len(windows) == 0 {
		fmt.Println("no moon interference")
	}
	for i, w := range windows {
		fmt.Printf("interference %d: %s to %s (severity %.2f)\n",
			i, w.Start.Format("15:04"), w.End.Format("15:04"), w.Severity)
	}

	if tgt.Kind == catalog.Static {
		res := bestdate.Search(tgt.Coords, loc, start)
		if res.Found {
			fmt.Printf("\nbest date within %d days: %s (dark max alt %.1f deg)\n",
				bestdate.HorizonDays, res.Date.Format("2006-01-02"), res.MaxDarkAltDeg)
		} else {
			fmt.Printf("\nno good date within %d days\n", bestdate.HorizonDays)
		}
	}
}
