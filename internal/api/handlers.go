package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/skyplan/skyplan/internal/bestdate"
	"github.com/skyplan/skyplan/internal/catalog"
	"github.com/skyplan/skyplan/internal/interference"
	"github.com/skyplan/skyplan/internal/metrics"
	"github.com/skyplan/skyplan/internal/optics"
	"github.com/skyplan/skyplan/internal/plancache"
	"github.com/skyplan/skyplan/internal/sampler"
	"github.com/skyplan/skyplan/internal/transform"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// parseLocation reads lat/lon/elev query parameters. lat and lon are
// required; elev defaults to sea level.
func parseLocation(q url.Values) (transform.Location, error) {
	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(q.Get("lon"), 64)
	if errLat != nil || errLon != nil {
		return transform.Location{}, errInvalid("lat and lon are required numeric parameters")
	}
	loc := transform.Location{LatDeg: lat, LonDeg: lon}
	if v := q.Get("elev"); v != "" {
		elev, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return transform.Location{}, errInvalid("invalid elev parameter")
		}
		loc.ElevM = elev
	}
	if err := transform.ValidateLocation(loc); err != nil {
		return transform.Location{}, errInvalid(err.Error())
	}
	return loc, nil
}

// parseDate reads the date query parameter as a UTC calendar day
// (YYYY-MM-DD) or a full RFC 3339 instant. Defaults to the current UTC day.
func parseDate(q url.Values) (time.Time, error) {
	v := q.Get("date")
	if v == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, errInvalid("invalid date parameter, want YYYY-MM-DD or RFC 3339")
}

// parseWindow reads window (hours) and step (minutes) with sampling
// defaults and sane bounds.
func parseWindow(q url.Values) (windowHours, stepMinutes int, err error) {
	windowHours = sampler.DefaultWindowHours
	stepMinutes = sampler.DefaultStepMinutes
	if v := q.Get("window"); v != "" {
		n, perr := strconv.Atoi(v)
		if perr != nil || n < 1 || n > 168 {
			return 0, 0, errInvalid("invalid window parameter, must be 1-168 hours")
		}
		windowHours = n
	}
	if v := q.Get("step"); v != "" {
		n, perr := strconv.Atoi(v)
		if perr != nil || n < 1 || n > 120 {
			return 0, 0, errInvalid("invalid step parameter, must be 1-120 minutes")
		}
		stepMinutes = n
	}
	return windowHours, stepMinutes, nil
}

// resolveTarget finds the requested target: either target=<catalog id> or an
// ad-hoc fixed position via ra=<deg>&dec=<deg>.
func (s *Server) resolveTarget(q url.Values) (catalog.Target, error) {
	if id := q.Get("target"); id != "" {
		tgt, ok := s.store.Find(id)
		if !ok {
			return catalog.Target{}, errNotFound("unknown target " + strconv.Quote(id))
		}
		return tgt, nil
	}

	raStr, decStr := q.Get("ra"), q.Get("dec")
	if raStr == "" || decStr == "" {
		return catalog.Target{}, errInvalid("either target or ra+dec is required")
	}
	ra, errRA := strconv.ParseFloat(raStr, 64)
	dec, errDec := strconv.ParseFloat(decStr, 64)
	if errRA != nil || errDec != nil {
		return catalog.Target{}, errInvalid("invalid ra/dec parameters")
	}
	eq := transform.Equatorial{RADeg: ra, DecDeg: dec}
	if err := transform.ValidateEquatorial(eq); err != nil {
		return catalog.Target{}, errInvalid(err.Error())
	}
	return catalog.Target{ID: "custom", Name: "Custom position", Kind: catalog.Static, Coords: eq}, nil
}

// apiError carries the HTTP status a parameter failure maps to.
type apiError struct {
	status int
	msg    string
}

func (e *apiError) Error() string { return e.msg }

func errInvalid(msg string) error  { return &apiError{status: http.StatusBadRequest, msg: msg} }
func errNotFound(msg string) error { return &apiError{status: http.StatusNotFound, msg: msg} }

func writeAPIError(w http.ResponseWriter, err error) {
	if ae, ok := err.(*apiError); ok {
		writeError(w, ae.status, ae.msg)
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}

// JSON payload shapes.

type targetJSON struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Type   string   `json:"type,omitempty"`
	Kind   string   `json:"kind"`
	RADeg  *float64 `json:"ra_deg,omitempty"`
	DecDeg *float64 `json:"dec_deg,omitempty"`
	Body   string   `json:"body,omitempty"`
}

func toTargetJSON(t catalog.Target) targetJSON {
	out := targetJSON{ID: t.ID, Name: t.Name, Type: t.Type}
	switch t.Kind {
	case catalog.Static:
		out.Kind = "static"
		ra, dec := t.Coords.RADeg, t.Coords.DecDeg
		out.RADeg, out.DecDeg = &ra, &dec
	case catalog.Dynamic:
		out.Kind = "dynamic"
		out.Body = t.Body.String()
	}
	return out
}

type sampleJSON struct {
	T      string  `json:"t"`
	AltDeg float64 `json:"alt_deg"`
	AzDeg  float64 `json:"az_deg"`
}

type sunSampleJSON struct {
	T        string  `json:"t"`
	AltDeg   float64 `json:"alt_deg"`
	Darkness string  `json:"darkness"`
}

type moonSampleJSON struct {
	T            string  `json:"t"`
	AltDeg       float64 `json:"alt_deg"`
	AzDeg        float64 `json:"az_deg"`
	Illumination float64 `json:"illumination"`
}

type nightJSON struct {
	Rise          string  `json:"rise,omitempty"`
	Set           string  `json:"set,omitempty"`
	Transit       string  `json:"transit,omitempty"`
	MaxAltDeg     float64 `json:"max_alt_deg"`
	DarkMaxAltDeg float64 `json:"dark_max_alt_deg"`
	DarkHours     float64 `json:"dark_hours"`
	Circumpolar   bool    `json:"circumpolar"`
	NeverRises    bool    `json:"never_rises"`
}

func toNightJSON(n sampler.NightSummary) nightJSON {
	out := nightJSON{
		MaxAltDeg:     n.MaxAltDeg,
		DarkMaxAltDeg: n.DarkMaxAltDeg,
		DarkHours:     n.DarkHours,
		Circumpolar:   n.Circumpolar,
		NeverRises:    n.NeverRises,
	}
	if !n.Rise.IsZero() {
		out.Rise = n.Rise.Format(time.RFC3339)
	}
	if !n.Set.IsZero() {
		out.Set = n.Set.Format(time.RFC3339)
	}
	if !n.Transit.IsZero() {
		out.Transit = n.Transit.Format(time.RFC3339)
	}
	return out
}

type windowJSON struct {
	Start    string  `json:"start"`
	End      string  `json:"end"`
	Severity float64 `json:"severity"`
}

func toWindowsJSON(ws []interference.Window) []windowJSON {
	out := make([]windowJSON, len(ws))
	for i, w := range ws {
		out[i] = windowJSON{
			Start:    w.Start.Format(time.RFC3339),
			End:      w.End.Format(time.RFC3339),
			Severity: w.Severity,
		}
	}
	return out
}

// handleTargets lists the catalog, optionally filtered by type or kind.
// GET /api/v1/targets?type=galaxy&kind=static
func (s *Server) handleTargets(w http.ResponseWriter, r *http.Request) {
	ds := s.store.Get()
	if ds == nil {
		writeError(w, http.StatusServiceUnavailable, "no catalog loaded")
		return
	}

	typeFilter := strings.ToLower(r.URL.Query().Get("type"))
	kindFilter := strings.ToLower(r.URL.Query().Get("kind"))
	if kindFilter != "" && kindFilter != "static" && kindFilter != "dynamic" {
		writeError(w, http.StatusBadRequest, "invalid kind parameter, want static or dynamic")
		return
	}

	targets := make([]targetJSON, 0, len(ds.Targets))
	for _, t := range ds.Targets {
		if typeFilter != "" && strings.ToLower(t.Type) != typeFilter {
			continue
		}
		tj := toTargetJSON(t)
		if kindFilter != "" && tj.Kind != kindFilter {
			continue
		}
		targets = append(targets, tj)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"source":    ds.Source,
		"loaded_at": ds.LoadedAt.UTC().Format(time.RFC3339),
		"count":     len(targets),
		"targets":   targets,
	})
}

// handleVisibility returns the full night plan for one target: alt/az
// series, sun darkness bands, night summary, and moon interference windows.
// GET /api/v1/visibility?target=m31&lat=47.6&lon=-122.3&date=2026-08-26
func (s *Server) handleVisibility(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	tgt, err := s.resolveTarget(q)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	loc, err := parseLocation(q)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	start, err := parseDate(q)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	windowHours, stepMinutes, err := parseWindow(q)
	if err != nil {
		writeAPIError(w, err)
		return
	}

	plan := s.nightPlan(tgt, loc, start, windowHours, stepMinutes)
	metrics.IncEvaluations("visibility")

	samples := make([]sampleJSON, len(plan.Series.Samples))
	for i, ts := range plan.Series.Samples {
		samples[i] = sampleJSON{T: ts.Instant.Format(time.RFC3339), AltDeg: ts.AltDeg, AzDeg: ts.AzDeg}
	}
	sun := make([]sunSampleJSON, len(plan.Sun))
	for i, ss := range plan.Sun {
		sun[i] = sunSampleJSON{T: ss.Instant.Format(time.RFC3339), AltDeg: ss.AltDeg, Darkness: ss.Darkness.String()}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"target":       toTargetJSON(plan.Target),
		"approximate":  plan.Series.Approximate,
		"samples":      samples,
		"sun":          sun,
		"night":        toNightJSON(plan.Night),
		"interference": toWindowsJSON(plan.Windows),
	})
}

// nightPlan computes (or retrieves from cache) the full plan for a target.
// Only default-cadence plans for catalog targets are cached; custom
// positions and custom cadences are computed fresh.
func (s *Server) nightPlan(tgt catalog.Target, loc transform.Location, start time.Time, windowHours, stepMinutes int) *plancache.Plan {
	cacheable := s.cache != nil && tgt.ID != "custom" &&
		windowHours == sampler.DefaultWindowHours && stepMinutes == sampler.DefaultStepMinutes

	var key plancache.Key
	if cacheable {
		key = plancache.NewKey(tgt.ID, loc, start)
		if plan := s.cache.Get(key); plan != nil {
			return plan
		}
	}

	series := sampler.Sample(tgt, loc, start, windowHours, stepMinutes)
	sun := sampler.SampleSun(loc, start, windowHours, stepMinutes)
	moon := sampler.SampleMoon(loc, start, windowHours, stepMinutes)

	plan := &plancache.Plan{
		Target:  tgt,
		Series:  series,
		Sun:     sun,
		Moon:    moon,
		Night:   sampler.Summarize(series, sun),
		Windows: interference.Detect(series.Samples, moon),
	}
	if cacheable {
		s.cache.Put(key, plan)
	}
	return plan
}

// handleMoon returns the moon's position series and illumination.
// GET /api/v1/moon?lat=47.6&lon=-122.3&date=2026-08-26
func (s *Server) handleMoon(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	loc, err := parseLocation(q)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	start, err := parseDate(q)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	windowHours, stepMinutes, err := parseWindow(q)
	if err != nil {
		writeAPIError(w, err)
		return
	}

	states := sampler.SampleMoon(loc, start, windowHours, stepMinutes)
	metrics.IncEvaluations("moon")

	samples := make([]moonSampleJSON, len(states))
	for i, st := range states {
		samples[i] = moonSampleJSON{
			T:            st.Instant.Format(time.RFC3339),
			AltDeg:       st.AltDeg,
			AzDeg:        st.AzDeg,
			Illumination: st.Illumination,
		}
	}

	resp := map[string]any{"samples": samples}
	if len(states) > 0 {
		resp["illumination"] = states[0].Illumination
		resp["safe_separation_deg"] = interference.SafeSeparation(states[0].Illumination)
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleInterference returns moon-interference windows for one target.
// GET /api/v1/interference?target=m42&lat=47.6&lon=-122.3&date=2026-08-26
func (s *Server) handleInterference(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	tgt, err := s.resolveTarget(q)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	loc, err := parseLocation(q)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	start, err := parseDate(q)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	windowHours, stepMinutes, err := parseWindow(q)
	if err != nil {
		writeAPIError(w, err)
		return
	}

	plan := s.nightPlan(tgt, loc, start, windowHours, stepMinutes)
	metrics.IncEvaluations("interference")

	writeJSON(w, http.StatusOK, map[string]any{
		"target":      toTargetJSON(plan.Target),
		"approximate": plan.Series.Approximate,
		"windows":     toWindowsJSON(plan.Windows),
	})
}

// handleBestDate returns the earliest good imaging date for a target.
// GET /api/v1/bestdate?target=m31&lat=47.6&lon=-122.3&date=2026-08-26
func (s *Server) handleBestDate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	tgt, err := s.resolveTarget(q)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	if tgt.Kind != catalog.Static {
		writeError(w, http.StatusBadRequest, "bestdate requires a fixed-position target")
		return
	}
	loc, err := parseLocation(q)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	start, err := parseDate(q)
	if err != nil {
		writeAPIError(w, err)
		return
	}

	res := bestdate.Search(tgt.Coords, loc, start)
	metrics.IncEvaluations("bestdate")

	resp := map[string]any{
		"found":        res.Found,
		"horizon_days": bestdate.HorizonDays,
	}
	if res.Found {
		resp["date"] = res.Date.Format("2006-01-02")
		resp["max_dark_alt_deg"] = res.MaxDarkAltDeg
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleOptics computes field of view, pixel scale, and filter advice.
// GET /api/v1/optics?focal_length=1000&aperture=100&sensor_width=23.5&sensor_height=15.6&pixel_size=3.76
func (s *Server) handleOptics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	reqFloat := func(name string) (float64, bool) {
		v, err := strconv.ParseFloat(q.Get(name), 64)
		return v, err == nil
	}
	optFloat := func(name string, def float64) (float64, bool) {
		if q.Get(name) == "" {
			return def, true
		}
		return reqFloat(name)
	}

	fl, ok1 := reqFloat("focal_length")
	ap, ok2 := reqFloat("aperture")
	sw, ok3 := reqFloat("sensor_width")
	sh, ok4 := reqFloat("sensor_height")
	px, ok5 := reqFloat("pixel_size")
	red, ok6 := optFloat("reducer", 1.0)
	bar, ok7 := optFloat("barlow", 1.0)
	if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6 && ok7) {
		writeError(w, http.StatusBadRequest, "focal_length, aperture, sensor_width, sensor_height and pixel_size are required numeric parameters")
		return
	}

	res, err := optics.Compute(
		optics.OpticalSystem{FocalLengthMm: fl, ApertureMm: ap, ReducerFactor: red, BarlowFactor: bar},
		optics.SensorSystem{WidthMm: sw, HeightMm: sh, PixelSizeUm: px},
	)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	metrics.IncEvaluations("optics")

	writeJSON(w, http.StatusOK, map[string]any{
		"fov_width_arcmin":   res.WidthArcmin,
		"fov_height_arcmin":  res.HeightArcmin,
		"pixel_scale_arcsec": res.PixelScaleArcsec,
		"pixel_scale_class":  res.PixelScaleClass,
		"sensor_diagonal_mm": res.SensorDiagonalMm,
		"effective_fl_mm":    res.EffectiveFLMm,
		"focal_ratio":        res.FocalRatio,
		"filter_name":        res.FilterName,
		"filter_diameter_mm": res.FilterDiameterMm,
	})
}

// handleTonight ranks the whole catalog for the night and returns the best
// candidates.
// GET /api/v1/tonight?lat=47.6&lon=-122.3&date=2026-08-26&limit=10
func (s *Server) handleTonight(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	loc, err := parseLocation(q)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	start, err := parseDate(q)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	limit := 10
	if v := q.Get("limit"); v != "" {
		n, perr := strconv.Atoi(v)
		if perr != nil || n < 1 || n > 100 {
			writeError(w, http.StatusBadRequest, "invalid limit parameter, must be 1-100")
			return
		}
		limit = n
	}

	ds := s.store.Get()
	if ds == nil {
		writeError(w, http.StatusServiceUnavailable, "no catalog loaded")
		return
	}

	rankStart := time.Now()
	evals := s.pool.RankNight(r.Context(), ds.Targets, loc, start)
	metrics.ObserveRankingDuration(time.Since(rankStart))
	metrics.IncEvaluations("tonight")

	if len(evals) > limit {
		evals = evals[:limit]
	}

	type evalJSON struct {
		Target             targetJSON `json:"target"`
		Score              float64    `json:"score"`
		Night              nightJSON  `json:"night"`
		InterferedFraction float64    `json:"interfered_fraction"`
		Approximate        bool       `json:"approximate"`
	}
	out := make([]evalJSON, len(evals))
	for i, e := range evals {
		out[i] = evalJSON{
			Target:             toTargetJSON(e.Target),
			Score:              e.Score,
			Night:              toNightJSON(e.Night),
			InterferedFraction: e.InterferedFraction,
			Approximate:        e.Approximate,
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"date":        start.Format("2006-01-02"),
		"count":       len(out),
		"evaluations": out,
	})
}
