package catalog

import (
	"encoding/json"
	"io"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/skyplan/skyplan/internal/ephemeris"
	"github.com/skyplan/skyplan/internal/transform"
)

// entryJSON is the wire form of one catalog entry. Static entries carry
// ra_deg/dec_deg; dynamic entries carry body. Supplying both (or neither)
// is malformed.
type entryJSON struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Type   string   `json:"type"`
	RADeg  *float64 `json:"ra_deg,omitempty"`
	DecDeg *float64 `json:"dec_deg,omitempty"`
	Body   string   `json:"body,omitempty"`
}

// Parse reads a JSON array of catalog entries from r.
// Malformed entries are skipped with a warning log; an unreadable or
// syntactically invalid document is an error.
func Parse(r io.Reader, logger *slog.Logger) ([]Target, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading catalog data")
	}

	var raw []entryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "decoding catalog JSON")
	}

	targets := make([]Target, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for i, e := range raw {
		tgt, err := e.toTarget()
		if err != nil {
			logger.Warn("skipping malformed catalog entry", "index", i, "id", e.ID, "error", err)
			continue
		}
		if seen[tgt.ID] {
			logger.Warn("skipping duplicate catalog entry", "index", i, "id", e.ID)
			continue
		}
		seen[tgt.ID] = true
		targets = append(targets, tgt)
	}

	return targets, nil
}

func (e entryJSON) toTarget() (Target, error) {
	if e.ID == "" {
		return Target{}, errors.New("missing id")
	}
	if e.Name == "" {
		return Target{}, errors.New("missing name")
	}

	hasCoords := e.RADeg != nil || e.DecDeg != nil
	hasBody := e.Body != ""

	switch {
	case hasCoords && hasBody:
		return Target{}, errors.New("entry has both coordinates and body")
	case hasBody:
		body, ok := ephemeris.BodyFromName(e.Body)
		if !ok {
			return Target{}, errors.Errorf("unknown body %q", e.Body)
		}
		return Target{
			ID:   e.ID,
			Name: e.Name,
			Type: e.Type,
			Kind: Dynamic,
			Body: body,
		}, nil
	case e.RADeg != nil && e.DecDeg != nil:
		eq := transform.Equatorial{RADeg: *e.RADeg, DecDeg: *e.DecDeg}
		if err := transform.ValidateEquatorial(eq); err != nil {
			return Target{}, errors.Wrap(err, "invalid coordinates")
		}
		return Target{
			ID:     e.ID,
			Name:   e.Name,
			Type:   e.Type,
			Kind:   Static,
			Coords: eq,
		}, nil
	}
	return Target{}, errors.New("entry has neither complete coordinates nor body")
}
