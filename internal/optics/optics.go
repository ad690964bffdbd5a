// Package optics computes field of view, pixel scale, and filter sizing for
// a telescope/camera pair. Pure arithmetic, no time dependency.
package optics

import (
	"fmt"
	"math"
)

// Unit conversion constants.
const (
	arcminPerRadian = 3437.75 // 60 * 180 / pi, small-angle approximation
	arcsecPerRadian = 206265.0
)

// filterClearance is the vignetting margin: the filter must cover the sensor
// diagonal with 15% to spare.
const filterClearance = 1.15

// OpticalSystem describes the telescope side of the optical train.
type OpticalSystem struct {
	FocalLengthMm float64 // > 0
	ApertureMm    float64 // > 0
	ReducerFactor float64 // > 0; 1.0 = no reducer
	BarlowFactor  float64 // >= 1; 1.0 = no barlow
}

// SensorSystem describes the camera sensor.
type SensorSystem struct {
	WidthMm     float64 // > 0
	HeightMm    float64 // > 0
	PixelSizeUm float64 // > 0
}

// FOVResult holds the derived framing numbers. Never mutated after creation.
type FOVResult struct {
	WidthArcmin      float64
	HeightArcmin     float64
	PixelScaleArcsec float64 // arcseconds of sky per pixel
	PixelScaleClass  string
	SensorDiagonalMm float64
	EffectiveFLMm    float64
	FocalRatio       float64
	FilterName       string
	FilterDiameterMm float64
}

// pixelScaleBands classifies sampling quality in arcsec/pixel, ordered by
// ascending lower bound.
var pixelScaleBands = []struct {
	upper float64
	label string
}{
	{0.3, "oversampled"},
	{0.5, "heavy oversampling"},
	{1.0, "excellent"},
	{2.0, "good"},
	{3.0, "marginal"},
	{4.0, "poor"},
	{math.Inf(1), "bad"},
}

// standardFilters lists common astronomy filter formats by clear diameter,
// ordered smallest first. The largest is the fallback when nothing clears
// the vignetting margin.
var standardFilters = []struct {
	name string
	mm   float64
}{
	{"1.25\"", 31.7},
	{"36mm", 36.0},
	{"2\"", 50.8},
	{"65mm", 65.0},
}

// Validate rejects non-positive or non-finite optical parameters.
func (o OpticalSystem) Validate() error {
	for _, p := range []struct {
		name string
		v    float64
		min  float64
	}{
		{"focal length", o.FocalLengthMm, 0},
		{"aperture", o.ApertureMm, 0},
		{"reducer factor", o.ReducerFactor, 0},
		{"barlow factor", o.BarlowFactor, 1},
	} {
		if math.IsNaN(p.v) || math.IsInf(p.v, 0) {
			return fmt.Errorf("%s is not finite", p.name)
		}
		if p.min == 0 && p.v <= 0 {
			return fmt.Errorf("%s must be positive, got %v", p.name, p.v)
		}
		if p.min > 0 && p.v < p.min {
			return fmt.Errorf("%s must be >= %v, got %v", p.name, p.min, p.v)
		}
	}
	return nil
}

// Validate rejects non-positive or non-finite sensor parameters.
func (s SensorSystem) Validate() error {
	for _, p := range []struct {
		name string
		v    float64
	}{
		{"sensor width", s.WidthMm},
		{"sensor height", s.HeightMm},
		{"pixel size", s.PixelSizeUm},
	} {
		if math.IsNaN(p.v) || math.IsInf(p.v, 0) || p.v <= 0 {
			return fmt.Errorf("%s must be positive and finite, got %v", p.name, p.v)
		}
	}
	return nil
}

// Compute derives the framing numbers for an optical train and sensor.
func Compute(o OpticalSystem, s SensorSystem) (FOVResult, error) {
	if err := o.Validate(); err != nil {
		return FOVResult{}, err
	}
	if err := s.Validate(); err != nil {
		return FOVResult{}, err
	}

	efl := o.FocalLengthMm * o.ReducerFactor * o.BarlowFactor
	diag := math.Hypot(s.WidthMm, s.HeightMm)
	scale := arcsecPerRadian * (s.PixelSizeUm / 1000.0) / efl
	name, mm := recommendFilter(diag)

	return FOVResult{
		WidthArcmin:      arcminPerRadian * s.WidthMm / efl,
		HeightArcmin:     arcminPerRadian * s.HeightMm / efl,
		PixelScaleArcsec: scale,
		PixelScaleClass:  classifyPixelScale(scale),
		SensorDiagonalMm: diag,
		EffectiveFLMm:    efl,
		FocalRatio:       efl / o.ApertureMm,
		FilterName:       name,
		FilterDiameterMm: mm,
	}, nil
}

// classifyPixelScale maps arcsec/pixel to its sampling-quality band.
func classifyPixelScale(scale float64) string {
	for _, b := range pixelScaleBands {
		if scale < b.upper {
			return b.label
		}
	}
	return pixelScaleBands[len(pixelScaleBands)-1].label
}

// recommendFilter picks the smallest standard filter whose clear diameter
// covers the sensor diagonal with the vignetting margin, falling back to the
// largest format when nothing qualifies.
func recommendFilter(diagonalMm float64) (string, float64) {
	need := diagonalMm * filterClearance
	for _, f := range standardFilters {
		if f.mm >= need {
			return f.name, f.mm
		}
	}
	last := standardFilters[len(standardFilters)-1]
	return last.name, last.mm
}
