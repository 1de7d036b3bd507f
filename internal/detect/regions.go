package detect

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/siglab/linksim/internal/constellation"
	"github.com/siglab/linksim/internal/signal"
)

// RegionSpec describes the 2D slice of the signal space sampled by
// Regions: two swept axes, one axis held at a fixed value (or -1 for
// two-dimensional constellations), and a square sampling grid.
type RegionSpec struct {
	AxisX      int
	AxisY      int
	Fixed      int
	FixedValue float64
	Min        float64
	Max        float64
	Steps      int
}

// DefaultRegionSpec is the x-y plane at z=0, spanning ±2A with 200
// steps per axis.
func DefaultRegionSpec(set *constellation.Set) RegionSpec {
	spec := RegionSpec{
		AxisX: 0,
		AxisY: 1,
		Fixed: -1,
		Min:   -2 * set.Amplitude(),
		Max:   2 * set.Amplitude(),
		Steps: 200,
	}
	if set.Dim() > 2 {
		spec.Fixed = 2
		spec.FixedValue = 0
	}
	return spec
}

// RegionMap is the labeling of a grid slice with the winning symbol
// index per cell: Index[yi][xi] is the detection for the point with
// coordinates (Xs[xi], Ys[yi]) on the swept axes.
type RegionMap struct {
	Spec RegionSpec
	Xs   []float64
	Ys   []float64
	// Index is indexed row-major, y first.
	Index [][]int
}

// Regions labels a dense grid over one coordinate plane with the
// nearest constellation index per grid point. It is the same
// nearest-neighbor rule as Detect, applied exhaustively to a slice of
// the space instead of to random samples; both paths share one routine.
func (d *Detector) Regions(spec RegionSpec) (*RegionMap, error) {
	dim := d.set.Dim()
	if spec.Steps < 2 {
		return nil, fmt.Errorf("%w: region grid needs at least 2 steps, got %d", signal.ErrInvalidParameter, spec.Steps)
	}
	if spec.Min >= spec.Max {
		return nil, fmt.Errorf("%w: region extent [%g, %g] is empty", signal.ErrInvalidParameter, spec.Min, spec.Max)
	}
	if spec.AxisX < 0 || spec.AxisX >= dim || spec.AxisY < 0 || spec.AxisY >= dim || spec.AxisX == spec.AxisY {
		return nil, fmt.Errorf("%w: swept axes (%d, %d) invalid for dimension %d",
			signal.ErrInvalidParameter, spec.AxisX, spec.AxisY, dim)
	}
	if spec.Fixed >= dim || (spec.Fixed >= 0 && (spec.Fixed == spec.AxisX || spec.Fixed == spec.AxisY)) {
		return nil, fmt.Errorf("%w: fixed axis %d invalid", signal.ErrInvalidParameter, spec.Fixed)
	}

	xs := floats.Span(make([]float64, spec.Steps), spec.Min, spec.Max)
	ys := floats.Span(make([]float64, spec.Steps), spec.Min, spec.Max)

	grid := make([]signal.Point, 0, spec.Steps*spec.Steps)
	for _, y := range ys {
		for _, x := range xs {
			p := make(signal.Point, dim)
			p[spec.AxisX] = x
			p[spec.AxisY] = y
			if spec.Fixed >= 0 {
				p[spec.Fixed] = spec.FixedValue
			}
			grid = append(grid, p)
		}
	}

	labels, err := d.Detect(grid)
	if err != nil {
		return nil, err
	}

	index := make([][]int, spec.Steps)
	for yi := range index {
		index[yi] = labels[yi*spec.Steps : (yi+1)*spec.Steps]
	}
	return &RegionMap{Spec: spec, Xs: xs, Ys: ys, Index: index}, nil
}
