// Package constellation defines the transmit point sets used by the
// pipeline. A set is created once at startup and read-only thereafter;
// the point index is the canonical symbol label everywhere downstream.
package constellation

import (
	"fmt"
	"math/bits"

	"github.com/siglab/linksim/internal/signal"
)

// Set is an ordered, index-addressable constellation. Accessors return
// clones so the set stays immutable for the whole run.
type Set struct {
	amplitude float64
	dim       int
	points    []signal.Point
}

// Cube builds the cube-corner constellation: the Cartesian product of
// {-a, +a} across dim axes, 2^dim points in total. Enumeration order is
// fixed: bit k of the symbol index, counted from the most significant,
// selects the sign of axis k, so the last axis varies fastest. Index 0
// is the all-minus corner, index 2^dim-1 the all-plus corner.
func Cube(a float64, dim int) (*Set, error) {
	if a <= 0 {
		return nil, fmt.Errorf("%w: amplitude must be positive, got %g", signal.ErrInvalidParameter, a)
	}
	if dim < 1 {
		return nil, fmt.Errorf("%w: dimension must be at least 1, got %d", signal.ErrInvalidParameter, dim)
	}
	if dim > 16 {
		return nil, fmt.Errorf("%w: dimension %d too large", signal.ErrInvalidParameter, dim)
	}

	m := 1 << dim
	points := make([]signal.Point, m)
	for i := 0; i < m; i++ {
		p := make(signal.Point, dim)
		for d := 0; d < dim; d++ {
			if (i>>(dim-1-d))&1 == 1 {
				p[d] = a
			} else {
				p[d] = -a
			}
		}
		points[i] = p
	}

	return &Set{amplitude: a, dim: dim, points: points}, nil
}

func (s *Set) Name() string {
	return fmt.Sprintf("cube%d", s.Size())
}

// Size is the number of symbols M.
func (s *Set) Size() int {
	return len(s.points)
}

// Dim is the signal-space dimensionality D.
func (s *Set) Dim() int {
	return s.dim
}

func (s *Set) Amplitude() float64 {
	return s.amplitude
}

// Energy is the per-symbol energy D*a^2. All cube corners are
// equidistant from the origin, so it is the same for every index.
func (s *Set) Energy() float64 {
	return float64(s.dim) * s.amplitude * s.amplitude
}

// Point returns a copy of the constellation point for symbol index i.
func (s *Set) Point(i int) signal.Point {
	return s.points[i].Clone()
}

// Points returns a copy of the full ordered point list.
func (s *Set) Points() []signal.Point {
	return signal.ClonePoints(s.points)
}

// Edges lists index pairs of adjacent corners (sign patterns differing
// in exactly one axis). For dim=3 these are the 12 cube edges the
// visualization wireframe draws.
func (s *Set) Edges() [][2]int {
	var edges [][2]int
	for i := 0; i < len(s.points); i++ {
		for j := i + 1; j < len(s.points); j++ {
			if bits.OnesCount(uint(i^j)) == 1 {
				edges = append(edges, [2]int{i, j})
			}
		}
	}
	return edges
}
