// Package detect implements maximum-likelihood symbol detection and the
// decision-region analysis built on the same nearest-neighbor rule.
package detect

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/siglab/linksim/internal/constellation"
	"github.com/siglab/linksim/internal/signal"
)

// batchRows bounds how many rows of the distance matrix are materialized
// at once. Chunking changes memory use only, never results: the argmin
// is taken per row.
const batchRows = 4096

// Detector maps received points to the index of the nearest
// constellation point under Euclidean distance. For equiprobable,
// equal-energy symbols in AWGN the minimum-distance rule is exactly
// maximum-likelihood detection.
type Detector struct {
	set      *constellation.Set
	points   *mat.Dense // M x D constellation matrix
	energies []float64  // per-symbol squared norms
}

func New(set *constellation.Set) (*Detector, error) {
	if set == nil {
		return nil, fmt.Errorf("%w: nil constellation", signal.ErrInvalidParameter)
	}
	m, dim := set.Size(), set.Dim()
	points := mat.NewDense(m, dim, nil)
	energies := make([]float64, m)
	for i := 0; i < m; i++ {
		p := set.Point(i)
		points.SetRow(i, p)
		energies[i] = p.Energy()
	}
	return &Detector{set: set, points: points, energies: energies}, nil
}

func (d *Detector) Set() *constellation.Set {
	return d.set
}

// Detect returns, for each received point, the index of the nearest
// constellation point. Ties resolve deterministically to the lowest
// index. Dimensionality is checked eagerly before any distance work.
func (d *Detector) Detect(received []signal.Point) ([]int, error) {
	dim := d.set.Dim()
	for i, p := range received {
		if p.Dim() != dim {
			return nil, fmt.Errorf("%w: received point %d has dim %d, constellation has %d",
				signal.ErrDimensionMismatch, i, p.Dim(), dim)
		}
	}

	detected := make([]int, len(received))
	for start := 0; start < len(received); start += batchRows {
		end := min(start+batchRows, len(received))
		d.nearest(received[start:end], detected[start:end])
	}
	return detected, nil
}

// nearest fills out[i] with the argmin over symbol indices j of
// ||rx[i]-c_j||^2, expanded as ||rx||^2 + ||c_j||^2 - 2 rx·c_j so the
// cross terms come from one dense product per chunk. floats.MinIdx
// returns the first minimum, which is the tie-break rule.
func (d *Detector) nearest(rx []signal.Point, out []int) {
	n := len(rx)
	if n == 0 {
		return
	}
	m, dim := d.set.Size(), d.set.Dim()

	r := mat.NewDense(n, dim, nil)
	for i, p := range rx {
		r.SetRow(i, p)
	}
	var cross mat.Dense
	cross.Mul(r, d.points.T()) // n x m

	dist := make([]float64, m)
	for i := 0; i < n; i++ {
		re := rx[i].Energy()
		row := cross.RawRowView(i)
		for j := 0; j < m; j++ {
			dist[j] = re + d.energies[j] - 2*row[j]
		}
		out[i] = floats.MinIdx(dist)
	}
}
