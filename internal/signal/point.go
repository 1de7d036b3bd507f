package signal

import (
	"math"
)

type Point []float64

func (p Point) Clone() Point {
	c := make(Point, len(p))
	copy(c, p)
	return c
}

func (p Point) IsValid() bool {
	for _, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (p Point) Dim() int {
	return len(p)
}

func (p Point) Norm() float64 {
	return math.Sqrt(p.Energy())
}

// Energy is the squared Euclidean norm, the symbol energy of the point.
func (p Point) Energy() float64 {
	sum := 0.0
	for _, v := range p {
		sum += v * v
	}
	return sum
}

func (p Point) Add(other Point) Point {
	result := make(Point, len(p))
	for i := range p {
		if i < len(other) {
			result[i] = p[i] + other[i]
		} else {
			result[i] = p[i]
		}
	}
	return result
}

func (p Point) Sub(other Point) Point {
	result := make(Point, len(p))
	for i := range p {
		if i < len(other) {
			result[i] = p[i] - other[i]
		} else {
			result[i] = p[i]
		}
	}
	return result
}

func (p Point) Scale(factor float64) Point {
	result := make(Point, len(p))
	for i := range p {
		result[i] = p[i] * factor
	}
	return result
}

// DistSq is the squared Euclidean distance to other. Both points must
// have the same dimension; callers validate before batch work.
func (p Point) DistSq(other Point) float64 {
	sum := 0.0
	for i := range p {
		d := p[i] - other[i]
		sum += d * d
	}
	return sum
}

// ClonePoints deep-copies a sequence of points.
func ClonePoints(points []Point) []Point {
	c := make([]Point, len(points))
	for i, p := range points {
		c[i] = p.Clone()
	}
	return c
}
