package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/siglab/linksim/internal/signal"
)

// SampleStats summarizes scalar noise samples pooled across coordinates.
type SampleStats struct {
	Samples  int
	Mean     float64
	Variance float64
	StdDev   float64
}

// NoiseStats flattens a recorded noise sequence, pooling every
// coordinate, and computes mean and sample variance.
func NoiseStats(noise []signal.Point) SampleStats {
	n := 0
	for _, w := range noise {
		n += len(w)
	}
	if n == 0 {
		return SampleStats{}
	}
	flat := make([]float64, 0, n)
	for _, w := range noise {
		flat = append(flat, w...)
	}
	variance := stat.Variance(flat, nil)
	return SampleStats{
		Samples:  n,
		Mean:     stat.Mean(flat, nil),
		Variance: variance,
		StdDev:   math.Sqrt(variance),
	}
}

// Flatten pools the coordinates of a point sequence into one sample
// slice, in transmission order.
func Flatten(points []signal.Point) []float64 {
	flat := make([]float64, 0, len(points)*3)
	for _, p := range points {
		flat = append(flat, p...)
	}
	return flat
}

// Histogram bins samples into equal-width bins spanning the sample
// range and returns bin centers with density-normalized heights (the
// heights integrate to 1, so a fitted density can be overlaid
// directly).
func Histogram(samples []float64, bins int) (centers, density []float64) {
	if len(samples) == 0 || bins < 1 {
		return nil, nil
	}
	s := make([]float64, len(samples))
	copy(s, samples)
	sort.Float64s(s)

	lo, hi := s[0], s[len(s)-1]
	if lo == hi {
		hi = lo + 1
	}
	width := (hi - lo) / float64(bins)

	dividers := floats.Span(make([]float64, bins+1), lo, hi)
	// stat.Histogram buckets [d[i], d[i+1]); nudge the top divider so
	// the maximum sample lands in the last bin.
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, s, nil)

	total := float64(len(s))
	centers = make([]float64, bins)
	density = make([]float64, bins)
	for i := range counts {
		centers[i] = lo + width*(float64(i)+0.5)
		density[i] = counts[i] / (total * width)
	}
	return centers, density
}

// NormalPDF evaluates the density of N(0, sigma) at x, for histogram
// overlays.
func NormalPDF(x, sigma float64) float64 {
	if sigma <= 0 {
		return 0
	}
	return distuv.Normal{Mu: 0, Sigma: sigma}.Prob(x)
}
