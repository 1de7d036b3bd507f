package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Q is the Gaussian tail probability P(Z > x) for standard normal Z.
func Q(x float64) float64 {
	return distuv.UnitNormal.Survival(x)
}

// TheorySER is the exact symbol error probability of a cube-corner
// constellation with half-side a in AWGN of power n0. Decision regions
// are the coordinate-sign octants, so detection is an independent sign
// decision per axis, each erring with probability Q(a/sigma):
//
//	SER = 1 - (1 - Q(a/sigma))^dim, sigma = sqrt(n0/2)
func TheorySER(a, n0 float64, dim int) float64 {
	if a <= 0 || dim < 1 {
		return math.NaN()
	}
	if n0 <= 0 {
		return 0
	}
	sigma := math.Sqrt(n0 / 2)
	p := Q(a / sigma)
	return 1 - math.Pow(1-p, float64(dim))
}

// DB converts a power ratio to decibels.
func DB(ratio float64) float64 {
	return 10 * math.Log10(ratio)
}

// FromDB converts decibels back to a power ratio.
func FromDB(db float64) float64 {
	return math.Pow(10, db/10)
}

// EsN0DB is the per-symbol energy to noise power ratio in decibels for
// a cube constellation with half-side a (Es = dim*a^2).
func EsN0DB(a, n0 float64, dim int) float64 {
	if n0 == 0 {
		return math.Inf(1)
	}
	return DB(float64(dim) * a * a / n0)
}

// SERConfidence is the half-width of the 95% normal-approximation
// confidence interval around an empirical rate p measured over n
// symbols.
func SERConfidence(p float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	z := distuv.UnitNormal.Quantile(0.975)
	return z * math.Sqrt(p*(1-p)/float64(n))
}
