// Package channel models the impairment applied between transmitter and
// detector.
package channel

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/siglab/linksim/internal/signal"
)

// AWGN adds zero-mean white Gaussian noise independently to every
// coordinate of every symbol. The per-coordinate standard deviation is
// derived from the noise power as sigma = sqrt(N0/2) (two-sided spectral
// density convention for real-valued noise per dimension). Sigma is
// never set directly: changing N0 means building a new channel, so the
// two can not drift apart.
type AWGN struct {
	n0    float64
	sigma float64
	noise distuv.Normal
}

// NewAWGN builds a channel for noise power n0, drawing from src. The
// source is shared with the symbol source of the run so all randomness
// comes from one sequentially-consumed stream. n0 = 0 is the noiseless
// channel; negative n0 is rejected.
func NewAWGN(n0 float64, src rand.Source) (*AWGN, error) {
	if n0 < 0 {
		return nil, fmt.Errorf("%w: noise power must be non-negative, got %g", signal.ErrInvalidParameter, n0)
	}
	if src == nil {
		return nil, fmt.Errorf("%w: nil random source", signal.ErrInvalidParameter)
	}
	sigma := math.Sqrt(n0 / 2)
	return &AWGN{
		n0:    n0,
		sigma: sigma,
		noise: distuv.Normal{Mu: 0, Sigma: sigma, Src: src},
	}, nil
}

func (c *AWGN) N0() float64 {
	return c.n0
}

// Sigma is the derived per-coordinate noise standard deviation.
func (c *AWGN) Sigma() float64 {
	return c.sigma
}

// Transmit applies the channel to a transmit sequence. It returns the
// received points and the noise realization that produced them, both
// positionally aligned with the input. Every point must share one
// dimensionality; noise samples are drawn coordinate by coordinate in
// transmission order.
func (c *AWGN) Transmit(points []signal.Point) (received, noise []signal.Point, err error) {
	if len(points) == 0 {
		return nil, nil, nil
	}
	dim := points[0].Dim()
	for i, p := range points {
		if p.Dim() != dim {
			return nil, nil, fmt.Errorf("%w: transmit point %d has dim %d, want %d",
				signal.ErrDimensionMismatch, i, p.Dim(), dim)
		}
	}

	received = make([]signal.Point, len(points))
	noise = make([]signal.Point, len(points))
	for i, p := range points {
		w := make(signal.Point, dim)
		for d := range w {
			w[d] = c.noise.Rand()
		}
		noise[i] = w
		received[i] = p.Add(w)
	}
	return received, noise, nil
}
