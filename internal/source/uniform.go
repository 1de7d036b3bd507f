// Package source draws the random transmit symbols for a run.
package source

import (
	"fmt"
	"math/rand/v2"

	"github.com/siglab/linksim/internal/signal"
)

// Uniform draws independent, uniformly distributed symbol indices over
// [0, M). The generator is owned by the caller, so a single
// sequentially-consumed stream can feed every randomized stage of a run
// and a fixed seed reproduces the full draw sequence.
type Uniform struct {
	m   int
	rng *rand.Rand
}

func NewUniform(m int, rng *rand.Rand) (*Uniform, error) {
	if m < 1 {
		return nil, fmt.Errorf("%w: constellation size must be positive, got %d", signal.ErrInvalidParameter, m)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random generator", signal.ErrInvalidParameter)
	}
	return &Uniform{m: m, rng: rng}, nil
}

// Size is the number of symbols M the source draws over.
func (u *Uniform) Size() int {
	return u.m
}

// Draw returns n i.i.d. symbol indices. Each call consumes n draws from
// the shared stream.
func (u *Uniform) Draw(n int) ([]int, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: symbol count must be positive, got %d", signal.ErrInvalidParameter, n)
	}
	seq := make([]int, n)
	for i := range seq {
		seq[i] = u.rng.IntN(u.m)
	}
	return seq, nil
}
