package link

import (
	"context"
	"fmt"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/siglab/linksim/internal/analysis"
	"github.com/siglab/linksim/internal/signal"
)

// Ensemble runs independent trials of one configuration. Trial t uses
// seed Config.Seed + t on a private stream, so every trial stays
// individually reproducible and no stream is shared across goroutines.
type Ensemble struct {
	cfg    Config
	trials int
}

func NewEnsemble(cfg Config, trials int) *Ensemble {
	return &Ensemble{cfg: cfg, trials: trials}
}

func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	if e.trials < 1 {
		return nil, fmt.Errorf("%w: trials must be positive, got %d", signal.ErrInvalidParameter, e.trials)
	}

	results := make([]*Result, e.trials)
	errs := make([]error, e.trials)

	var wg sync.WaitGroup
	for i := 0; i < e.trials; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfg := e.cfg
			cfg.Seed = e.cfg.Seed + uint64(idx)

			sim, err := New(cfg)
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = sim.Run(ctx)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// SweepPoint aggregates the ensemble at one noise power.
type SweepPoint struct {
	NoisePower float64
	EsN0DB     float64
	SER        float64
	TheorySER  float64
	Errors     int
	Symbols    int
}

// Sweep measures the empirical symbol error rate across noise powers at
// fixed amplitude. Each point runs an independent ensemble; point p
// starts its seeds at base.Seed + p*trials so no two trials anywhere in
// the sweep share a stream.
func Sweep(ctx context.Context, base Config, noisePowers []float64, trials int) ([]SweepPoint, error) {
	if len(noisePowers) == 0 {
		return nil, fmt.Errorf("%w: sweep needs at least one noise power", signal.ErrInvalidParameter)
	}
	if trials < 1 {
		return nil, fmt.Errorf("%w: trials must be positive, got %d", signal.ErrInvalidParameter, trials)
	}

	points := make([]SweepPoint, 0, len(noisePowers))
	for pi, n0 := range noisePowers {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", signal.ErrContextCanceled, ctx.Err())
		default:
		}

		cfg := base
		cfg.NoisePower = n0
		cfg.Seed = base.Seed + uint64(pi*trials)

		results, err := NewEnsemble(cfg, trials).Run(ctx)
		if err != nil {
			return nil, err
		}

		errCount, symbols := 0, 0
		for _, r := range results {
			errCount += r.ErrorCount
			symbols += len(r.TxIndices)
		}

		points = append(points, SweepPoint{
			NoisePower: n0,
			EsN0DB:     analysis.EsN0DB(base.Amplitude, n0, Dim),
			SER:        float64(errCount) / float64(symbols),
			TheorySER:  analysis.TheorySER(base.Amplitude, n0, Dim),
			Errors:     errCount,
			Symbols:    symbols,
		})
	}
	return points, nil
}

// LogSpace returns count noise powers logarithmically spaced from lo to
// hi inclusive.
func LogSpace(lo, hi float64, count int) ([]float64, error) {
	if lo <= 0 || hi <= lo {
		return nil, fmt.Errorf("%w: log range needs 0 < lo < hi, got [%g, %g]", signal.ErrInvalidParameter, lo, hi)
	}
	if count < 2 {
		return nil, fmt.Errorf("%w: log range needs at least 2 points, got %d", signal.ErrInvalidParameter, count)
	}
	return floats.LogSpan(make([]float64, count), lo, hi), nil
}
