// Package link orchestrates the transmission pipeline: constellation
// construction, symbol generation, the AWGN channel, maximum-likelihood
// detection, and error accounting, strictly in that order with no
// feedback.
package link

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/siglab/linksim/internal/analysis"
	"github.com/siglab/linksim/internal/channel"
	"github.com/siglab/linksim/internal/constellation"
	"github.com/siglab/linksim/internal/detect"
	"github.com/siglab/linksim/internal/metrics"
	"github.com/siglab/linksim/internal/signal"
	"github.com/siglab/linksim/internal/source"
)

// Dim is the signal-space dimensionality of a run; the constellation
// size M = 2^Dim is derived from it.
const Dim = 3

type Config struct {
	Amplitude  float64
	Symbols    int
	NoisePower float64
	Seed       uint64
	// Batch bounds how many symbols are detected per context check;
	// 0 detects everything in one pass. Batching never changes results.
	Batch int
}

func DefaultConfig() Config {
	return Config{
		Amplitude:  0.01,
		Symbols:    10000,
		NoisePower: 2e-4,
	}
}

// Result exposes every artifact of a finished run for storage,
// reporting, and the rendering collaborators. All sequences share
// length N and positional correspondence.
type Result struct {
	Constellation []signal.Point
	TxIndices     []int
	TxPoints      []signal.Point
	Noise         []signal.Point
	RxPoints      []signal.Point
	Detected      []int

	ErrorCount int
	ErrorRate  float64
	Confusion  [][]int
	Metrics    map[string]float64

	Seed    uint64
	Sigma   float64
	EsN0DB  float64
	Elapsed time.Duration
}

// Simulator owns one run configuration and the stages built from it.
// One PCG stream seeded from Config.Seed feeds both the symbol source
// and the channel, consumed sequentially, so a fixed seed reproduces
// the entire run.
type Simulator struct {
	cfg   Config
	set   *constellation.Set
	src   *source.Uniform
	chn   *channel.AWGN
	det   *detect.Detector
	extra []signal.Metric
}

// New validates the configuration eagerly and constructs every stage.
func New(cfg Config) (*Simulator, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	set, err := constellation.Cube(cfg.Amplitude, Dim)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
	src, err := source.NewUniform(set.Size(), rng)
	if err != nil {
		return nil, err
	}
	chn, err := channel.NewAWGN(cfg.NoisePower, rng)
	if err != nil {
		return nil, err
	}
	det, err := detect.New(set)
	if err != nil {
		return nil, err
	}

	return &Simulator{cfg: cfg, set: set, src: src, chn: chn, det: det}, nil
}

// AddMetric registers an observer metric fed with every
// (transmitted, detected) pair after detection.
func (s *Simulator) AddMetric(m signal.Metric) {
	s.extra = append(s.extra, m)
}

func (s *Simulator) Config() Config {
	return s.cfg
}

func (s *Simulator) Set() *constellation.Set {
	return s.set
}

func (s *Simulator) Detector() *detect.Detector {
	return s.det
}

// Validate reports whether the configuration can construct a working
// pipeline, wrapping [signal.ErrInvalidParameter] when it cannot.
func (c Config) Validate() error {
	return validateConfig(c)
}

func validateConfig(cfg Config) error {
	if cfg.Amplitude <= 0 {
		return fmt.Errorf("%w: amplitude must be positive, got %g", signal.ErrInvalidParameter, cfg.Amplitude)
	}
	if cfg.Symbols <= 0 {
		return fmt.Errorf("%w: symbol count must be positive, got %d", signal.ErrInvalidParameter, cfg.Symbols)
	}
	if cfg.NoisePower < 0 {
		return fmt.Errorf("%w: noise power must be non-negative, got %g", signal.ErrInvalidParameter, cfg.NoisePower)
	}
	if cfg.Batch < 0 {
		return fmt.Errorf("%w: batch size must be non-negative, got %d", signal.ErrInvalidParameter, cfg.Batch)
	}
	return nil
}

// Run executes the pipeline once: draw all N symbols, resolve them to
// points, pass them through the channel, detect, and account errors.
// The draw order is fixed (all symbols, then all noise) so a seed
// identifies one exact realization. The context is checked between
// detection batches; cancellation aborts the run.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	n := s.cfg.Symbols

	for _, m := range s.extra {
		m.Reset()
	}

	txIdx, err := s.src.Draw(n)
	if err != nil {
		return nil, &signal.PipelineError{Stage: "source", Symbols: n, Wrapped: err}
	}

	txPts := make([]signal.Point, n)
	for i, sym := range txIdx {
		txPts[i] = s.set.Point(sym)
	}

	rx, noise, err := s.chn.Transmit(txPts)
	if err != nil {
		return nil, &signal.PipelineError{Stage: "channel", Symbols: n, Wrapped: err}
	}

	batch := s.cfg.Batch
	if batch <= 0 {
		batch = n
	}
	detected := make([]int, 0, n)
	for lo := 0; lo < n; lo += batch {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", signal.ErrContextCanceled, ctx.Err())
		default:
		}
		hi := min(lo+batch, n)
		part, err := s.det.Detect(rx[lo:hi])
		if err != nil {
			return nil, &signal.PipelineError{Stage: "detector", Symbols: n, Wrapped: err}
		}
		detected = append(detected, part...)
	}

	count, rate, err := metrics.Compare(txIdx, detected)
	if err != nil {
		return nil, &signal.PipelineError{Stage: "accounting", Symbols: n, Wrapped: err}
	}

	confusion := metrics.NewConfusion(s.set.Size())
	for i := range txIdx {
		confusion.Observe(txIdx[i], detected[i])
		for _, m := range s.extra {
			m.Observe(txIdx[i], detected[i])
		}
	}

	result := &Result{
		Constellation: s.set.Points(),
		TxIndices:     txIdx,
		TxPoints:      txPts,
		Noise:         noise,
		RxPoints:      rx,
		Detected:      detected,
		ErrorCount:    count,
		ErrorRate:     rate,
		Confusion:     confusion.Matrix(),
		Seed:          s.cfg.Seed,
		Sigma:         s.chn.Sigma(),
		EsN0DB:        analysis.EsN0DB(s.cfg.Amplitude, s.cfg.NoisePower, Dim),
		Elapsed:       time.Since(start),
	}

	result.Metrics = map[string]float64{
		"symbol_errors":     float64(count),
		"symbol_error_rate": rate,
		"theory_ser":        analysis.TheorySER(s.cfg.Amplitude, s.cfg.NoisePower, Dim),
		"noise_variance":    analysis.NoiseStats(noise).Variance,
	}
	for _, m := range s.extra {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}
