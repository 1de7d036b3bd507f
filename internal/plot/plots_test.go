package plot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siglab/linksim/internal/detect"
	"github.com/siglab/linksim/internal/link"
	"github.com/siglab/linksim/internal/signal"
)

func testRun(t *testing.T, symbols int) (*link.Simulator, *link.Result) {
	t.Helper()
	cfg := link.DefaultConfig()
	cfg.Symbols = symbols
	cfg.Seed = 3
	sim, err := link.New(cfg)
	require.NoError(t, err)
	result, err := sim.Run(context.Background())
	require.NoError(t, err)
	return sim, result
}

func requirePNG(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data[:4])
}

func TestNoiseHistogram(t *testing.T) {
	t.Parallel()

	_, result := testRun(t, 300)
	path := filepath.Join(t.TempDir(), "noise.png")
	require.NoError(t, NoiseHistogram(path, result.Noise, result.Sigma))
	requirePNG(t, path)
}

func TestNoiseHistogram_Empty(t *testing.T) {
	t.Parallel()

	err := NoiseHistogram(filepath.Join(t.TempDir(), "noise.png"), nil, 0.01)
	assert.ErrorIs(t, err, signal.ErrInvalidParameter)
}

func TestRxScatter(t *testing.T) {
	t.Parallel()

	_, result := testRun(t, 300)
	path := filepath.Join(t.TempDir(), "rx.png")
	require.NoError(t, RxScatter(path, result))
	requirePNG(t, path)
}

func TestRxScatter_Empty(t *testing.T) {
	t.Parallel()

	err := RxScatter(filepath.Join(t.TempDir(), "rx.png"), nil)
	assert.ErrorIs(t, err, signal.ErrInvalidParameter)
}

func TestRegionHeatMap(t *testing.T) {
	t.Parallel()

	sim, _ := testRun(t, 10)
	spec := detect.DefaultRegionSpec(sim.Set())
	spec.Steps = 21
	regions, err := sim.Detector().Regions(spec)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "regions.png")
	require.NoError(t, RegionHeatMap(path, regions, sim.Set()))
	requirePNG(t, path)
}

func TestRegionHeatMap_Empty(t *testing.T) {
	t.Parallel()

	sim, _ := testRun(t, 10)
	err := RegionHeatMap(filepath.Join(t.TempDir(), "regions.png"), nil, sim.Set())
	assert.ErrorIs(t, err, signal.ErrInvalidParameter)
}

func TestSweepCurve(t *testing.T) {
	t.Parallel()

	points := []link.SweepPoint{
		{NoisePower: 1e-5, EsN0DB: 14.8, SER: 0, TheorySER: 1e-5},
		{NoisePower: 1e-4, EsN0DB: 4.8, SER: 0.12, TheorySER: 0.15},
		{NoisePower: 2e-4, EsN0DB: 1.8, SER: 0.41, TheorySER: 0.40},
		{NoisePower: 1e-3, EsN0DB: -5.2, SER: 0.71, TheorySER: 0.70},
	}
	path := filepath.Join(t.TempDir(), "sweep.png")
	require.NoError(t, SweepCurve(path, points))
	requirePNG(t, path)
}

func TestSweepCurve_NoPositiveRates(t *testing.T) {
	t.Parallel()

	err := SweepCurve(filepath.Join(t.TempDir(), "sweep.png"), []link.SweepPoint{
		{EsN0DB: 10, SER: 0, TheorySER: 0},
	})
	assert.ErrorIs(t, err, signal.ErrInvalidParameter)

	err = SweepCurve(filepath.Join(t.TempDir(), "sweep.png"), nil)
	assert.ErrorIs(t, err, signal.ErrInvalidParameter)
}

func TestSymbolColors(t *testing.T) {
	t.Parallel()

	eight := symbolColors(8)
	require.Len(t, eight, 8)

	many := symbolColors(20)
	require.Len(t, many, 20)
	distinct := map[[4]uint32]bool{}
	for _, c := range many {
		r, g, b, a := c.RGBA()
		distinct[[4]uint32{r, g, b, a}] = true
	}
	assert.Len(t, distinct, 20)
}
