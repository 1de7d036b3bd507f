package store

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siglab/linksim/internal/detect"
	"github.com/siglab/linksim/internal/link"
)

func testRun(t *testing.T, symbols int) (link.Config, *link.Result) {
	t.Helper()
	cfg := link.DefaultConfig()
	cfg.Symbols = symbols
	cfg.Seed = 7
	sim, err := link.New(cfg)
	require.NoError(t, err)
	result, err := sim.Run(context.Background())
	require.NoError(t, err)
	return cfg, result
}

func TestStore_SaveLoad(t *testing.T) {
	t.Parallel()

	st := New(t.TempDir())
	require.NoError(t, st.Init())

	cfg, result := testRun(t, 50)
	runID, err := st.Save(cfg, result)
	require.NoError(t, err)
	require.NotEmpty(t, runID)
	assert.True(t, strings.HasPrefix(runID, "cube8_"))

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, runID, meta.ID)
	assert.Equal(t, "cube8", meta.Constellation)
	assert.Equal(t, uint64(7), meta.Seed)
	assert.Equal(t, cfg.Amplitude, meta.Amplitude)
	assert.Equal(t, 50, meta.Symbols)
	assert.Equal(t, cfg.NoisePower, meta.NoisePower)
	assert.Equal(t, result.Sigma, meta.Sigma)
	assert.Equal(t, result.Metrics["symbol_error_rate"], meta.Metrics["symbol_error_rate"])
}

func TestStore_SamplesRoundtripExact(t *testing.T) {
	t.Parallel()

	st := New(t.TempDir())
	require.NoError(t, st.Init())

	cfg, result := testRun(t, 40)
	runID, err := st.Save(cfg, result)
	require.NoError(t, err)

	samples, err := st.LoadSamples(runID)
	require.NoError(t, err)
	require.Len(t, samples.TxIndices, 40)
	require.Len(t, samples.RxPoints, 40)

	assert.Equal(t, result.TxIndices, samples.TxIndices)
	assert.Equal(t, result.Detected, samples.Detected)
	for i := range samples.RxPoints {
		assert.Equal(t, result.TxPoints[i], samples.TxPoints[i], "tx %d", i)
		assert.Equal(t, result.Noise[i], samples.Noise[i], "noise %d", i)
		assert.Equal(t, result.RxPoints[i], samples.RxPoints[i], "rx %d", i)
	}
}

func TestStore_SaveNoiseless(t *testing.T) {
	t.Parallel()

	st := New(t.TempDir())
	require.NoError(t, st.Init())

	cfg := link.DefaultConfig()
	cfg.Symbols = 10
	cfg.NoisePower = 0
	cfg.Seed = 7
	sim, err := link.New(cfg)
	require.NoError(t, err)
	result, err := sim.Run(context.Background())
	require.NoError(t, err)

	// Es/N0 is infinite at zero noise power; the metadata must still
	// encode as valid JSON.
	runID, err := st.Save(cfg, result)
	require.NoError(t, err)

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.Zero(t, meta.EsN0DB)
	assert.Zero(t, meta.Sigma)
}

func TestStore_List(t *testing.T) {
	t.Parallel()

	st := New(t.TempDir())
	require.NoError(t, st.Init())

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	cfg, result := testRun(t, 20)
	runID, err := st.Save(cfg, result)
	require.NoError(t, err)

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].ID)
}

func TestStore_ListMissingDir(t *testing.T) {
	t.Parallel()

	st := New(filepath.Join(t.TempDir(), "never-created"))
	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStore_FileStructure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	st := New(dir)
	require.NoError(t, st.Init())

	cfg, result := testRun(t, 10)
	runID, err := st.Save(cfg, result)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, runID, "metadata.json"))
	assert.FileExists(t, filepath.Join(dir, runID, "samples.csv"))
}

func TestStore_Delete(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	st := New(dir)
	require.NoError(t, st.Init())

	cfg, result := testRun(t, 10)
	runID, err := st.Save(cfg, result)
	require.NoError(t, err)

	require.NoError(t, st.Delete(runID))
	_, err = os.Stat(filepath.Join(dir, runID))
	assert.True(t, os.IsNotExist(err))

	assert.Error(t, st.Delete(runID))
	assert.Error(t, st.Delete(""))
	assert.Error(t, st.Delete("../escape"))
	assert.Error(t, st.Delete(".."))
}

func TestExportJSON(t *testing.T) {
	t.Parallel()

	cfg, result := testRun(t, 30)

	sim, err := link.New(cfg)
	require.NoError(t, err)
	spec := detect.DefaultRegionSpec(sim.Set())
	spec.Steps = 21
	regions, err := sim.Detector().Regions(spec)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, ExportJSONTo(&buf, cfg, result, regions))

	var data ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
	assert.Len(t, data.Constellation, 8)
	assert.Len(t, data.TxIndices, 30)
	assert.Len(t, data.RxPoints, 30)
	assert.Equal(t, result.ErrorCount, data.ErrorCount)
	assert.Equal(t, result.Seed, data.Seed)
	require.NotNil(t, data.Regions)
	assert.Len(t, data.Regions.Xs, 21)
	assert.Len(t, data.Regions.Index, 21)
}

func TestExportJSON_File(t *testing.T) {
	t.Parallel()

	cfg, result := testRun(t, 10)
	path := filepath.Join(t.TempDir(), "run.json")
	require.NoError(t, ExportJSON(path, cfg, result, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var parsed ExportData
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Nil(t, parsed.Regions)
	assert.Len(t, parsed.Detected, 10)
}
