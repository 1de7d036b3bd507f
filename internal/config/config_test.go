package config

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siglab/linksim/internal/signal"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	assert.Equal(t, 0.01, cfg.Amplitude)
	assert.Equal(t, 10000, cfg.Symbols)
	assert.Equal(t, 2e-4, cfg.NoisePower)
	assert.Zero(t, cfg.Seed)
	assert.NoError(t, cfg.Validate())
}

func TestSaveLoad_Roundtrip(t *testing.T) {
	t.Parallel()

	cfg := &Config{Amplitude: 0.05, Symbols: 4096, NoisePower: 1e-3, Seed: 99}
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("noise_power: 1.0e-3\n"), 0644))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1e-3, got.NoisePower)
	assert.Equal(t, DefaultAmplitude, got.Amplitude)
	assert.Equal(t, DefaultSymbols, got.Symbols)
}

func TestLoad_EmptyFileIsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), got)
}

func TestLoad_UnknownOptionRejected(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("amplitud: 0.5\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"noiseless", func(c *Config) { c.NoisePower = 0 }, true},
		{"zero amplitude", func(c *Config) { c.Amplitude = 0 }, false},
		{"negative amplitude", func(c *Config) { c.Amplitude = -0.01 }, false},
		{"zero symbols", func(c *Config) { c.Symbols = 0 }, false},
		{"negative noise power", func(c *Config) { c.NoisePower = -1e-4 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, signal.ErrInvalidParameter)
			}
		})
	}
}

func TestLink_CarriesFields(t *testing.T) {
	t.Parallel()

	cfg := &Config{Amplitude: 0.02, Symbols: 500, NoisePower: 4e-4, Seed: 7}
	lc := cfg.Link()
	assert.Equal(t, 0.02, lc.Amplitude)
	assert.Equal(t, 500, lc.Symbols)
	assert.Equal(t, 4e-4, lc.NoisePower)
	assert.Equal(t, uint64(7), lc.Seed)
	assert.Zero(t, lc.Batch)
}

func TestGetPreset(t *testing.T) {
	t.Parallel()

	cfg := GetPreset("clean")
	require.NotNil(t, cfg)
	assert.Equal(t, 2e-5, cfg.NoisePower)
	assert.NoError(t, cfg.Validate())

	assert.Nil(t, GetPreset("nonexistent"))
}

func TestGetPreset_ReturnsCopy(t *testing.T) {
	t.Parallel()

	a := GetPreset("noisy")
	require.NotNil(t, a)
	a.NoisePower = 123

	b := GetPreset("noisy")
	require.NotNil(t, b)
	assert.Equal(t, 1e-3, b.NoisePower)
}

func TestListPresets(t *testing.T) {
	t.Parallel()

	names := ListPresets()
	require.NotEmpty(t, names)
	assert.True(t, sort.StringsAreSorted(names))
	assert.Contains(t, names, "default")
	assert.Contains(t, names, "deep-noise")

	for _, name := range names {
		cfg := GetPreset(name)
		require.NotNil(t, cfg, name)
		assert.NoError(t, cfg.Validate(), name)
	}
}
