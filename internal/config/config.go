// Package config loads, saves, and validates run configurations.
//
// Files are YAML. [Load] starts from [DefaultConfig] and overlays the
// file on top, so a config file only needs the options it changes.
// Decoding is strict: an option name the struct does not declare is an
// error, not a silent no-op.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/siglab/linksim/internal/link"
)

const (
	DefaultAmplitude  = 0.01
	DefaultSymbols    = 10000
	DefaultNoisePower = 2e-4
)

type Config struct {
	Amplitude  float64 `yaml:"amplitude"`
	Symbols    int     `yaml:"symbols"`
	NoisePower float64 `yaml:"noise_power"`
	// Seed 0 means unpinned: the CLI substitutes a time-based seed.
	Seed uint64 `yaml:"seed"`
}

func DefaultConfig() *Config {
	return &Config{
		Amplitude:  DefaultAmplitude,
		Symbols:    DefaultSymbols,
		NoisePower: DefaultNoisePower,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		// An empty file is a valid config: all defaults.
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Link converts the file-level configuration into the pipeline
// configuration consumed by [link.New].
func (c *Config) Link() link.Config {
	return link.Config{
		Amplitude:  c.Amplitude,
		Symbols:    c.Symbols,
		NoisePower: c.NoisePower,
		Seed:       c.Seed,
	}
}

// Validate applies the pipeline's own parameter rules.
func (c *Config) Validate() error {
	return c.Link().Validate()
}
