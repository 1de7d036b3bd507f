package config

import "sort"

// Presets are named operating points for the default constellation.
// Amplitude stays at 0.01; the noise power selects the regime.
var Presets = map[string]*Config{
	"default": {
		Amplitude: 0.01, Symbols: 10000, NoisePower: 2e-4,
	},
	// sigma 0.0032, about 0.2% of symbols in error
	"clean": {
		Amplitude: 0.01, Symbols: 10000, NoisePower: 2e-5,
	},
	// sigma 0.0122, about half the symbols in error
	"crossover": {
		Amplitude: 0.01, Symbols: 10000, NoisePower: 3e-4,
	},
	// sigma 0.0224, about 70% of symbols in error
	"noisy": {
		Amplitude: 0.01, Symbols: 10000, NoisePower: 1e-3,
	},
	// sigma 0.05, detection barely better than guessing
	"deep-noise": {
		Amplitude: 0.01, Symbols: 20000, NoisePower: 5e-3,
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	out := *cfg
	return &out
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
