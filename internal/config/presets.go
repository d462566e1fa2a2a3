package config

import "sort"

var Presets = map[string]map[string]*Config{
	"spm": {
		"1c-discharge": {
			Model: "spm", Solver: "rk4", CRate: 1.0, Dt: 1.0, TEnd: 3600,
		},
		"fast": {
			Model: "spm", Solver: "rk45", Adaptive: true, Tolerance: 1e-6,
			CRate: 2.0, Dt: 0.5, TEnd: 1800,
		},
		"gentle": {
			Model: "spm", Solver: "rk4", CRate: 0.5, Dt: 2.0, TEnd: 7200,
			Options: OptionsConfig{Particle: "uniform"},
		},
	},
	"spme": {
		"1c-discharge": {
			Model: "spme", Solver: "rk4", CRate: 1.0, Dt: 1.0, TEnd: 3600,
		},
		"hot": {
			Model: "spme", Solver: "rk4", CRate: 2.0, Dt: 0.5, TEnd: 1800,
			Options: OptionsConfig{Thermal: "lumped"},
		},
		"integrated": {
			Model: "spme", Solver: "rk4", CRate: 1.0, Dt: 1.0, TEnd: 3600,
			Options: OptionsConfig{Conductivity: "integrated"},
		},
		"aging": {
			Model: "spme", Solver: "rk4", CRate: 1.0, Dt: 1.0, TEnd: 3600,
			Options: OptionsConfig{
				SEI:               "ec-reaction-limited",
				SEIPorosityChange: true,
				Thermal:           "lumped",
			},
		},
		"cracking": {
			Model: "spme", Solver: "rk4", CRate: 2.0, Dt: 1.0, TEnd: 1800,
			Options: OptionsConfig{
				ParticleCracking: "both",
				Thermal:          "lumped",
			},
		},
	},
}

func GetPreset(modelName, preset string) *Config {
	group, ok := Presets[modelName]
	if !ok {
		return nil
	}
	cfg, ok := group[preset]
	if !ok {
		return nil
	}
	c := *cfg
	if c.Chemistry == "" {
		c.Chemistry = DefaultChem
	}
	if c.Tolerance == 0 {
		c.Tolerance = DefaultShellTol
	}
	return &c
}

func ListPresets(modelName string) []string {
	group, ok := Presets[modelName]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(group))
	for name := range group {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
