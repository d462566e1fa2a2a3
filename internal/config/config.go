package config

import (
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/okuno/cellsim/internal/model"
)

const (
	DefaultDt       = 1.0
	DefaultTEnd     = 3600.0
	DefaultCRate    = 1.0
	DefaultSolver   = "rk4"
	DefaultDataDir  = ".cellsim"
	DefaultChem     = "graphite-nmc"
	DefaultModel    = "spme"
	DefaultShellTol = 1e-6
)

type Config struct {
	Model      string        `yaml:"model"`
	Chemistry  string        `yaml:"chemistry"`
	Solver     string        `yaml:"solver"`
	CRate      float64       `yaml:"c_rate"`
	Dt         float64       `yaml:"dt"`
	TEnd       float64       `yaml:"t_end"`
	Adaptive   bool          `yaml:"adaptive"`
	Tolerance  float64       `yaml:"tolerance"`
	ParamsFile string        `yaml:"params_file"`
	Options    OptionsConfig `yaml:"options"`
}

type OptionsConfig struct {
	Particle          string `yaml:"particle"`
	ParticleShape     string `yaml:"particle_shape"`
	ParticleCracking  string `yaml:"particle_cracking"`
	Kinetics          string `yaml:"kinetics"`
	Thermal           string `yaml:"thermal"`
	SEI               string `yaml:"sei"`
	SEIPorosityChange bool   `yaml:"sei_porosity_change"`
	Conductivity      string `yaml:"electrolyte_conductivity"`
	Collector         string `yaml:"current_collector"`
	Dimensionality    int    `yaml:"dimensionality"`
	SurfaceForm       string `yaml:"surface_form"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:     DefaultModel,
		Chemistry: DefaultChem,
		Solver:    DefaultSolver,
		CRate:     DefaultCRate,
		Dt:        DefaultDt,
		TEnd:      DefaultTEnd,
		Tolerance: DefaultShellTol,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
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

// ToOptions translates the yaml option block into model options.
func (c *Config) ToOptions() model.Options {
	return model.Options{
		Chemistry:               c.Chemistry,
		Particle:                c.Options.Particle,
		ParticleShape:           c.Options.ParticleShape,
		ParticleCracking:        c.Options.ParticleCracking,
		Kinetics:                c.Options.Kinetics,
		Thermal:                 c.Options.Thermal,
		SEI:                     c.Options.SEI,
		SEIPorosityChange:       c.Options.SEIPorosityChange,
		ElectrolyteConductivity: c.Options.Conductivity,
		CurrentCollector:        c.Options.Collector,
		Dimensionality:          c.Options.Dimensionality,
		SurfaceForm:             c.Options.SurfaceForm,
	}
}

// Env carries process-environment overrides.
type Env struct {
	DataDir   string `env:"CELLSIM_DATA_DIR" envDefault:".cellsim"`
	Chemistry string `env:"CELLSIM_CHEMISTRY" envDefault:"graphite-nmc"`
}

func FromEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, err
	}
	return e, nil
}
