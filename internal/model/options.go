package model

import (
	"fmt"

	"github.com/okuno/cellsim/internal/cell"
)

// Physics area keys of the submodel map.
const (
	AreaExternalCircuit = "external circuit"
	AreaCollector       = "current collector"
	AreaNegParticle     = "negative particle"
	AreaPosParticle     = "positive particle"
	AreaMechanics       = "particle mechanics"
	AreaNegInterface    = "negative interface"
	AreaPosInterface    = "positive interface"
	AreaElectrolyte     = "electrolyte diffusion"
	AreaConductivity    = "electrolyte conductivity"
	AreaThermal         = "thermal"
	AreaSEI             = "sei"
	AreaPorosity        = "porosity"
)

// RequiredAreas lists every physics area a cell model must carry before
// it can be built.
var RequiredAreas = []string{
	AreaExternalCircuit,
	AreaCollector,
	AreaNegParticle,
	AreaPosParticle,
	AreaMechanics,
	AreaNegInterface,
	AreaPosInterface,
	AreaElectrolyte,
	AreaConductivity,
	AreaThermal,
	AreaSEI,
	AreaPorosity,
}

// Options selects submodel variants for the preset models. Zero values
// mean the model's default.
type Options struct {
	Chemistry               string
	Particle                string
	ParticleShape           string
	ParticleCracking        string
	Kinetics                string
	Thermal                 string
	SEI                     string
	SEIPorosityChange       bool
	ElectrolyteConductivity string
	CurrentCollector        string
	Dimensionality          int
	SurfaceForm             string
}

var (
	knownParticle = []string{"fickian", "uniform", "quadratic", "quartic"}
	knownShape    = []string{"spherical", "user"}
	knownCracking = []string{"none", "negative", "positive", "both"}
	knownKinetics = []string{"butler-volmer", "linear"}
	knownThermal  = []string{"isothermal", "lumped", "x-lumped", "x-full"}
	knownSEI      = []string{
		"none",
		"reaction-limited",
		"solvent-diffusion-limited",
		"electron-migration-limited",
		"interstitial-diffusion-limited",
		"ec-reaction-limited",
	}
	knownConductivity = []string{"leading-order", "integrated", "full"}
	knownCollector    = []string{"uniform", "potential-pair"}
	knownSurfaceForm  = []string{"", "differential", "algebraic"}
)

func (o Options) withDefaults() Options {
	if o.Chemistry == "" {
		o.Chemistry = "graphite-nmc"
	}
	if o.Particle == "" {
		o.Particle = "fickian"
	}
	if o.ParticleShape == "" {
		o.ParticleShape = "spherical"
	}
	if o.ParticleCracking == "" {
		o.ParticleCracking = "none"
	}
	if o.Kinetics == "" {
		o.Kinetics = "butler-volmer"
	}
	if o.Thermal == "" {
		o.Thermal = "isothermal"
	}
	if o.SEI == "" {
		o.SEI = "none"
	}
	if o.ElectrolyteConductivity == "" {
		o.ElectrolyteConductivity = "leading-order"
	}
	if o.CurrentCollector == "" {
		o.CurrentCollector = "uniform"
	}
	return o
}

// validate applies the option matrix for a model family. Unknown values
// and known-but-unbuildable combinations are reported separately.
func validate(family string, o Options) error {
	if err := known("particle", o.Particle, knownParticle); err != nil {
		return err
	}
	if err := known("particle shape", o.ParticleShape, knownShape); err != nil {
		return err
	}
	if err := known("particle cracking", o.ParticleCracking, knownCracking); err != nil {
		return err
	}
	if err := known("kinetics", o.Kinetics, knownKinetics); err != nil {
		return err
	}
	if err := known("thermal", o.Thermal, knownThermal); err != nil {
		return err
	}
	if err := known("sei", o.SEI, knownSEI); err != nil {
		return err
	}
	if err := known("electrolyte conductivity", o.ElectrolyteConductivity, knownConductivity); err != nil {
		return err
	}
	if err := known("current collector", o.CurrentCollector, knownCollector); err != nil {
		return err
	}
	if err := known("surface form", o.SurfaceForm, knownSurfaceForm); err != nil {
		return err
	}

	switch o.CurrentCollector {
	case "uniform":
		if o.Dimensionality != 0 {
			return fmt.Errorf("%w: dimensionality %d with a uniform collector (must be 0)",
				cell.ErrUnknownOption, o.Dimensionality)
		}
	case "potential-pair":
		if o.Dimensionality != 1 && o.Dimensionality != 2 {
			return fmt.Errorf("%w: dimensionality %d (potential-pair needs 1 or 2)",
				cell.ErrUnknownOption, o.Dimensionality)
		}
	}

	if o.SurfaceForm != "" {
		return fmt.Errorf("%w: surface form %q is not available for %s",
			cell.ErrIncompatibleOptions, o.SurfaceForm, family)
	}
	if o.Thermal == "x-full" && o.CurrentCollector == "potential-pair" {
		return fmt.Errorf("%w: x-full thermal with a potential-pair collector",
			cell.ErrIncompatibleOptions)
	}
	if o.SEIPorosityChange && o.SEI == "none" {
		return fmt.Errorf("%w: sei porosity change without an sei submodel",
			cell.ErrIncompatibleOptions)
	}

	switch family {
	case "spm":
		if o.ElectrolyteConductivity != "leading-order" {
			return fmt.Errorf("%w: electrolyte conductivity %q is not available for spm",
				cell.ErrUnknownOption, o.ElectrolyteConductivity)
		}
	case "spme":
		if o.ElectrolyteConductivity == "full" {
			return fmt.Errorf("%w: electrolyte conductivity %q is not available for spme",
				cell.ErrUnknownOption, o.ElectrolyteConductivity)
		}
	}

	return nil
}

func known(name, value string, values []string) error {
	for _, v := range values {
		if v == value {
			return nil
		}
	}
	return fmt.Errorf("%w: %s %q (known: %v)", cell.ErrUnknownOption, name, value, values)
}
