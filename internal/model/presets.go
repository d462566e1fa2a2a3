package model

import (
	"github.com/okuno/cellsim/internal/params"
	"github.com/okuno/cellsim/internal/submodel"
)

// SPM is the single particle model: one representative particle per
// electrode, constant electrolyte concentration, leading-order
// electrolyte resistance.
func SPM(opts Options, p params.Values, build bool) (*Model, error) {
	opts = opts.withDefaults()
	if err := validate("spm", opts); err != nil {
		return nil, err
	}
	m := New("spm", opts, p)
	assemble(m, opts, p)
	m.Submodels[AreaElectrolyte] = submodel.NewConstantElectrolyte()
	if build {
		if err := m.Build(); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// SPMe extends the SPM with region-averaged electrolyte dynamics and a
// choice of electrolyte conductivity closures.
func SPMe(opts Options, p params.Values, build bool) (*Model, error) {
	opts = opts.withDefaults()
	if err := validate("spme", opts); err != nil {
		return nil, err
	}
	m := New("spme", opts, p)
	assemble(m, opts, p)
	m.Submodels[AreaElectrolyte] = submodel.NewLumpedElectrolyte()
	if build {
		if err := m.Build(); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// assemble fills the submodel map shared by the preset families.
// Options are assumed validated.
func assemble(m *Model, opts Options, p params.Values) {
	m.Submodels[AreaExternalCircuit] = submodel.NewConstantCurrent(p.GetOr("c_rate", 1))

	switch opts.CurrentCollector {
	case "potential-pair":
		m.Submodels[AreaCollector] = submodel.NewPotentialPairCollector(opts.Dimensionality)
	default:
		m.Submodels[AreaCollector] = submodel.NewUniformCollector()
	}

	shape := submodel.ParticleShape(opts.ParticleShape)
	m.Submodels[AreaNegParticle] = newParticle(opts.Particle, shape, submodel.Negative)
	m.Submodels[AreaPosParticle] = newParticle(opts.Particle, shape, submodel.Positive)

	if opts.ParticleCracking == "none" {
		m.Submodels[AreaMechanics] = submodel.NewNoMechanics()
	} else {
		m.Submodels[AreaMechanics] = submodel.NewCrackingMechanics(submodel.CrackSide(opts.ParticleCracking))
	}

	negOCP := submodel.OCPFor(opts.Chemistry, submodel.Negative)
	posOCP := submodel.OCPFor(opts.Chemistry, submodel.Positive)
	if opts.Kinetics == "linear" {
		m.Submodels[AreaNegInterface] = submodel.NewLinearKinetics(submodel.Negative, negOCP)
		m.Submodels[AreaPosInterface] = submodel.NewLinearKinetics(submodel.Positive, posOCP)
	} else {
		m.Submodels[AreaNegInterface] = submodel.NewButlerVolmer(submodel.Negative, negOCP)
		m.Submodels[AreaPosInterface] = submodel.NewButlerVolmer(submodel.Positive, posOCP)
	}

	switch opts.ElectrolyteConductivity {
	case "integrated":
		m.Submodels[AreaConductivity] = submodel.NewIntegratedConductivity()
	default:
		m.Submodels[AreaConductivity] = submodel.NewLeadingOrderConductivity()
	}

	switch opts.Thermal {
	case "lumped":
		m.Submodels[AreaThermal] = submodel.NewLumpedThermal()
	case "x-lumped":
		m.Submodels[AreaThermal] = submodel.NewXLumpedThermal()
	case "x-full":
		m.Submodels[AreaThermal] = submodel.NewXFullThermal()
	default:
		m.Submodels[AreaThermal] = submodel.NewIsothermal()
	}

	if opts.SEI == "none" {
		m.Submodels[AreaSEI] = submodel.NewNoSEI()
	} else {
		m.Submodels[AreaSEI] = submodel.NewSEI(submodel.SEILimit(opts.SEI))
	}

	if opts.SEIPorosityChange {
		m.Submodels[AreaPorosity] = submodel.NewSEIDrivenPorosity()
	} else {
		m.Submodels[AreaPorosity] = submodel.NewConstantPorosity()
	}
}

func newParticle(variant string, shape submodel.ParticleShape, e submodel.Electrode) submodel.Submodel {
	switch variant {
	case "uniform":
		sm := submodel.NewUniformParticle(e)
		sm.Shape = shape
		return sm
	case "quadratic":
		sm := submodel.NewQuadraticParticle(e)
		sm.Shape = shape
		return sm
	case "quartic":
		sm := submodel.NewQuarticParticle(e)
		sm.Shape = shape
		return sm
	default:
		sm := submodel.NewFickianParticle(e)
		sm.Shape = shape
		return sm
	}
}
