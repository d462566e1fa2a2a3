package model_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/okuno/cellsim/internal/cell"
	"github.com/okuno/cellsim/internal/model"
	"github.com/okuno/cellsim/internal/params"
	"github.com/okuno/cellsim/internal/submodel"
)

// stubSubmodel lets the build tests wire deliberately broken couplings.
type stubSubmodel struct {
	name     string
	vars     []submodel.VariableSpec
	provides []string
	requires []string
	publish  map[string]float64
}

func (s *stubSubmodel) Name() string { return s.name }

func (s *stubSubmodel) Variables(params.Values) []submodel.VariableSpec { return s.vars }

func (s *stubSubmodel) Provides() []string { return s.provides }

func (s *stubSubmodel) Requires() []string { return s.requires }

func (s *stubSubmodel) Update(env *cell.Env, p params.Values) {
	for k, v := range s.publish {
		env.Set(k, v)
	}
}

func (s *stubSubmodel) RHS(env *cell.Env, p params.Values, dxdt cell.State, slot cell.Slot) {}

var _ = Describe("Preset options", func() {
	var p params.Values

	BeforeEach(func() {
		var err error
		p, err = params.Chemistry("graphite-nmc")
		Expect(err).NotTo(HaveOccurred())
	})

	DescribeTable("SPMe builds well-posed",
		func(opts model.Options) {
			m, err := model.SPMe(opts, p, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(m.CheckWellPosed()).To(Succeed())
		},
		Entry("defaults", model.Options{}),
		Entry("lumped thermal", model.Options{Thermal: "lumped"}),
		Entry("x-lumped thermal", model.Options{Thermal: "x-lumped"}),
		Entry("x-full thermal", model.Options{Thermal: "x-full"}),
		Entry("uniform particle", model.Options{Particle: "uniform"}),
		Entry("quadratic particle", model.Options{Particle: "quadratic"}),
		Entry("quartic particle", model.Options{Particle: "quartic"}),
		Entry("user particle shape", model.Options{ParticleShape: "user"}),
		Entry("no cracking", model.Options{ParticleCracking: "none"}),
		Entry("negative cracking", model.Options{ParticleCracking: "negative"}),
		Entry("positive cracking", model.Options{ParticleCracking: "positive"}),
		Entry("cracking on both electrodes", model.Options{ParticleCracking: "both"}),
		Entry("cracking on a uniform particle", model.Options{
			Particle: "uniform", ParticleCracking: "both",
		}),
		Entry("linear kinetics", model.Options{Kinetics: "linear"}),
		Entry("reaction limited sei", model.Options{SEI: "reaction-limited"}),
		Entry("solvent diffusion sei", model.Options{SEI: "solvent-diffusion-limited"}),
		Entry("electron migration sei", model.Options{SEI: "electron-migration-limited"}),
		Entry("interstitial diffusion sei", model.Options{SEI: "interstitial-diffusion-limited"}),
		Entry("ec reaction sei", model.Options{SEI: "ec-reaction-limited"}),
		Entry("sei with porosity change", model.Options{
			SEI: "ec-reaction-limited", SEIPorosityChange: true,
		}),
		Entry("integrated conductivity", model.Options{ElectrolyteConductivity: "integrated"}),
		Entry("potential pair, 1D", model.Options{CurrentCollector: "potential-pair", Dimensionality: 1}),
		Entry("potential pair, 2D", model.Options{CurrentCollector: "potential-pair", Dimensionality: 2}),
		Entry("potential pair with x-lumped thermal", model.Options{
			CurrentCollector: "potential-pair", Dimensionality: 1, Thermal: "x-lumped",
		}),
	)

	It("builds the lfp chemistry", func() {
		lfp, err := params.Chemistry("lfp")
		Expect(err).NotTo(HaveOccurred())
		m, err := model.SPMe(model.Options{Chemistry: "lfp"}, lfp, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(m.CheckWellPosed()).To(Succeed())
	})

	It("rejects an unknown particle profile", func() {
		_, err := model.SPMe(model.Options{Particle: "cubic"}, p, true)
		Expect(err).To(MatchError(cell.ErrUnknownOption))
	})

	It("rejects an unknown particle shape", func() {
		_, err := model.SPMe(model.Options{ParticleShape: "cuboid"}, p, true)
		Expect(err).To(MatchError(cell.ErrUnknownOption))
	})

	It("rejects an unknown cracking side", func() {
		_, err := model.SPMe(model.Options{ParticleCracking: "separator"}, p, true)
		Expect(err).To(MatchError(cell.ErrUnknownOption))
	})

	It("rejects an unknown sei mechanism", func() {
		_, err := model.SPMe(model.Options{SEI: "magic"}, p, true)
		Expect(err).To(MatchError(cell.ErrUnknownOption))
	})

	It("rejects an out-of-range collector dimensionality", func() {
		_, err := model.SPMe(model.Options{
			CurrentCollector: "potential-pair", Dimensionality: 5,
		}, p, true)
		Expect(err).To(MatchError(cell.ErrUnknownOption))
	})

	It("rejects a dimensionality on the uniform collector", func() {
		_, err := model.SPMe(model.Options{Dimensionality: 1}, p, true)
		Expect(err).To(MatchError(cell.ErrUnknownOption))
	})

	It("rejects surface-form variants", func() {
		for _, form := range []string{"differential", "algebraic"} {
			_, err := model.SPMe(model.Options{SurfaceForm: form}, p, true)
			Expect(err).To(MatchError(cell.ErrIncompatibleOptions))
		}
	})

	It("rejects x-full thermal on a potential-pair collector", func() {
		_, err := model.SPMe(model.Options{
			Thermal:          "x-full",
			CurrentCollector: "potential-pair",
			Dimensionality:   1,
		}, p, true)
		Expect(err).To(MatchError(cell.ErrIncompatibleOptions))
	})

	It("rejects the full conductivity closure", func() {
		_, err := model.SPMe(model.Options{ElectrolyteConductivity: "full"}, p, true)
		Expect(err).To(MatchError(cell.ErrUnknownOption))
		Expect(err).To(MatchError(ContainSubstring("electrolyte conductivity")))
	})

	It("rejects porosity change without an sei submodel", func() {
		_, err := model.SPMe(model.Options{SEIPorosityChange: true}, p, true)
		Expect(err).To(MatchError(cell.ErrIncompatibleOptions))
	})

	It("restricts the SPM to leading-order conductivity", func() {
		_, err := model.SPM(model.Options{ElectrolyteConductivity: "integrated"}, p, true)
		Expect(err).To(MatchError(cell.ErrUnknownOption))

		m, err := model.SPM(model.Options{}, p, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(m.CheckWellPosed()).To(Succeed())
	})
})

var _ = Describe("Model build", func() {
	var p params.Values

	BeforeEach(func() {
		var err error
		p, err = params.Chemistry("graphite-nmc")
		Expect(err).NotTo(HaveOccurred())
	})

	It("keeps the rhs map empty until built", func() {
		m, err := model.SPMe(model.Options{}, p, false)
		Expect(err).NotTo(HaveOccurred())

		Expect(m.Built()).To(BeFalse())
		Expect(m.RHS).To(BeEmpty())
		Expect(m.InitialState).To(BeEmpty())

		Expect(m.Build()).To(Succeed())

		Expect(m.Built()).To(BeTrue())
		Expect(m.RHS).To(HaveKey("c_n"))
		Expect(m.RHS).To(HaveKey("c_p"))
		Expect(m.RHS).To(HaveKey("ce"))
		Expect(m.InitialState).To(HaveLen(m.StateDim()))
	})

	It("records which submodel governs each variable", func() {
		m, err := model.SPMe(model.Options{}, p, true)
		Expect(err).NotTo(HaveOccurred())

		eq := m.RHS["c_n"]
		Expect(eq.Submodel).To(Equal(model.AreaNegParticle))
		Expect(eq.Variant).To(Equal("fickian"))
		Expect(eq.Size).To(Equal(submodel.DefaultShells))

		Expect(m.RHS["ce"].Variant).To(Equal("lumped"))
		Expect(m.RHS["ce"].Size).To(Equal(3))
	})

	It("refuses to hand out a system before build", func() {
		m, err := model.SPMe(model.Options{}, p, false)
		Expect(err).NotTo(HaveOccurred())

		_, err = m.System()
		Expect(err).To(MatchError(cell.ErrNotBuilt))
		_, err = m.Evaluate(nil, 0)
		Expect(err).To(MatchError(cell.ErrNotBuilt))
		Expect(m.CheckWellPosed()).To(MatchError(cell.ErrNotBuilt))
	})

	It("fails loudly when a physics area is missing", func() {
		m, err := model.SPMe(model.Options{}, p, false)
		Expect(err).NotTo(HaveOccurred())

		delete(m.Submodels, model.AreaThermal)
		err = m.Build()
		Expect(err).To(MatchError(cell.ErrMissingSubmodel))
		Expect(err).To(MatchError(ContainSubstring("thermal")))
	})

	It("rejects mutation and rebuilds after building", func() {
		m, err := model.SPMe(model.Options{}, p, true)
		Expect(err).NotTo(HaveOccurred())

		err = m.SetSubmodel(model.AreaThermal, submodel.NewLumpedThermal())
		Expect(err).To(MatchError(cell.ErrAlreadyBuilt))
		Expect(m.Build()).To(MatchError(cell.ErrAlreadyBuilt))
	})

	It("lets a swapped submodel take over an area before build", func() {
		m, err := model.SPMe(model.Options{}, p, false)
		Expect(err).NotTo(HaveOccurred())

		Expect(m.SetSubmodel(model.AreaNegParticle, submodel.NewUniformParticle(submodel.Negative))).To(Succeed())
		Expect(m.SetSubmodel(model.AreaPosParticle, submodel.NewUniformParticle(submodel.Positive))).To(Succeed())
		Expect(m.Build()).To(Succeed())

		Expect(m.RHS["c_n"].Variant).To(Equal("uniform"))
		Expect(m.RHS["c_n"].Size).To(Equal(1))
		Expect(m.CheckWellPosed()).To(Succeed())
	})

	It("detects duplicate coupling providers", func() {
		m, err := model.SPMe(model.Options{}, p, false)
		Expect(err).NotTo(HaveOccurred())

		// A second temperature source collides with the thermal area.
		m.Submodels[model.AreaPorosity] = &stubSubmodel{
			name:     "rogue",
			provides: []string{"eps_n", "temperature"},
		}
		Expect(m.Build()).To(MatchError(cell.ErrDuplicateProvider))
	})

	It("detects unresolved couplings at build time", func() {
		m, err := model.SPMe(model.Options{}, p, false)
		Expect(err).NotTo(HaveOccurred())

		// Nothing provides eps_n anymore.
		m.Submodels[model.AreaPorosity] = &stubSubmodel{name: "empty"}
		err = m.Build()
		Expect(err).To(MatchError(cell.ErrCouplingUnresolved))
		Expect(err).To(MatchError(ContainSubstring("eps_n")))
	})

	It("detects coupling cycles between submodels", func() {
		m, err := model.SPMe(model.Options{}, p, false)
		Expect(err).NotTo(HaveOccurred())

		m.Submodels[model.AreaSEI] = &stubSubmodel{
			name:     "a",
			provides: []string{"r_sei", "j_sei", "alpha"},
			requires: []string{"beta"},
		}
		m.Submodels[model.AreaPorosity] = &stubSubmodel{
			name:     "b",
			provides: []string{"eps_n", "beta"},
			requires: []string{"alpha"},
		}
		Expect(m.Build()).To(MatchError(cell.ErrCouplingCycle))
	})

	It("detects duplicate state variables", func() {
		m, err := model.SPMe(model.Options{}, p, false)
		Expect(err).NotTo(HaveOccurred())

		m.Submodels[model.AreaPorosity] = &stubSubmodel{
			name: "shadow",
			vars: []submodel.VariableSpec{{
				Name:    "ce",
				Size:    1,
				Initial: func(params.Values) []float64 { return []float64{0} },
			}},
			provides: []string{"eps_n"},
		}
		Expect(m.Build()).To(MatchError(cell.ErrDuplicateVariable))
	})

	It("leaves the shell unbuilt when the coupling pass fails", func() {
		m, err := model.SPMe(model.Options{}, p, false)
		Expect(err).NotTo(HaveOccurred())

		m.Submodels[model.AreaPorosity] = &stubSubmodel{name: "empty"}
		Expect(m.Build()).To(MatchError(cell.ErrCouplingUnresolved))

		Expect(m.Built()).To(BeFalse())
		Expect(m.RHS).To(BeEmpty())
		Expect(m.InitialState).To(BeEmpty())
		Expect(m.Outputs).To(BeEmpty())
		Expect(m.Events).To(BeEmpty())

		m.Submodels[model.AreaPorosity] = submodel.NewConstantPorosity()
		Expect(m.Build()).To(Succeed())
		Expect(m.CheckWellPosed()).To(Succeed())
	})

	It("reports a missing build parameter instead of panicking", func() {
		incomplete := p.Clone()
		delete(incomplete, "c_init_n")

		m, err := model.SPMe(model.Options{}, incomplete, false)
		Expect(err).NotTo(HaveOccurred())

		err = m.Build()
		Expect(err).To(MatchError(cell.ErrMissingParameter))
		Expect(err).To(MatchError(ContainSubstring("c_init_n")))
		Expect(m.Built()).To(BeFalse())
		Expect(m.RHS).To(BeEmpty())
	})

	It("reports a missing runtime parameter from the well-posedness check", func() {
		incomplete := p.Clone()
		delete(incomplete, "sei_resistivity")

		m, err := model.SPMe(model.Options{SEI: "reaction-limited"}, incomplete, true)
		Expect(err).NotTo(HaveOccurred())

		err = m.CheckWellPosed()
		Expect(err).To(MatchError(cell.ErrMissingParameter))
		Expect(err).To(MatchError(ContainSubstring("sei_resistivity")))
	})

	It("starts inside the voltage window", func() {
		m, err := model.SPMe(model.Options{}, p, true)
		Expect(err).NotTo(HaveOccurred())

		env, err := m.Evaluate(m.InitialState, 0)
		Expect(err).NotTo(HaveOccurred())

		v := model.Voltage(env)
		Expect(v).To(BeNumerically(">", p.Get("v_min")))
		Expect(v).To(BeNumerically("<", p.Get("v_max")))
	})

	It("registers film outputs only with an sei submodel", func() {
		plain, err := model.SPMe(model.Options{}, p, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(plain.Outputs).NotTo(HaveKey("l_sei"))

		aging, err := model.SPMe(model.Options{SEI: "reaction-limited"}, p, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(aging.Outputs).To(HaveKey("l_sei"))
		Expect(aging.Outputs).To(HaveKey("r_sei"))
	})

	It("registers crack outputs only for cracked electrodes", func() {
		plain, err := model.SPMe(model.Options{}, p, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(plain.Outputs).NotTo(HaveKey("l_cr_n"))

		cracked, err := model.SPMe(model.Options{ParticleCracking: "negative"}, p, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(cracked.Outputs).To(HaveKey("l_cr_n"))
		Expect(cracked.Outputs).To(HaveKey("sigma_cr_n"))
		Expect(cracked.Outputs).NotTo(HaveKey("l_cr_p"))
		Expect(cracked.RHS["l_cr_n"].Submodel).To(Equal(model.AreaMechanics))

		l, err := cracked.Output("l_cr_n", cracked.InitialState, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(l).To(Equal(p.Get("crack_init")))
	})

	It("evaluates named outputs", func() {
		m, err := model.SPMe(model.Options{}, p, true)
		Expect(err).NotTo(HaveOccurred())

		v, err := m.Output("voltage", m.InitialState, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(BeNumerically(">", 0))

		_, err = m.Output("flux capacitance", m.InitialState, 0)
		Expect(err).To(MatchError(cell.ErrUnknownVariable))
	})
})
