package submodel

import (
	"math"

	"github.com/okuno/cellsim/internal/cell"
	"github.com/okuno/cellsim/internal/params"
)

// SEILimit selects the rate-limiting mechanism of SEI growth.
type SEILimit string

const (
	SEIReactionLimited     SEILimit = "reaction-limited"
	SEISolventDiffusion    SEILimit = "solvent-diffusion-limited"
	SEIElectronMigration   SEILimit = "electron-migration-limited"
	SEIInterstitialLimited SEILimit = "interstitial-diffusion-limited"
	SEIECReactionLimited   SEILimit = "ec-reaction-limited"
)

// seiReactionPotential is the equilibrium potential of the solvent
// reduction reaction vs Li/Li+.
const seiReactionPotential = 0.4

// NoSEI is the film-free limit: zero resistance, zero side current.
type NoSEI struct{}

func NewNoSEI() *NoSEI { return &NoSEI{} }

func (n *NoSEI) Name() string { return "none" }

func (n *NoSEI) Variables(p params.Values) []VariableSpec { return nil }

func (n *NoSEI) Provides() []string { return []string{"r_sei", "j_sei"} }
func (n *NoSEI) Requires() []string { return nil }

func (n *NoSEI) Update(env *cell.Env, p params.Values) {
	env.Set("r_sei", 0)
	env.Set("j_sei", 0)
}

func (n *NoSEI) RHS(env *cell.Env, p params.Values, dxdt cell.State, slot cell.Slot) {
}

// SEI grows a solid-electrolyte-interphase film on the negative
// electrode. The film thickness is a state; the growth current depends
// on the limiting mechanism. It publishes the film's area-specific
// resistance and the (negative) side-reaction current density.
type SEI struct {
	Limit SEILimit
}

func NewSEI(limit SEILimit) *SEI { return &SEI{Limit: limit} }

func (s *SEI) Name() string { return string(s.Limit) }

func (s *SEI) Variables(p params.Values) []VariableSpec {
	return []VariableSpec{{
		Name:    "l_sei",
		Size:    1,
		Initial: constant(p.Get("sei_init")),
	}}
}

func (s *SEI) Provides() []string { return []string{"r_sei", "j_sei"} }

func (s *SEI) Requires() []string {
	return []string{"eta_n", "ocp_n", "temperature"}
}

func (s *SEI) Update(env *cell.Env, p params.Values) {
	l := env.Scalar("l_sei")
	env.Set("r_sei", l*p.Get("sei_resistivity"))
	env.Set("j_sei", s.growthCurrent(env, p, l))
}

func (s *SEI) RHS(env *cell.Env, p params.Values, dxdt cell.State, slot cell.Slot) {
	// Two electrons per solvent molecule.
	dxdt[slot.Offset] = -p.Get("sei_molar_volume") * env.Get("j_sei") / (2 * params.Faraday)
}

func (s *SEI) growthCurrent(env *cell.Env, p params.Values, l float64) float64 {
	if l <= 0 {
		l = p.Get("sei_init")
	}
	switch s.Limit {
	case SEISolventDiffusion:
		return -2 * params.Faraday * p.Get("sei_solvent_diff") * p.Get("sei_solvent_conc") / l
	case SEIElectronMigration:
		return -p.Get("sei_electron_cond") * seiReactionPotential / l
	case SEIInterstitialLimited:
		return -params.Faraday * p.Get("sei_interstitial_diff") * p.Get("sei_interstitial_conc") / l
	case SEIECReactionLimited:
		k := p.Get("sei_ec_rate")
		return -params.Faraday * k * p.Get("sei_ec_conc") /
			(1 + k*l/p.Get("sei_ec_diff"))
	default: // reaction limited
		temp := env.Get("temperature")
		overpotential := env.Get("ocp_n") + env.Get("eta_n") - seiReactionPotential
		return -params.Faraday * p.Get("sei_rate") *
			math.Exp(-params.Faraday*overpotential/(2*params.GasConstant*temp))
	}
}
