package submodel

import (
	"math"

	"github.com/okuno/cellsim/internal/cell"
	"github.com/okuno/cellsim/internal/params"
)

// ConstantElectrolyte pins the electrolyte concentration at its initial
// value everywhere (the SPM limit).
type ConstantElectrolyte struct{}

func NewConstantElectrolyte() *ConstantElectrolyte { return &ConstantElectrolyte{} }

func (c *ConstantElectrolyte) Name() string { return "none" }

func (c *ConstantElectrolyte) Variables(p params.Values) []VariableSpec { return nil }

func (c *ConstantElectrolyte) Provides() []string {
	return []string{"ce_n", "ce_s", "ce_p"}
}

func (c *ConstantElectrolyte) Requires() []string { return nil }

func (c *ConstantElectrolyte) Update(env *cell.Env, p params.Values) {
	ce := p.Get("ce_init")
	env.Set("ce_n", ce)
	env.Set("ce_s", ce)
	env.Set("ce_p", ce)
}

func (c *ConstantElectrolyte) RHS(env *cell.Env, p params.Values, dxdt cell.State, slot cell.Slot) {
}

// LumpedElectrolyte tracks region-averaged electrolyte concentrations in
// the negative electrode, separator, and positive electrode (the SPMe
// picture): interfacial reactions source lithium into the end regions
// and diffusion relaxes the gradient across the separator.
type LumpedElectrolyte struct{}

func NewLumpedElectrolyte() *LumpedElectrolyte { return &LumpedElectrolyte{} }

func (l *LumpedElectrolyte) Name() string { return "lumped" }

func (l *LumpedElectrolyte) Variables(p params.Values) []VariableSpec {
	ce := p.Get("ce_init")
	return []VariableSpec{{
		Name:    "ce",
		Size:    3,
		Initial: constant(ce, ce, ce),
	}}
}

func (l *LumpedElectrolyte) Provides() []string {
	return []string{"ce_n", "ce_s", "ce_p"}
}

func (l *LumpedElectrolyte) Requires() []string { return nil }

func (l *LumpedElectrolyte) Update(env *cell.Env, p params.Values) {
	ce := env.Var("ce")
	env.Set("ce_n", ce[0])
	env.Set("ce_s", ce[1])
	env.Set("ce_p", ce[2])
}

func (l *LumpedElectrolyte) RHS(env *cell.Env, p params.Values, dxdt cell.State, slot cell.Slot) {
	ce := env.Var("ce")
	de := p.Get("de")
	tplus := p.Get("tplus")

	ln := p.Get("thick_n")
	ls := p.Get("thick_s")
	lp := p.Get("thick_p")
	epsN := env.Get("eps_n")
	epsS := p.Get("porosity_s")
	epsP := p.Get("porosity_p")

	// Diffusive exchange across region interfaces; Bruggeman-corrected
	// diffusivity with the mean porosity at each interface.
	deNS := de * math.Pow((epsN+epsS)/2, 1.5)
	deSP := de * math.Pow((epsS+epsP)/2, 1.5)
	fluxNS := deNS * (ce[1] - ce[0]) / ((ln + ls) / 2)
	fluxSP := deSP * (ce[2] - ce[1]) / ((ls + lp) / 2)

	srcN := (1 - tplus) * p.Get("a_n") * env.Get("j_n") / (params.Faraday * epsN)
	srcP := (1 - tplus) * p.Get("a_p") * env.Get("j_p") / (params.Faraday * epsP)

	dxdt[slot.Offset] = fluxNS/(epsN*ln) + srcN
	dxdt[slot.Offset+1] = (fluxSP - fluxNS) / (epsS * ls)
	dxdt[slot.Offset+2] = -fluxSP/(epsP*lp) + srcP
}
