package submodel

import (
	"github.com/okuno/cellsim/internal/cell"
	"github.com/okuno/cellsim/internal/params"
)

// ConstantPorosity publishes the as-built negative electrode porosity.
type ConstantPorosity struct{}

func NewConstantPorosity() *ConstantPorosity { return &ConstantPorosity{} }

func (c *ConstantPorosity) Name() string { return "constant" }

func (c *ConstantPorosity) Variables(p params.Values) []VariableSpec { return nil }

func (c *ConstantPorosity) Provides() []string { return []string{"eps_n"} }
func (c *ConstantPorosity) Requires() []string { return nil }

func (c *ConstantPorosity) Update(env *cell.Env, p params.Values) {
	env.Set("eps_n", p.Get("porosity_n"))
}

func (c *ConstantPorosity) RHS(env *cell.Env, p params.Values, dxdt cell.State, slot cell.Slot) {
}

// SEIDrivenPorosity lets the growing SEI film close negative electrode
// pores: the pore volume shrinks by the film volume deposited on the
// particle surface area.
type SEIDrivenPorosity struct{}

func NewSEIDrivenPorosity() *SEIDrivenPorosity { return &SEIDrivenPorosity{} }

func (s *SEIDrivenPorosity) Name() string { return "sei-driven" }

func (s *SEIDrivenPorosity) Variables(p params.Values) []VariableSpec {
	return []VariableSpec{{
		Name:    "eps",
		Size:    1,
		Initial: constant(p.Get("porosity_n")),
	}}
}

func (s *SEIDrivenPorosity) Provides() []string { return []string{"eps_n"} }
func (s *SEIDrivenPorosity) Requires() []string { return nil }

func (s *SEIDrivenPorosity) Update(env *cell.Env, p params.Values) {
	eps := env.Scalar("eps")
	if eps < 0 {
		eps = 0
	}
	env.Set("eps_n", eps)
}

func (s *SEIDrivenPorosity) RHS(env *cell.Env, p params.Values, dxdt cell.State, slot cell.Slot) {
	// j_sei < 0, so porosity only decreases.
	dxdt[slot.Offset] = p.Get("a_n") * p.Get("sei_molar_volume") * env.Get("j_sei") / (2 * params.Faraday)
}
