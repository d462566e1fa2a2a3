package submodel

import (
	"github.com/okuno/cellsim/internal/cell"
	"github.com/okuno/cellsim/internal/params"
)

// ConstantCurrent is the external circuit: it publishes the total cell
// current and the applied current density. Positive current discharges
// the cell.
type ConstantCurrent struct {
	CRate float64
}

func NewConstantCurrent(cRate float64) *ConstantCurrent {
	return &ConstantCurrent{CRate: cRate}
}

func (c *ConstantCurrent) Name() string { return "constant-current" }

func (c *ConstantCurrent) Variables(p params.Values) []VariableSpec { return nil }

func (c *ConstantCurrent) Provides() []string { return []string{"current", "i_app"} }
func (c *ConstantCurrent) Requires() []string { return nil }

func (c *ConstantCurrent) Update(env *cell.Env, p params.Values) {
	current := c.CRate * p.Get("capacity")
	env.Set("current", current)
	env.Set("i_app", current/p.Get("cell_area"))
}

func (c *ConstantCurrent) RHS(env *cell.Env, p params.Values, dxdt cell.State, slot cell.Slot) {
}
