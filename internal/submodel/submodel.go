package submodel

import (
	"github.com/okuno/cellsim/internal/cell"
	"github.com/okuno/cellsim/internal/params"
)

// VariableSpec declares a state variable owned by a submodel. Initial
// produces the starting values from the parameter set; its length must
// equal Size.
type VariableSpec struct {
	Name    string
	Size    int
	Initial func(p params.Values) []float64
}

// Submodel is one pluggable physics area of a cell model.
//
// Build-time, a submodel declares the state variables it owns and the
// coupling variables it publishes (Provides) and reads during its update
// pass (Requires). Run-time, Update publishes couplings into the
// environment and RHS fills the time derivatives of the owned variables.
// The model builder orders update passes so every Requires is published
// before it is read.
type Submodel interface {
	Name() string
	Variables(p params.Values) []VariableSpec
	Provides() []string
	Requires() []string
	Update(env *cell.Env, p params.Values)
	RHS(env *cell.Env, p params.Values, dxdt cell.State, slot cell.Slot)
}

// Electrode selects which side of the cell an electrode submodel serves.
type Electrode int

const (
	Negative Electrode = iota
	Positive
)

func (e Electrode) String() string {
	if e == Positive {
		return "positive"
	}
	return "negative"
}

// suffix keys parameter and variable names per electrode.
func (e Electrode) suffix() string {
	if e == Positive {
		return "_p"
	}
	return "_n"
}

func constant(vals ...float64) func(params.Values) []float64 {
	return func(params.Values) []float64 { return vals }
}
