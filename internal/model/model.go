package model

import (
	"fmt"

	"github.com/okuno/cellsim/internal/cell"
	"github.com/okuno/cellsim/internal/params"
	"github.com/okuno/cellsim/internal/submodel"
)

// Equation records which submodel governs a state variable. The rhs map
// is empty until Build runs the coupling pass.
type Equation struct {
	Submodel string
	Variant  string
	Variable string
	Size     int
}

// Event is a termination condition: the solve stops when F crosses zero
// from above.
type Event struct {
	Name string
	F    func(*cell.Env) float64
}

// OutputFunc evaluates a derived quantity from the coupling environment.
type OutputFunc func(*cell.Env) float64

// Model is a cell model assembled from interchangeable physics
// submodels. Submodels is keyed by physics area and freely mutable
// before Build; Build snapshots the set, resolves couplings, and
// populates RHS, InitialState, Outputs, and Events.
type Model struct {
	Name    string
	Options Options
	Params  params.Values

	Submodels map[string]submodel.Submodel

	RHS          map[string]Equation
	InitialState cell.State
	Outputs      map[string]OutputFunc
	Events       []Event

	built    bool
	layout   map[string]cell.Slot
	stateDim int
	updates  []submodel.Submodel
	eqs      []boundEquation
}

type boundEquation struct {
	sm   submodel.Submodel
	slot cell.Slot
}

// New returns an empty, unbuilt model shell. Callers normally want the
// SPM/SPMe presets instead and only reach for New when composing a
// submodel set from scratch.
func New(name string, opts Options, p params.Values) *Model {
	return &Model{
		Name:      name,
		Options:   opts.withDefaults(),
		Params:    p,
		Submodels: make(map[string]submodel.Submodel),
		RHS:       make(map[string]Equation),
		Outputs:   make(map[string]OutputFunc),
	}
}

// SetSubmodel swaps the submodel for a physics area. Rejected once the
// model is built.
func (m *Model) SetSubmodel(area string, sm submodel.Submodel) error {
	if m.built {
		return cell.ErrAlreadyBuilt
	}
	m.Submodels[area] = sm
	return nil
}

func (m *Model) Built() bool { return m.built }

func (m *Model) StateDim() int { return m.stateDim }

// System returns the assembled ODE system.
func (m *Model) System() (cell.System, error) {
	if !m.built {
		return nil, fmt.Errorf("%w: call Build before solving", cell.ErrNotBuilt)
	}
	return (*builtSystem)(m), nil
}

// Evaluate runs the update passes at a state and time, returning the
// populated coupling environment.
func (m *Model) Evaluate(x cell.State, t float64) (*cell.Env, error) {
	if !m.built {
		return nil, cell.ErrNotBuilt
	}
	env := cell.NewEnv(m.layout, x, t)
	for _, sm := range m.updates {
		sm.Update(env, m.Params)
	}
	return env, nil
}

// Output evaluates a named output variable at a state and time.
func (m *Model) Output(name string, x cell.State, t float64) (float64, error) {
	fn, ok := m.Outputs[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", cell.ErrUnknownVariable, name)
	}
	env, err := m.Evaluate(x, t)
	if err != nil {
		return 0, err
	}
	return fn(env), nil
}

// OutputNames lists the output variables registered by Build.
func (m *Model) OutputNames() []string {
	names := make([]string, 0, len(m.Outputs))
	for name := range m.Outputs {
		names = append(names, name)
	}
	return names
}

// builtSystem adapts a built model to cell.System. One derivative
// evaluation runs every update pass in dependency order, then every
// submodel's rhs contribution.
type builtSystem Model

func (b *builtSystem) StateDim() int { return b.stateDim }

func (b *builtSystem) Derive(x cell.State, t float64) cell.State {
	env := cell.NewEnv(b.layout, x, t)
	for _, sm := range b.updates {
		sm.Update(env, b.Params)
	}
	dxdt := make(cell.State, b.stateDim)
	for _, eq := range b.eqs {
		eq.sm.RHS(env, b.Params, dxdt, eq.slot)
	}
	return dxdt
}
