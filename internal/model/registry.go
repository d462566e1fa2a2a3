package model

import (
	"fmt"
	"sort"

	"github.com/okuno/cellsim/internal/cell"
	"github.com/okuno/cellsim/internal/params"
	"github.com/okuno/cellsim/internal/solvers"
)

// Registry maps model and solver names to constructors.
type Registry struct {
	models  map[string]func(Options, params.Values, bool) (*Model, error)
	solvers map[string]func() cell.Stepper
}

func NewRegistry() *Registry {
	r := &Registry{
		models:  make(map[string]func(Options, params.Values, bool) (*Model, error)),
		solvers: make(map[string]func() cell.Stepper),
	}

	r.models["spm"] = SPM
	r.models["spme"] = SPMe

	r.solvers["euler"] = func() cell.Stepper { return solvers.NewEuler() }
	r.solvers["rk4"] = func() cell.Stepper { return solvers.NewRK4() }
	r.solvers["rk45"] = func() cell.Stepper { return solvers.NewRK45() }

	return r
}

func (r *Registry) Model(name string, opts Options, p params.Values, build bool) (*Model, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s (available: %v)", name, r.Models())
	}
	return fn(opts, p, build)
}

func (r *Registry) Solver(name string) (cell.Stepper, error) {
	fn, ok := r.solvers[name]
	if !ok {
		return nil, fmt.Errorf("unknown solver: %s (available: %v)", name, r.Solvers())
	}
	return fn(), nil
}

func (r *Registry) Models() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Solvers() []string {
	names := make([]string, 0, len(r.solvers))
	for name := range r.solvers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
