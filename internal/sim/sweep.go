package sim

import (
	"context"
	"sync"

	"github.com/okuno/cellsim/internal/cell"
	"github.com/okuno/cellsim/internal/params"
)

// Case is one point of a sweep: a label, a C-rate, and optional
// parameter overrides applied on top of the base set.
type Case struct {
	Name      string
	CRate     float64
	Overrides params.Values
}

// Factory builds a fresh simulation for a sweep case. Each case gets its
// own model so goroutines never share mutable state.
type Factory func(Case) (*Simulation, error)

// Sweep solves a set of cases in parallel.
type Sweep struct {
	factory Factory
	cases   []Case
}

func NewSweep(factory Factory, cases []Case) *Sweep {
	return &Sweep{factory: factory, cases: cases}
}

// Run solves every case concurrently, returning solutions in case
// order. The first error wins; remaining solutions may be nil.
func (s *Sweep) Run(ctx context.Context, cfg cell.SolveConfig) ([]*cell.Solution, error) {
	solutions := make([]*cell.Solution, len(s.cases))
	errs := make([]error, len(s.cases))

	var wg sync.WaitGroup
	for i := range s.cases {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			simulation, err := s.factory(s.cases[idx])
			if err != nil {
				errs[idx] = err
				return
			}
			solutions[idx], errs[idx] = simulation.Solve(ctx, cfg)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return solutions, err
		}
	}
	return solutions, nil
}
