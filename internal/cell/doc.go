// Package cell provides core primitives for battery cell simulation.
//
// The package defines the fundamental types shared by the model builder
// and the solvers:
//
//   - [State]: packed vector of all submodel state variables
//   - [System]: interface for assembled ODE systems (dX/dt = f(X, t))
//   - [Stepper]: numerical integrator interface
//   - [Env]: coupling environment linking submodels during evaluation
//   - [Solution]: recorded output of a solve
//
// # Example
//
//	p, _ := params.Chemistry("graphite-nmc")
//	m, _ := model.SPMe(model.Options{}, p, true)
//	s, _ := sim.New(m, nil)
//	sol, _ := s.Solve(ctx, cell.DefaultSolveConfig())
//
// # Thread Safety
//
// Env instances are per-evaluation and NOT thread-safe. Built models are
// read-only and safe to share; use one Simulation per goroutine.
package cell
