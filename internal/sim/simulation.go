package sim

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/okuno/cellsim/internal/cell"
	"github.com/okuno/cellsim/internal/model"
	"github.com/okuno/cellsim/internal/solvers"
)

// Simulation drives a built model through time. Construct one per
// goroutine; the underlying model is shared read-only.
type Simulation struct {
	model   *model.Model
	sys     cell.System
	stepper cell.Stepper
	outputs []string
}

// New wraps a built model with a stepper. A nil stepper selects RK4.
func New(m *model.Model, stepper cell.Stepper) (*Simulation, error) {
	sys, err := m.System()
	if err != nil {
		return nil, err
	}
	if stepper == nil {
		stepper = solvers.NewRK4()
	}
	outputs := m.OutputNames()
	sort.Strings(outputs)
	return &Simulation{
		model:   m,
		sys:     sys,
		stepper: stepper,
		outputs: outputs,
	}, nil
}

func (s *Simulation) Model() *model.Model { return s.model }

// OutputNames lists the series a solve will record, in column order.
func (s *Simulation) OutputNames() []string {
	names := make([]string, len(s.outputs))
	copy(names, s.outputs)
	return names
}

// Solve integrates the model over the configured time span. The solve
// terminates at the final time, on a triggered model event, on context
// cancellation, or on an invalid state; the reason is recorded on the
// solution. A solution is returned alongside most errors so partial
// results stay inspectable.
func (s *Simulation) Solve(ctx context.Context, cfg cell.SolveConfig) (*cell.Solution, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	sol := &cell.Solution{
		Outputs: make(map[string][]float64, len(s.outputs)),
		Summary: make(map[string]float64),
	}

	x := s.model.InitialState.Clone()
	t := cfg.TStart
	dt := cfg.Dt

	if event, err := s.record(sol, x, t); err != nil {
		return sol, err
	} else if event != "" {
		sol.Termination = cell.TerminationEvent
		sol.Event = event
		s.summarize(sol)
		return sol, nil
	}

	for t < cfg.TEnd-1e-12 {
		select {
		case <-ctx.Done():
			sol.Termination = cell.TerminationCanceled
			s.summarize(sol)
			return sol, ctx.Err()
		default:
		}

		if t+dt > cfg.TEnd {
			dt = cfg.TEnd - t
		}

		var newX cell.State
		advance := dt
		if cfg.Adaptive {
			var stepErr error
			newX, advance, dt, stepErr = s.adaptiveStep(x, t, dt, cfg)
			if stepErr != nil {
				sol.Termination = cell.TerminationInvalid
				s.summarize(sol)
				return sol, &cell.SolveError{Step: sol.StepsTaken, Time: t, Wrapped: stepErr}
			}
		} else {
			newX = s.stepper.Step(s.sys, x, t, dt)
		}

		if cfg.ValidateState && !newX.IsValid() {
			sol.Termination = cell.TerminationInvalid
			s.summarize(sol)
			return sol, &cell.SolveError{Step: sol.StepsTaken, Time: t, Wrapped: cell.ErrInvalidState}
		}

		x = newX
		t += advance
		sol.StepsTaken++

		event, err := s.record(sol, x, t)
		if err != nil {
			return sol, err
		}
		if event != "" {
			sol.Termination = cell.TerminationEvent
			sol.Event = event
			s.summarize(sol)
			return sol, nil
		}
	}

	sol.Termination = cell.TerminationFinalTime
	s.summarize(sol)
	return sol, nil
}

// record appends the state and output samples and reports the first
// triggered event, if any.
func (s *Simulation) record(sol *cell.Solution, x cell.State, t float64) (string, error) {
	env, err := s.model.Evaluate(x, t)
	if err != nil {
		return "", err
	}

	sol.Times = append(sol.Times, t)
	sol.States = append(sol.States, x.Clone())
	for _, name := range s.outputs {
		sol.Outputs[name] = append(sol.Outputs[name], s.model.Outputs[name](env))
	}

	for _, ev := range s.model.Events {
		if ev.F(env) <= 0 {
			return ev.Name, nil
		}
	}
	return "", nil
}

func (s *Simulation) validateConfig(cfg cell.SolveConfig) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.TEnd <= cfg.TStart {
		return fmt.Errorf("time span must advance, got [%f, %f]", cfg.TStart, cfg.TEnd)
	}
	if cfg.Adaptive && cfg.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive for adaptive stepping")
	}
	return nil
}

// adaptiveStep advances by one accepted step, returning the new state,
// the span actually advanced, and the step size to try next.
func (s *Simulation) adaptiveStep(x cell.State, t, dt float64, cfg cell.SolveConfig) (cell.State, float64, float64, error) {
	if adaptive, ok := s.stepper.(cell.AdaptiveStepper); ok {
		newX, dtNext, err := adaptive.StepAdaptive(s.sys, x, t, dt, cfg.Tolerance)
		if err != nil {
			return nil, 0, dt, err
		}
		if dtNext < cfg.MinDt {
			return nil, 0, dt, cell.ErrStepTooSmall
		}
		if dtNext > cfg.MaxDt {
			dtNext = cfg.MaxDt
		}
		return newX, dt, dtNext, nil
	}

	// Step doubling for fixed-step methods.
	x1 := s.stepper.Step(s.sys, x, t, dt)
	xHalf := s.stepper.Step(s.sys, x, t, dt/2)
	x2 := s.stepper.Step(s.sys, xHalf, t+dt/2, dt/2)

	errEst := x1.Sub(x2).Norm()
	if errEst > cfg.Tolerance {
		if dt/2 < cfg.MinDt {
			return nil, 0, dt, cell.ErrStepTooSmall
		}
		return s.adaptiveStep(x, t, dt/2, cfg)
	}
	dtNext := dt
	if errEst < cfg.Tolerance/10 && dt < cfg.MaxDt {
		dtNext = math.Min(dt*2, cfg.MaxDt)
	}
	return x2, dt, dtNext, nil
}
