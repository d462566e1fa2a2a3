package cell

import (
	"fmt"
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

type Stepper interface {
	Step(sys System, x State, t float64, dt float64) State
}

type AdaptiveStepper interface {
	Stepper
	StepAdaptive(sys System, x State, t, dt, tol float64) (State, float64, error)
}

type SolveConfig struct {
	Dt            float64
	TStart        float64
	TEnd          float64
	Tolerance     float64
	MaxDt         float64
	MinDt         float64
	Adaptive      bool
	ValidateState bool
}

func DefaultSolveConfig() SolveConfig {
	return SolveConfig{
		Dt:            1.0,
		TStart:        0,
		TEnd:          3600,
		Tolerance:     1e-6,
		MaxDt:         30,
		MinDt:         1e-6,
		Adaptive:      false,
		ValidateState: true,
	}
}

// Termination reasons recorded on a Solution.
const (
	TerminationFinalTime = "final time"
	TerminationEvent     = "event"
	TerminationInvalid   = "invalid state"
	TerminationCanceled  = "canceled"
)

type Solution struct {
	Times       []float64
	States      []State
	Outputs     map[string][]float64
	Summary     map[string]float64
	Termination string
	Event       string
	StepsTaken  int
}

func (s *Solution) Series(name string) ([]float64, bool) {
	out, ok := s.Outputs[name]
	return out, ok
}

func (s *Solution) Final(name string) (float64, bool) {
	out, ok := s.Outputs[name]
	if !ok || len(out) == 0 {
		return 0, false
	}
	return out[len(out)-1], true
}

type SolveError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SolveError) Unwrap() error {
	return e.Wrapped
}
