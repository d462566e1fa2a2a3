package solvers

import "github.com/okuno/cellsim/internal/cell"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys cell.System, x cell.State, t float64, dt float64) cell.State {
	dx := sys.Derive(x, t)
	result := make(cell.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}
