package submodel

import (
	"math"

	"github.com/okuno/cellsim/internal/cell"
	"github.com/okuno/cellsim/internal/params"
)

// ButlerVolmer inverts symmetric Butler-Volmer kinetics to publish the
// reaction overpotential carrying the demanded interfacial current, plus
// the electrode open-circuit potential at the particle surface.
type ButlerVolmer struct {
	E   Electrode
	OCP func(float64) float64
}

func NewButlerVolmer(e Electrode, ocp func(float64) float64) *ButlerVolmer {
	return &ButlerVolmer{E: e, OCP: ocp}
}

func (b *ButlerVolmer) Name() string { return "butler-volmer" }

func (b *ButlerVolmer) Variables(p params.Values) []VariableSpec { return nil }

func (b *ButlerVolmer) Provides() []string {
	s := b.E.suffix()
	return []string{"eta" + s, "ocp" + s}
}

func (b *ButlerVolmer) Requires() []string {
	s := b.E.suffix()
	return []string{"j" + s, "c_surf" + s, "stoich" + s, "ce" + s, "temperature"}
}

func (b *ButlerVolmer) Update(env *cell.Env, p params.Values) {
	s := b.E.suffix()
	j := env.Get("j" + s)
	j0 := exchangeCurrent(env, p, b.E)
	temp := env.Get("temperature")

	// eta = (2RT/F) asinh(j / 2j0) for alpha = 0.5.
	eta := 2 * params.GasConstant * temp / params.Faraday * math.Asinh(j/(2*j0))
	env.Set("eta"+s, eta)
	env.Set("ocp"+s, b.OCP(env.Get("stoich"+s)))
}

func (b *ButlerVolmer) RHS(env *cell.Env, p params.Values, dxdt cell.State, slot cell.Slot) {
}

// LinearKinetics is the small-overpotential linearization of
// Butler-Volmer, useful near equilibrium and for analytic checks.
type LinearKinetics struct {
	E   Electrode
	OCP func(float64) float64
}

func NewLinearKinetics(e Electrode, ocp func(float64) float64) *LinearKinetics {
	return &LinearKinetics{E: e, OCP: ocp}
}

func (l *LinearKinetics) Name() string { return "linear" }

func (l *LinearKinetics) Variables(p params.Values) []VariableSpec { return nil }

func (l *LinearKinetics) Provides() []string {
	s := l.E.suffix()
	return []string{"eta" + s, "ocp" + s}
}

func (l *LinearKinetics) Requires() []string {
	s := l.E.suffix()
	return []string{"j" + s, "c_surf" + s, "stoich" + s, "ce" + s, "temperature"}
}

func (l *LinearKinetics) Update(env *cell.Env, p params.Values) {
	s := l.E.suffix()
	j := env.Get("j" + s)
	j0 := exchangeCurrent(env, p, l.E)
	temp := env.Get("temperature")

	eta := params.GasConstant * temp / params.Faraday * j / j0
	env.Set("eta"+s, eta)
	env.Set("ocp"+s, l.OCP(env.Get("stoich"+s)))
}

func (l *LinearKinetics) RHS(env *cell.Env, p params.Values, dxdt cell.State, slot cell.Slot) {
}

// exchangeCurrent computes j0 = k F sqrt(ce c_surf (cmax - c_surf)),
// floored away from zero so the inverted kinetics stay finite as the
// particle saturates or depletes.
func exchangeCurrent(env *cell.Env, p params.Values, e Electrode) float64 {
	s := e.suffix()
	cmax := p.Get("cmax" + s)
	csurf := env.Get("c_surf" + s)
	ce := env.Get("ce" + s)

	if csurf < 0 {
		csurf = 0
	}
	if csurf > cmax {
		csurf = cmax
	}
	arg := ce * csurf * (cmax - csurf)
	if arg < 0 {
		arg = 0
	}
	j0 := p.Get("k"+s) * params.Faraday * math.Sqrt(arg)

	const floor = 1e-9
	if j0 < floor {
		j0 = floor
	}
	return j0
}
