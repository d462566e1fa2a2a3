package submodel

import (
	"github.com/okuno/cellsim/internal/cell"
	"github.com/okuno/cellsim/internal/params"
)

// Particle submodels track lithium concentration in a representative
// electrode particle and publish the surface concentration the kinetics
// read. Four fidelity levels are available: a full radial Fickian
// discretization and the uniform/quadratic/quartic polynomial profiles.

// DefaultShells is the radial resolution of the Fickian particle.
const DefaultShells = 10

// ParticleShape selects how the surface-to-volume ratio of the
// representative particle is obtained. The spherical default derives it
// from the radius; the user shape reads it from the sv_n / sv_p
// parameters. The zero value behaves as spherical.
type ParticleShape string

const (
	ShapeSpherical ParticleShape = "spherical"
	ShapeUser      ParticleShape = "user"
)

// surfPerVolume is the exchange surface area per particle volume.
func (sh ParticleShape) surfPerVolume(p params.Values, e Electrode) float64 {
	if sh == ShapeUser {
		return p.Get("sv" + e.suffix())
	}
	return 3.0 / p.Get("radius"+e.suffix())
}

// areaScale is the exchange area relative to the spherical surface.
func (sh ParticleShape) areaScale(p params.Values, e Electrode) float64 {
	return sh.surfPerVolume(p, e) * p.Get("radius"+e.suffix()) / 3.0
}

type FickianParticle struct {
	E      Electrode
	Shape  ParticleShape
	Shells int
}

func NewFickianParticle(e Electrode) *FickianParticle {
	return &FickianParticle{E: e, Shells: DefaultShells}
}

func (f *FickianParticle) Name() string { return "fickian" }

func (f *FickianParticle) Variables(p params.Values) []VariableSpec {
	n := f.Shells
	init := p.Get("c_init" + f.E.suffix())
	return []VariableSpec{{
		Name: "c" + f.E.suffix(),
		Size: n,
		Initial: func(params.Values) []float64 {
			c := make([]float64, n)
			for i := range c {
				c[i] = init
			}
			return c
		},
	}}
}

func (f *FickianParticle) Provides() []string {
	s := f.E.suffix()
	return []string{"c_surf" + s, "c_avg" + s, "stoich" + s}
}

func (f *FickianParticle) Requires() []string {
	return []string{"j" + f.E.suffix()}
}

func (f *FickianParticle) Update(env *cell.Env, p params.Values) {
	s := f.E.suffix()
	c := env.Var("c" + s)
	radius := p.Get("radius" + s)
	diff := p.Get("diff" + s)
	j := env.Get("j" + s)

	n := len(c)
	dr := radius / float64(n)

	// Surface value from the outermost shell and the flux boundary
	// condition: dc/dr at the surface is -j/(F D).
	j *= f.Shape.areaScale(p, f.E)
	surf := c[n-1] - j*dr/(2*params.Faraday*diff)

	avg := 0.0
	vol := 0.0
	for i := 0; i < n; i++ {
		ri := float64(i) * dr
		ro := float64(i+1) * dr
		vi := (ro*ro*ro - ri*ri*ri) / 3.0
		avg += c[i] * vi
		vol += vi
	}
	avg /= vol

	env.Set("c_surf"+s, surf)
	env.Set("c_avg"+s, avg)
	env.Set("stoich"+s, surf/p.Get("cmax"+s))
}

func (f *FickianParticle) RHS(env *cell.Env, p params.Values, dxdt cell.State, slot cell.Slot) {
	s := f.E.suffix()
	c := env.Var("c" + s)
	radius := p.Get("radius" + s)
	diff := p.Get("diff" + s)
	j := env.Get("j" + s)

	n := len(c)
	dr := radius / float64(n)

	for i := 0; i < n; i++ {
		ri := float64(i) * dr
		ro := float64(i+1) * dr
		vi := (ro*ro*ro - ri*ri*ri) / 3.0

		fluxIn := 0.0
		if i > 0 {
			fluxIn = ri * ri * diff * (c[i] - c[i-1]) / dr
		}
		var fluxOut float64
		if i < n-1 {
			fluxOut = ro * ro * diff * (c[i+1] - c[i]) / dr
		} else {
			// Surface: outward molar flux j/F leaves the particle.
			fluxOut = -ro * ro * j * f.Shape.areaScale(p, f.E) / params.Faraday
		}
		dxdt[slot.Offset+i] = (fluxOut - fluxIn) / vi
	}
}

// UniformParticle assumes a flat concentration profile: surface equals
// average and a single ODE tracks the mean.
type UniformParticle struct {
	E     Electrode
	Shape ParticleShape
}

func NewUniformParticle(e Electrode) *UniformParticle { return &UniformParticle{E: e} }

func (u *UniformParticle) Name() string { return "uniform" }

func (u *UniformParticle) Variables(p params.Values) []VariableSpec {
	return []VariableSpec{{
		Name:    "c" + u.E.suffix(),
		Size:    1,
		Initial: constant(p.Get("c_init" + u.E.suffix())),
	}}
}

func (u *UniformParticle) Provides() []string {
	s := u.E.suffix()
	return []string{"c_surf" + s, "c_avg" + s, "stoich" + s}
}

func (u *UniformParticle) Requires() []string { return nil }

func (u *UniformParticle) Update(env *cell.Env, p params.Values) {
	s := u.E.suffix()
	c := env.Scalar("c" + s)
	env.Set("c_surf"+s, c)
	env.Set("c_avg"+s, c)
	env.Set("stoich"+s, c/p.Get("cmax"+s))
}

func (u *UniformParticle) RHS(env *cell.Env, p params.Values, dxdt cell.State, slot cell.Slot) {
	j := env.Get("j" + u.E.suffix())
	dxdt[slot.Offset] = -u.Shape.surfPerVolume(p, u.E) * j / params.Faraday
}

// QuadraticParticle adds the steady parabolic profile correction to the
// surface concentration.
type QuadraticParticle struct {
	E     Electrode
	Shape ParticleShape
}

func NewQuadraticParticle(e Electrode) *QuadraticParticle { return &QuadraticParticle{E: e} }

func (q *QuadraticParticle) Name() string { return "quadratic" }

func (q *QuadraticParticle) Variables(p params.Values) []VariableSpec {
	return []VariableSpec{{
		Name:    "c" + q.E.suffix(),
		Size:    1,
		Initial: constant(p.Get("c_init" + q.E.suffix())),
	}}
}

func (q *QuadraticParticle) Provides() []string {
	s := q.E.suffix()
	return []string{"c_surf" + s, "c_avg" + s, "stoich" + s}
}

func (q *QuadraticParticle) Requires() []string {
	return []string{"j" + q.E.suffix()}
}

func (q *QuadraticParticle) Update(env *cell.Env, p params.Values) {
	s := q.E.suffix()
	c := env.Scalar("c" + s)
	j := env.Get("j" + s)
	radius := p.Get("radius" + s)
	diff := p.Get("diff" + s)

	surf := c - j*radius/(5*params.Faraday*diff)
	env.Set("c_surf"+s, surf)
	env.Set("c_avg"+s, c)
	env.Set("stoich"+s, surf/p.Get("cmax"+s))
}

func (q *QuadraticParticle) RHS(env *cell.Env, p params.Values, dxdt cell.State, slot cell.Slot) {
	j := env.Get("j" + q.E.suffix())
	dxdt[slot.Offset] = -q.Shape.surfPerVolume(p, q.E) * j / params.Faraday
}

// QuarticParticle carries the average concentration and the average
// radial flux as states, giving the transient surface response the
// quadratic profile misses.
type QuarticParticle struct {
	E     Electrode
	Shape ParticleShape
}

func NewQuarticParticle(e Electrode) *QuarticParticle { return &QuarticParticle{E: e} }

func (q *QuarticParticle) Name() string { return "quartic" }

func (q *QuarticParticle) Variables(p params.Values) []VariableSpec {
	s := q.E.suffix()
	return []VariableSpec{
		{Name: "c" + s, Size: 1, Initial: constant(p.Get("c_init" + s))},
		{Name: "q" + s, Size: 1, Initial: constant(0)},
	}
}

func (q *QuarticParticle) Provides() []string {
	s := q.E.suffix()
	return []string{"c_surf" + s, "c_avg" + s, "stoich" + s}
}

func (q *QuarticParticle) Requires() []string {
	return []string{"j" + q.E.suffix()}
}

func (q *QuarticParticle) Update(env *cell.Env, p params.Values) {
	s := q.E.suffix()
	c := env.Scalar("c" + s)
	qq := env.Scalar("q" + s)
	j := env.Get("j" + s)
	radius := p.Get("radius" + s)
	diff := p.Get("diff" + s)

	surf := c + 8*radius*qq/35 - j*radius/(35*params.Faraday*diff)
	env.Set("c_surf"+s, surf)
	env.Set("c_avg"+s, c)
	env.Set("stoich"+s, surf/p.Get("cmax"+s))
}

func (q *QuarticParticle) RHS(env *cell.Env, p params.Values, dxdt cell.State, slot cell.Slot) {
	s := q.E.suffix()
	j := env.Get("j" + s)
	qq := env.Scalar("q" + s)
	radius := p.Get("radius" + s)
	diff := p.Get("diff" + s)

	dxdt[slot.Offset] = -q.Shape.surfPerVolume(p, q.E) * j / params.Faraday
	dxdt[slot.Offset+1] = -30*diff*qq/(radius*radius) -
		45.0/2.0*j/(params.Faraday*radius*radius)
}
