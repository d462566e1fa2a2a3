package submodel

import (
	"math"

	"github.com/okuno/cellsim/internal/cell"
	"github.com/okuno/cellsim/internal/params"
)

// CrackSide selects which electrodes grow surface cracks.
type CrackSide string

const (
	CrackNegative CrackSide = "negative"
	CrackPositive CrackSide = "positive"
	CrackBoth     CrackSide = "both"
)

func (c CrackSide) electrodes() []Electrode {
	switch c {
	case CrackNegative:
		return []Electrode{Negative}
	case CrackPositive:
		return []Electrode{Positive}
	default:
		return []Electrode{Negative, Positive}
	}
}

// NoMechanics is the intact-particle limit: no crack state, nothing
// published.
type NoMechanics struct{}

func NewNoMechanics() *NoMechanics { return &NoMechanics{} }

func (n *NoMechanics) Name() string { return "none" }

func (n *NoMechanics) Variables(p params.Values) []VariableSpec { return nil }

func (n *NoMechanics) Provides() []string { return nil }
func (n *NoMechanics) Requires() []string { return nil }

func (n *NoMechanics) Update(env *cell.Env, p params.Values) {}

func (n *NoMechanics) RHS(env *cell.Env, p params.Values, dxdt cell.State, slot cell.Slot) {
}

// CrackingMechanics grows surface cracks on the selected electrodes.
// The tangential stress at the particle surface follows the difference
// between average and surface concentration; crack length advances by a
// fatigue power law, and only under tension. Each cracked side carries
// a crack-length state and publishes the surface stress and the cracked
// roughness ratio.
type CrackingMechanics struct {
	Side CrackSide
}

func NewCrackingMechanics(side CrackSide) *CrackingMechanics {
	return &CrackingMechanics{Side: side}
}

func (c *CrackingMechanics) Name() string { return string(c.Side) + " cracking" }

func (c *CrackingMechanics) Variables(p params.Values) []VariableSpec {
	specs := make([]VariableSpec, 0, 2)
	for _, e := range c.Side.electrodes() {
		specs = append(specs, VariableSpec{
			Name:    "l_cr" + e.suffix(),
			Size:    1,
			Initial: constant(p.Get("crack_init")),
		})
	}
	return specs
}

func (c *CrackingMechanics) Provides() []string {
	names := make([]string, 0, 4)
	for _, e := range c.Side.electrodes() {
		s := e.suffix()
		names = append(names, "sigma_cr"+s, "roughness"+s)
	}
	return names
}

func (c *CrackingMechanics) Requires() []string {
	names := make([]string, 0, 4)
	for _, e := range c.Side.electrodes() {
		s := e.suffix()
		names = append(names, "c_surf"+s, "c_avg"+s)
	}
	return names
}

func (c *CrackingMechanics) Update(env *cell.Env, p params.Values) {
	for _, e := range c.Side.electrodes() {
		s := e.suffix()
		l := env.Scalar("l_cr" + s)
		if l < 0 {
			l = 0
		}
		env.Set("sigma_cr"+s, surfaceStress(env, p, e))
		env.Set("roughness"+s, 1+2*p.Get("crack_density")*p.Get("crack_width")*l)
	}
}

func (c *CrackingMechanics) RHS(env *cell.Env, p params.Values, dxdt cell.State, slot cell.Slot) {
	rate := p.Get("crack_rate")
	exponent := p.Get("crack_exponent")
	for i, e := range c.Side.electrodes() {
		s := e.suffix()
		l := env.Scalar("l_cr" + s)
		if l < 0 {
			l = 0
		}
		sigma := env.Get("sigma_cr" + s)
		if sigma <= 0 {
			// Compression closes cracks, it does not grow them.
			dxdt[slot.Offset+i] = 0
			continue
		}
		dxdt[slot.Offset+i] = rate * math.Pow(sigma*math.Sqrt(math.Pi*l), exponent)
	}
}

// surfaceStress is the tangential stress at the particle surface from
// the lithium concentration gradient. Tensile when the surface is
// depleted relative to the bulk.
func surfaceStress(env *cell.Env, p params.Values, e Electrode) float64 {
	s := e.suffix()
	dc := env.Get("c_avg"+s) - env.Get("c_surf"+s)
	return p.Get("omega"+s) * p.Get("youngs"+s) * dc / (3 * (1 - p.Get("poisson"+s)))
}
