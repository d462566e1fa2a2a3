package submodel

import (
	"github.com/okuno/cellsim/internal/cell"
	"github.com/okuno/cellsim/internal/params"
)

// Isothermal pins the cell temperature to its initial value.
type Isothermal struct{}

func NewIsothermal() *Isothermal { return &Isothermal{} }

func (i *Isothermal) Name() string { return "isothermal" }

func (i *Isothermal) Variables(p params.Values) []VariableSpec { return nil }

func (i *Isothermal) Provides() []string { return []string{"temperature"} }
func (i *Isothermal) Requires() []string { return nil }

func (i *Isothermal) Update(env *cell.Env, p params.Values) {
	env.Set("temperature", p.Get("t_init"))
}

func (i *Isothermal) RHS(env *cell.Env, p params.Values, dxdt cell.State, slot cell.Slot) {
}

// LumpedThermal tracks a single cell temperature heated by the
// electrochemical losses and cooled convectively.
type LumpedThermal struct{}

func NewLumpedThermal() *LumpedThermal { return &LumpedThermal{} }

func (l *LumpedThermal) Name() string { return "lumped" }

func (l *LumpedThermal) Variables(p params.Values) []VariableSpec {
	return []VariableSpec{{
		Name:    "t_cell",
		Size:    1,
		Initial: constant(p.Get("t_init")),
	}}
}

func (l *LumpedThermal) Provides() []string { return []string{"temperature"} }
func (l *LumpedThermal) Requires() []string { return nil }

func (l *LumpedThermal) Update(env *cell.Env, p params.Values) {
	env.Set("temperature", env.Scalar("t_cell"))
}

func (l *LumpedThermal) RHS(env *cell.Env, p params.Values, dxdt cell.State, slot cell.Slot) {
	temp := env.Scalar("t_cell")
	q := heatGeneration(env, false)
	dxdt[slot.Offset] = (q - p.Get("cooling")*(temp-p.Get("t_ambient"))) / p.Get("thermal_mass")
}

// XLumpedThermal is the lumped balance with current-collector heating
// included, the form used with potential-pair collectors.
type XLumpedThermal struct{}

func NewXLumpedThermal() *XLumpedThermal { return &XLumpedThermal{} }

func (x *XLumpedThermal) Name() string { return "x-lumped" }

func (x *XLumpedThermal) Variables(p params.Values) []VariableSpec {
	return []VariableSpec{{
		Name:    "t_cell",
		Size:    1,
		Initial: constant(p.Get("t_init")),
	}}
}

func (x *XLumpedThermal) Provides() []string { return []string{"temperature"} }
func (x *XLumpedThermal) Requires() []string { return nil }

func (x *XLumpedThermal) Update(env *cell.Env, p params.Values) {
	env.Set("temperature", env.Scalar("t_cell"))
}

func (x *XLumpedThermal) RHS(env *cell.Env, p params.Values, dxdt cell.State, slot cell.Slot) {
	temp := env.Scalar("t_cell")
	q := heatGeneration(env, true)
	dxdt[slot.Offset] = (q - p.Get("cooling")*(temp-p.Get("t_ambient"))) / p.Get("thermal_mass")
}

// XFullNodes is the through-thickness resolution of the x-full model.
const XFullNodes = 5

// XFullThermal resolves the temperature profile through the cell
// thickness with uniform volumetric heating and convective cooling at
// both faces. It publishes the volume-average temperature.
type XFullThermal struct{}

func NewXFullThermal() *XFullThermal { return &XFullThermal{} }

func (x *XFullThermal) Name() string { return "x-full" }

func (x *XFullThermal) Variables(p params.Values) []VariableSpec {
	init := p.Get("t_init")
	return []VariableSpec{{
		Name: "t_cell",
		Size: XFullNodes,
		Initial: func(params.Values) []float64 {
			t := make([]float64, XFullNodes)
			for i := range t {
				t[i] = init
			}
			return t
		},
	}}
}

func (x *XFullThermal) Provides() []string { return []string{"temperature"} }
func (x *XFullThermal) Requires() []string { return nil }

func (x *XFullThermal) Update(env *cell.Env, p params.Values) {
	t := env.Var("t_cell")
	mean := 0.0
	for _, v := range t {
		mean += v
	}
	env.Set("temperature", mean/float64(len(t)))
}

func (x *XFullThermal) RHS(env *cell.Env, p params.Values, dxdt cell.State, slot cell.Slot) {
	t := env.Var("t_cell")
	n := len(t)

	dx := p.Get("cell_thick") / float64(n)
	cond := p.Get("k_thermal") * p.Get("cell_area") / dx
	nodeMass := p.Get("thermal_mass") / float64(n)
	qNode := heatGeneration(env, false) / float64(n)
	ambient := p.Get("t_ambient")
	halfCooling := p.Get("cooling") / 2

	for i := 0; i < n; i++ {
		flow := 0.0
		if i > 0 {
			flow += cond * (t[i-1] - t[i])
		} else {
			flow -= halfCooling * (t[i] - ambient)
		}
		if i < n-1 {
			flow += cond * (t[i+1] - t[i])
		} else {
			flow -= halfCooling * (t[i] - ambient)
		}
		dxdt[slot.Offset+i] = (flow + qNode) / nodeMass
	}
}

// heatGeneration sums the irreversible electrochemical losses, plus the
// collector ohmic heat when asked for.
func heatGeneration(env *cell.Env, withCollector bool) float64 {
	current := env.Get("current")
	q := current * (env.Get("eta_n") - env.Get("eta_p") + env.Get("phi_e_loss"))
	q += current * env.Get("j_n") * env.Get("r_sei")
	if withCollector {
		q += current * env.Get("phi_cc")
	}
	if q < 0 {
		q = 0
	}
	return q
}
