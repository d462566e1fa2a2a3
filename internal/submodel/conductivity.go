package submodel

import (
	"math"

	"github.com/okuno/cellsim/internal/cell"
	"github.com/okuno/cellsim/internal/params"
)

// Electrolyte conductivity submodels publish phi_e_loss, the total
// electrolyte potential drop (ohmic plus concentration overpotential),
// taken positive when it reduces the terminal voltage on discharge.

type LeadingOrderConductivity struct{}

func NewLeadingOrderConductivity() *LeadingOrderConductivity {
	return &LeadingOrderConductivity{}
}

func (l *LeadingOrderConductivity) Name() string { return "leading-order" }

func (l *LeadingOrderConductivity) Variables(p params.Values) []VariableSpec { return nil }

func (l *LeadingOrderConductivity) Provides() []string { return []string{"phi_e_loss"} }

func (l *LeadingOrderConductivity) Requires() []string {
	return []string{"i_app", "ce_n", "ce_p", "eps_n", "temperature"}
}

func (l *LeadingOrderConductivity) Update(env *cell.Env, p params.Values) {
	iApp := env.Get("i_app")
	kappa := p.Get("kappa_e")

	kn := kappa * math.Pow(env.Get("eps_n"), 1.5)
	ks := kappa * math.Pow(p.Get("porosity_s"), 1.5)
	kp := kappa * math.Pow(p.Get("porosity_p"), 1.5)

	// Leading-order: linear current profile in the electrodes gives the
	// 1/3 factors on the electrode resistances.
	ohmic := iApp * (p.Get("thick_n")/(3*kn) + p.Get("thick_s")/ks + p.Get("thick_p")/(3*kp))

	conc := concentrationOverpotential(env, p, env.Get("ce_n"), env.Get("ce_p"))
	env.Set("phi_e_loss", ohmic+conc)
}

func (l *LeadingOrderConductivity) RHS(env *cell.Env, p params.Values, dxdt cell.State, slot cell.Slot) {
}

// IntegratedConductivity integrates the ohmic drop through the cell
// thickness with porosity interpolated between regions, and splits the
// concentration overpotential at the separator.
type IntegratedConductivity struct{}

func NewIntegratedConductivity() *IntegratedConductivity { return &IntegratedConductivity{} }

func (i *IntegratedConductivity) Name() string { return "integrated" }

func (i *IntegratedConductivity) Variables(p params.Values) []VariableSpec { return nil }

func (i *IntegratedConductivity) Provides() []string { return []string{"phi_e_loss"} }

func (i *IntegratedConductivity) Requires() []string {
	return []string{"i_app", "ce_n", "ce_s", "ce_p", "eps_n", "temperature"}
}

func (i *IntegratedConductivity) Update(env *cell.Env, p params.Values) {
	iApp := env.Get("i_app")
	kappa := p.Get("kappa_e")

	epsN := env.Get("eps_n")
	epsS := p.Get("porosity_s")
	epsP := p.Get("porosity_p")

	// Trapezoidal integral of i(x)/kappa_eff(x) with the current ramping
	// linearly inside each electrode.
	const nodes = 8
	integrate := func(l, epsA, epsB float64, rampUp, rampDown bool) float64 {
		dx := l / nodes
		sum := 0.0
		for k := 0; k < nodes; k++ {
			frac := (float64(k) + 0.5) / nodes
			eps := epsA + (epsB-epsA)*frac
			scale := 1.0
			if rampUp {
				scale = frac
			} else if rampDown {
				scale = 1 - frac
			}
			sum += scale * dx / (kappa * math.Pow(eps, 1.5))
		}
		return sum
	}

	resistance := integrate(p.Get("thick_n"), epsN, epsN, true, false) +
		integrate(p.Get("thick_s"), epsS, epsS, false, false) +
		integrate(p.Get("thick_p"), epsP, epsP, false, true)

	ceN := env.Get("ce_n")
	ceS := env.Get("ce_s")
	ceP := env.Get("ce_p")
	conc := concentrationOverpotential(env, p, ceN, ceS) +
		concentrationOverpotential(env, p, ceS, ceP)

	env.Set("phi_e_loss", iApp*resistance+conc)
}

func (i *IntegratedConductivity) RHS(env *cell.Env, p params.Values, dxdt cell.State, slot cell.Slot) {
}

// concentrationOverpotential is the Nernstian drop between two
// electrolyte concentrations, positive when the downstream side is
// depleted.
func concentrationOverpotential(env *cell.Env, p params.Values, ceFrom, ceTo float64) float64 {
	if ceFrom <= 0 || ceTo <= 0 {
		return 0
	}
	temp := env.Get("temperature")
	return -2 * params.GasConstant * temp * (1 - p.Get("tplus")) / params.Faraday *
		math.Log(ceTo/ceFrom)
}
