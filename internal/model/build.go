package model

import (
	"fmt"
	"math"
	"sort"

	"github.com/okuno/cellsim/internal/cell"
	"github.com/okuno/cellsim/internal/params"
	"github.com/okuno/cellsim/internal/submodel"
)

// Build is the coupling pass. It verifies the submodel set is complete,
// lays out the packed state vector, resolves coupling variables across
// submodels, orders the update passes, and populates the rhs map, the
// initial state, the output variables, and the termination events.
func (m *Model) Build() (err error) {
	if m.built {
		return cell.ErrAlreadyBuilt
	}
	// A failed pass leaves the pre-build shell: empty rhs map, no
	// initial state, no outputs or events.
	defer func() {
		if err != nil {
			m.reset()
		}
	}()
	defer recoverMissingParam(&err)

	for _, area := range RequiredAreas {
		if _, ok := m.Submodels[area]; !ok {
			return fmt.Errorf("%w: %q", cell.ErrMissingSubmodel, area)
		}
	}

	// Snapshot in stable area order so the state layout is
	// deterministic; later map mutations do not reach the built system.
	areas := make([]string, 0, len(m.Submodels))
	for area := range m.Submodels {
		areas = append(areas, area)
	}
	sort.Strings(areas)

	if err := m.layoutState(areas); err != nil {
		return err
	}
	order, err := m.orderUpdates(areas)
	if err != nil {
		return err
	}

	m.updates = make([]submodel.Submodel, 0, len(order))
	for _, area := range order {
		m.updates = append(m.updates, m.Submodels[area])
	}

	m.registerOutputs()
	m.registerEvents()
	m.built = true
	return nil
}

// reset restores the pre-build shell after a failed coupling pass.
func (m *Model) reset() {
	m.RHS = make(map[string]Equation)
	m.Outputs = make(map[string]OutputFunc)
	m.Events = nil
	m.InitialState = nil
	m.layout = nil
	m.eqs = nil
	m.updates = nil
	m.stateDim = 0
}

// recoverMissingParam converts the panic a parameter lookup raises for
// an absent key into a regular build error. Anything else keeps
// panicking.
func recoverMissingParam(err *error) {
	r := recover()
	if r == nil {
		return
	}
	missing, ok := r.(*params.MissingError)
	if !ok {
		panic(r)
	}
	*err = fmt.Errorf("%w: %q", cell.ErrMissingParameter, missing.Name)
}

func (m *Model) layoutState(areas []string) error {
	m.layout = make(map[string]cell.Slot)
	m.RHS = make(map[string]Equation)
	m.eqs = nil
	m.InitialState = nil

	offset := 0
	for _, area := range areas {
		sm := m.Submodels[area]
		specs := sm.Variables(m.Params)
		if len(specs) == 0 {
			continue
		}

		start := offset
		for _, spec := range specs {
			if _, dup := m.layout[spec.Name]; dup {
				return fmt.Errorf("%w: %q (areas %q and earlier)",
					cell.ErrDuplicateVariable, spec.Name, area)
			}
			init := spec.Initial(m.Params)
			if len(init) != spec.Size {
				return fmt.Errorf("cell: variable %q initial length %d, want %d",
					spec.Name, len(init), spec.Size)
			}
			m.layout[spec.Name] = cell.Slot{Offset: offset, Len: spec.Size}
			m.InitialState = append(m.InitialState, init...)
			m.RHS[spec.Name] = Equation{
				Submodel: area,
				Variant:  sm.Name(),
				Variable: spec.Name,
				Size:     spec.Size,
			}
			offset += spec.Size
		}
		m.eqs = append(m.eqs, boundEquation{
			sm:   sm,
			slot: cell.Slot{Offset: start, Len: offset - start},
		})
	}
	m.stateDim = offset
	return nil
}

// orderUpdates topologically sorts the update passes so every coupling a
// submodel requires is published before its pass runs.
func (m *Model) orderUpdates(areas []string) ([]string, error) {
	provider := make(map[string]string)
	for _, area := range areas {
		for _, name := range m.Submodels[area].Provides() {
			if other, dup := provider[name]; dup {
				return nil, fmt.Errorf("%w: %q provided by %q and %q",
					cell.ErrDuplicateProvider, name, other, area)
			}
			provider[name] = area
		}
	}

	indegree := make(map[string]int, len(areas))
	edges := make(map[string][]string)
	for _, area := range areas {
		indegree[area] = 0
	}
	for _, area := range areas {
		for _, name := range m.Submodels[area].Requires() {
			from, ok := provider[name]
			if !ok {
				return nil, fmt.Errorf("%w: %q required by %q",
					cell.ErrCouplingUnresolved, name, area)
			}
			if from == area {
				continue
			}
			edges[from] = append(edges[from], area)
			indegree[area]++
		}
	}

	queue := make([]string, 0, len(areas))
	for _, area := range areas {
		if indegree[area] == 0 {
			queue = append(queue, area)
		}
	}
	sort.Strings(queue)

	order := make([]string, 0, len(areas))
	for len(queue) > 0 {
		area := queue[0]
		queue = queue[1:]
		order = append(order, area)
		for _, next := range edges[area] {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	if len(order) != len(areas) {
		stuck := make([]string, 0)
		for area, deg := range indegree {
			if deg > 0 {
				stuck = append(stuck, area)
			}
		}
		sort.Strings(stuck)
		return nil, fmt.Errorf("%w: %v", cell.ErrCouplingCycle, stuck)
	}
	return order, nil
}

func (m *Model) registerOutputs() {
	m.Outputs = map[string]OutputFunc{
		"voltage":     Voltage,
		"current":     func(env *cell.Env) float64 { return env.Get("current") },
		"power":       func(env *cell.Env) float64 { return env.Get("current") * Voltage(env) },
		"temperature": func(env *cell.Env) float64 { return env.Get("temperature") },
		"c_surf_n":    func(env *cell.Env) float64 { return env.Get("c_surf_n") },
		"c_surf_p":    func(env *cell.Env) float64 { return env.Get("c_surf_p") },
		"stoich_n":    func(env *cell.Env) float64 { return env.Get("stoich_n") },
		"stoich_p":    func(env *cell.Env) float64 { return env.Get("stoich_p") },
		"ce_n":        func(env *cell.Env) float64 { return env.Get("ce_n") },
		"ce_s":        func(env *cell.Env) float64 { return env.Get("ce_s") },
		"ce_p":        func(env *cell.Env) float64 { return env.Get("ce_p") },
		"eta_n":       func(env *cell.Env) float64 { return env.Get("eta_n") },
		"eta_p":       func(env *cell.Env) float64 { return env.Get("eta_p") },
		"ocp_n":       func(env *cell.Env) float64 { return env.Get("ocp_n") },
		"ocp_p":       func(env *cell.Env) float64 { return env.Get("ocp_p") },
		"phi_e_loss":  func(env *cell.Env) float64 { return env.Get("phi_e_loss") },
		"eps_n":       func(env *cell.Env) float64 { return env.Get("eps_n") },
	}
	if m.Options.SEI != "none" {
		m.Outputs["r_sei"] = func(env *cell.Env) float64 { return env.Get("r_sei") }
		m.Outputs["l_sei"] = func(env *cell.Env) float64 { return env.Scalar("l_sei") }
	}
	switch m.Options.ParticleCracking {
	case "negative":
		m.addCrackOutputs("_n")
	case "positive":
		m.addCrackOutputs("_p")
	case "both":
		m.addCrackOutputs("_n")
		m.addCrackOutputs("_p")
	}
}

func (m *Model) addCrackOutputs(s string) {
	m.Outputs["l_cr"+s] = func(env *cell.Env) float64 { return env.Scalar("l_cr" + s) }
	m.Outputs["sigma_cr"+s] = func(env *cell.Env) float64 { return env.Get("sigma_cr" + s) }
}

func (m *Model) registerEvents() {
	vMin := m.Params.Get("v_min")
	vMax := m.Params.Get("v_max")
	m.Events = []Event{
		{
			Name: "minimum voltage",
			F:    func(env *cell.Env) float64 { return Voltage(env) - vMin },
		},
		{
			Name: "maximum voltage",
			F:    func(env *cell.Env) float64 { return vMax - Voltage(env) },
		},
	}
}

// Voltage assembles the terminal voltage from the published couplings.
func Voltage(env *cell.Env) float64 {
	return env.Get("ocp_p") + env.Get("eta_p") -
		env.Get("ocp_n") - env.Get("eta_n") -
		env.Get("phi_e_loss") -
		env.Get("j_n")*env.Get("r_sei") -
		env.Get("phi_cc")
}

// CheckWellPosed verifies a built model: every state slot has exactly
// one governing equation, a trial derivative evaluation resolves every
// coupling it reads, and the initial derivative, outputs, and events are
// all finite.
func (m *Model) CheckWellPosed() (err error) {
	if !m.built {
		return cell.ErrNotBuilt
	}
	defer recoverMissingParam(&err)

	covered := 0
	for _, eq := range m.RHS {
		covered += eq.Size
	}
	if covered != m.stateDim {
		return fmt.Errorf("cell: %d state entries but %d governed by equations",
			m.stateDim, covered)
	}

	env := cell.NewEnv(m.layout, m.InitialState, 0)
	for _, sm := range m.updates {
		sm.Update(env, m.Params)
	}
	dxdt := make(cell.State, m.stateDim)
	for _, eq := range m.eqs {
		eq.sm.RHS(env, m.Params, dxdt, eq.slot)
	}
	for _, fn := range m.Outputs {
		if v := fn(env); math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite output at initial state", cell.ErrInvalidState)
		}
	}
	for _, ev := range m.Events {
		if v := ev.F(env); math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite event %q at initial state", cell.ErrInvalidState, ev.Name)
		}
	}

	if missing := env.Missing(); len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: %v", cell.ErrCouplingUnresolved, missing)
	}
	if !dxdt.IsValid() {
		return fmt.Errorf("%w: initial derivative", cell.ErrInvalidState)
	}
	return nil
}
