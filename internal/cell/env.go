package cell

// Slot locates a state variable inside the packed state vector.
type Slot struct {
	Offset int
	Len    int
}

// Env is the coupling environment threaded through a derivative
// evaluation. Submodel update passes publish scalar coupling values into
// it; later passes and the rhs equations read them back. Lookups of
// values nobody published are recorded so a well-posedness check can
// surface them.
type Env struct {
	t       float64
	x       State
	layout  map[string]Slot
	vals    map[string]float64
	missing map[string]bool
}

func NewEnv(layout map[string]Slot, x State, t float64) *Env {
	return &Env{
		t:      t,
		x:      x,
		layout: layout,
		vals:   make(map[string]float64, 16),
	}
}

func (e *Env) Time() float64 { return e.t }

// Var returns the state slice owned by a named variable, or nil when the
// variable is not part of the built layout.
func (e *Env) Var(name string) []float64 {
	slot, ok := e.layout[name]
	if !ok {
		e.recordMissing(name)
		return nil
	}
	return e.x[slot.Offset : slot.Offset+slot.Len]
}

// Scalar is Var for single-entry variables.
func (e *Env) Scalar(name string) float64 {
	v := e.Var(name)
	if len(v) == 0 {
		return 0
	}
	return v[0]
}

func (e *Env) Set(name string, v float64) {
	e.vals[name] = v
}

func (e *Env) Get(name string) float64 {
	v, ok := e.vals[name]
	if !ok {
		e.recordMissing(name)
		return 0
	}
	return v
}

func (e *Env) Has(name string) bool {
	_, ok := e.vals[name]
	return ok
}

// Missing lists coupling or state variables that were read but never
// published during this evaluation.
func (e *Env) Missing() []string {
	if len(e.missing) == 0 {
		return nil
	}
	names := make([]string, 0, len(e.missing))
	for name := range e.missing {
		names = append(names, name)
	}
	return names
}

func (e *Env) recordMissing(name string) {
	if e.missing == nil {
		e.missing = make(map[string]bool)
	}
	e.missing[name] = true
}
