package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/okuno/cellsim/internal/cell"
	"github.com/okuno/cellsim/internal/model"
	"github.com/okuno/cellsim/internal/params"
	"github.com/okuno/cellsim/internal/solvers"
)

func testSimulation(t *testing.T, opts model.Options, overrides params.Values) *Simulation {
	t.Helper()
	p, err := params.Chemistry("graphite-nmc")
	if err != nil {
		t.Fatalf("chemistry: %v", err)
	}
	p = p.Merge(overrides)

	m, err := model.SPM(opts, p, true)
	if err != nil {
		t.Fatalf("model: %v", err)
	}
	s, err := New(m, nil)
	if err != nil {
		t.Fatalf("simulation: %v", err)
	}
	return s
}

func shortConfig() cell.SolveConfig {
	cfg := cell.DefaultSolveConfig()
	cfg.Dt = 1.0
	cfg.TEnd = 60
	return cfg
}

func TestSolveToFinalTime(t *testing.T) {
	s := testSimulation(t, model.Options{}, nil)

	sol, err := s.Solve(context.Background(), shortConfig())
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	if sol.Termination != cell.TerminationFinalTime {
		t.Errorf("termination = %q, want %q", sol.Termination, cell.TerminationFinalTime)
	}
	if sol.StepsTaken != 60 {
		t.Errorf("steps = %d, want 60", sol.StepsTaken)
	}
	if len(sol.Times) != sol.StepsTaken+1 {
		t.Errorf("%d samples for %d steps", len(sol.Times), sol.StepsTaken)
	}

	for i := 1; i < len(sol.Times); i++ {
		if sol.Times[i] <= sol.Times[i-1] {
			t.Fatal("times should be strictly increasing")
		}
	}
	if last := sol.Times[len(sol.Times)-1]; last < 60-1e-9 {
		t.Errorf("final time %f, want 60", last)
	}

	voltage, ok := sol.Series("voltage")
	if !ok || len(voltage) != len(sol.Times) {
		t.Fatal("voltage series missing or misaligned")
	}
	if voltage[len(voltage)-1] >= voltage[0] {
		t.Error("voltage should decline under discharge")
	}
}

func TestSolveRecordsSummary(t *testing.T) {
	s := testSimulation(t, model.Options{Thermal: "lumped"}, nil)

	sol, err := s.Solve(context.Background(), shortConfig())
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	for _, key := range []string{"capacity", "energy", "min_voltage", "mean_voltage", "peak_temperature"} {
		if _, ok := sol.Summary[key]; !ok {
			t.Errorf("summary missing %q", key)
		}
	}
	// 1C for one minute is a sixtieth of the rated capacity.
	if got := sol.Summary["capacity"]; got < 0.06 || got > 0.11 {
		t.Errorf("capacity = %f Ah, want about 1/12 of rating", got)
	}
}

func TestSolveGrowsCracksOnDischarge(t *testing.T) {
	s := testSimulation(t, model.Options{ParticleCracking: "negative"}, nil)

	sol, err := s.Solve(context.Background(), shortConfig())
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	lengths, ok := sol.Series("l_cr_n")
	if !ok {
		t.Fatal("crack length should be recorded")
	}
	start, end := lengths[0], lengths[len(lengths)-1]
	if end <= start {
		t.Errorf("surface tension during discharge should grow cracks: %e -> %e", start, end)
	}

	stresses, ok := sol.Series("sigma_cr_n")
	if !ok {
		t.Fatal("surface stress should be recorded")
	}
	if stresses[len(stresses)-1] <= 0 {
		t.Error("discharge should keep the negative surface in tension")
	}
}

func TestSolveVoltageCutoff(t *testing.T) {
	p, err := params.Chemistry("graphite-nmc")
	if err != nil {
		t.Fatalf("chemistry: %v", err)
	}
	m, err := model.SPM(model.Options{}, p, true)
	if err != nil {
		t.Fatalf("model: %v", err)
	}
	v0, err := m.Output("voltage", m.InitialState, 0)
	if err != nil {
		t.Fatalf("initial voltage: %v", err)
	}

	// A cutoff just under the loaded voltage trips as the cell runs down.
	s := testSimulation(t, model.Options{}, params.Values{"v_min": v0 - 0.02})

	cfg := cell.DefaultSolveConfig()
	cfg.Dt = 1.0
	cfg.TEnd = 3600
	sol, err := s.Solve(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	if sol.Termination != cell.TerminationEvent {
		t.Fatalf("termination = %q, want %q", sol.Termination, cell.TerminationEvent)
	}
	if sol.Event != "minimum voltage" {
		t.Errorf("event = %q, want minimum voltage", sol.Event)
	}
	if last := sol.Times[len(sol.Times)-1]; last >= 3600 {
		t.Error("cutoff should fire before the final time")
	}
}

func TestSolveImmediateEvent(t *testing.T) {
	// A cutoff above the starting voltage trips on the first sample.
	s := testSimulation(t, model.Options{}, params.Values{"v_min": 10})

	sol, err := s.Solve(context.Background(), shortConfig())
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if sol.Termination != cell.TerminationEvent || sol.StepsTaken != 0 {
		t.Errorf("termination %q after %d steps, want immediate event", sol.Termination, sol.StepsTaken)
	}
}

func TestSolveCancellation(t *testing.T) {
	s := testSimulation(t, model.Options{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sol, err := s.Solve(ctx, shortConfig())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if sol == nil || sol.Termination != cell.TerminationCanceled {
		t.Error("expected a partial solution marked canceled")
	}
}

func TestSolveAdaptive(t *testing.T) {
	p, err := params.Chemistry("graphite-nmc")
	if err != nil {
		t.Fatalf("chemistry: %v", err)
	}
	m, err := model.SPM(model.Options{}, p, true)
	if err != nil {
		t.Fatalf("model: %v", err)
	}
	s, err := New(m, solvers.NewRK45())
	if err != nil {
		t.Fatalf("simulation: %v", err)
	}

	cfg := shortConfig()
	cfg.Adaptive = true
	cfg.Tolerance = 1e-6
	cfg.MaxDt = 10

	sol, err := s.Solve(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if sol.Termination != cell.TerminationFinalTime {
		t.Errorf("termination = %q", sol.Termination)
	}
	for i := 1; i < len(sol.Times); i++ {
		if sol.Times[i] <= sol.Times[i-1] {
			t.Fatal("adaptive times should still be strictly increasing")
		}
	}
}

func TestSolveConfigValidation(t *testing.T) {
	s := testSimulation(t, model.Options{}, nil)

	tests := []struct {
		name string
		mod  func(*cell.SolveConfig)
	}{
		{"zero dt", func(c *cell.SolveConfig) { c.Dt = 0 }},
		{"negative dt", func(c *cell.SolveConfig) { c.Dt = -1 }},
		{"empty span", func(c *cell.SolveConfig) { c.TEnd = c.TStart }},
		{"adaptive without tolerance", func(c *cell.SolveConfig) { c.Adaptive = true; c.Tolerance = 0 }},
	}

	for _, tt := range tests {
		cfg := shortConfig()
		tt.mod(&cfg)
		if _, err := s.Solve(context.Background(), cfg); err == nil {
			t.Errorf("%s: expected a config error", tt.name)
		}
	}
}

func TestNewRequiresBuiltModel(t *testing.T) {
	p, err := params.Chemistry("graphite-nmc")
	if err != nil {
		t.Fatalf("chemistry: %v", err)
	}
	m, err := model.SPM(model.Options{}, p, false)
	if err != nil {
		t.Fatalf("model: %v", err)
	}

	if _, err := New(m, nil); !errors.Is(err, cell.ErrNotBuilt) {
		t.Errorf("New on unbuilt model: err = %v, want ErrNotBuilt", err)
	}
}

func TestOutputNamesCopied(t *testing.T) {
	s := testSimulation(t, model.Options{}, nil)

	names := s.OutputNames()
	if len(names) == 0 {
		t.Fatal("expected output names")
	}
	names[0] = "mutated"
	if s.OutputNames()[0] == "mutated" {
		t.Error("OutputNames should return a copy")
	}
}
