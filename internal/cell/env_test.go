package cell

import "testing"

func testLayout() map[string]Slot {
	return map[string]Slot{
		"c_n": {Offset: 0, Len: 3},
		"ce":  {Offset: 3, Len: 2},
	}
}

func TestEnvVar(t *testing.T) {
	x := State{10, 11, 12, 1000, 1001}
	env := NewEnv(testLayout(), x, 5.0)

	if env.Time() != 5.0 {
		t.Errorf("Time() = %f, want 5", env.Time())
	}

	c := env.Var("c_n")
	if len(c) != 3 || c[0] != 10 || c[2] != 12 {
		t.Errorf("Var(c_n) = %v", c)
	}

	ce := env.Var("ce")
	if len(ce) != 2 || ce[1] != 1001 {
		t.Errorf("Var(ce) = %v", ce)
	}
}

func TestEnvScalar(t *testing.T) {
	env := NewEnv(map[string]Slot{"l_sei": {Offset: 0, Len: 1}}, State{5e-9}, 0)

	if got := env.Scalar("l_sei"); got != 5e-9 {
		t.Errorf("Scalar(l_sei) = %g", got)
	}
	if got := env.Scalar("absent"); got != 0 {
		t.Errorf("Scalar(absent) = %g, want 0", got)
	}
}

func TestEnvCouplings(t *testing.T) {
	env := NewEnv(testLayout(), make(State, 5), 0)

	env.Set("current", 5.0)
	if !env.Has("current") {
		t.Error("Has(current) should be true after Set")
	}
	if got := env.Get("current"); got != 5.0 {
		t.Errorf("Get(current) = %f", got)
	}
	if env.Has("voltage") {
		t.Error("Has(voltage) should be false")
	}
}

func TestEnvMissingTracking(t *testing.T) {
	env := NewEnv(testLayout(), make(State, 5), 0)

	if missing := env.Missing(); missing != nil {
		t.Errorf("fresh env should have no missing reads, got %v", missing)
	}

	env.Set("current", 5.0)
	env.Get("current")
	env.Get("j_n")
	env.Var("t_cell")
	env.Get("j_n")

	missing := env.Missing()
	if len(missing) != 2 {
		t.Fatalf("Missing() = %v, want 2 entries", missing)
	}
	seen := map[string]bool{}
	for _, name := range missing {
		seen[name] = true
	}
	if !seen["j_n"] || !seen["t_cell"] {
		t.Errorf("Missing() = %v, want j_n and t_cell", missing)
	}
}
