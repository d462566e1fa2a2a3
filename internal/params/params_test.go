package params

import (
	"path/filepath"
	"testing"
)

func TestValuesAccess(t *testing.T) {
	v := Values{"capacity": 5.0}

	if got := v.Get("capacity"); got != 5.0 {
		t.Errorf("Get(capacity) = %f", got)
	}
	if got := v.GetOr("c_rate", 1.5); got != 1.5 {
		t.Errorf("GetOr fallback = %f, want 1.5", got)
	}
	if _, ok := v.Lookup("missing"); ok {
		t.Error("Lookup should report missing keys")
	}
}

func TestGetPanicsOnMissing(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Get should panic on a missing parameter")
		}
		missing, ok := r.(*MissingError)
		if !ok {
			t.Fatalf("panic value %T, want *MissingError", r)
		}
		if missing.Name != "nope" {
			t.Errorf("missing name %q, want %q", missing.Name, "nope")
		}
	}()
	Values{}.Get("nope")
}

func TestCloneIndependence(t *testing.T) {
	v := Values{"a": 1}
	c := v.Clone()
	c.Set("a", 2)

	if v.Get("a") != 1 {
		t.Error("Clone should not share storage")
	}
}

func TestMerge(t *testing.T) {
	base := Values{"a": 1, "b": 2}
	merged := base.Merge(Values{"b": 20, "c": 30})

	if merged.Get("a") != 1 || merged.Get("b") != 20 || merged.Get("c") != 30 {
		t.Errorf("Merge result wrong: %v", merged)
	}
	if base.Get("b") != 2 {
		t.Error("Merge should not mutate the receiver")
	}
}

func TestNamesSorted(t *testing.T) {
	v := Values{"z": 1, "a": 2, "m": 3}
	names := v.Names()
	if len(names) != 3 || names[0] != "a" || names[2] != "z" {
		t.Errorf("Names() = %v, want sorted", names)
	}
}

func TestChemistry(t *testing.T) {
	for _, name := range Chemistries() {
		p, err := Chemistry(name)
		if err != nil {
			t.Fatalf("Chemistry(%s): %v", name, err)
		}
		for _, key := range []string{"capacity", "v_min", "v_max", "cmax_n", "cmax_p", "ce_init", "sei_init", "crack_init", "sv_n", "sv_p"} {
			if _, ok := p.Lookup(key); !ok {
				t.Errorf("chemistry %s missing %q", name, key)
			}
		}
		if p.Get("v_min") >= p.Get("v_max") {
			t.Errorf("chemistry %s: voltage window inverted", name)
		}
		if p.Get("c_init_n") > p.Get("cmax_n") {
			t.Errorf("chemistry %s: initial concentration above cmax", name)
		}
	}
}

func TestChemistryCopies(t *testing.T) {
	a, _ := Chemistry("graphite-nmc")
	a.Set("capacity", 999)

	b, _ := Chemistry("graphite-nmc")
	if b.Get("capacity") == 999 {
		t.Error("Chemistry should return independent copies")
	}
}

func TestChemistryUnknown(t *testing.T) {
	if _, err := Chemistry("unobtainium"); err == nil {
		t.Error("expected error for unknown chemistry")
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	v := Values{"capacity": 4.8, "diff_n": 2.5e-14}

	if err := Save(path, v); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Get("capacity") != 4.8 {
		t.Errorf("capacity = %f after round trip", loaded.Get("capacity"))
	}
	if loaded.Get("diff_n") != 2.5e-14 {
		t.Errorf("diff_n = %g after round trip", loaded.Get("diff_n"))
	}
}
