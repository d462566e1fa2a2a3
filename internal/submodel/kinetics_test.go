package submodel

import (
	"math"
	"testing"

	"github.com/okuno/cellsim/internal/cell"
)

func kineticsEnv(p map[string]float64, j float64) *cell.Env {
	env := cell.NewEnv(nil, nil, 0)
	env.Set("j_n", j)
	env.Set("c_surf_n", p["c_surf"])
	env.Set("stoich_n", p["stoich"])
	env.Set("ce_n", p["ce"])
	env.Set("temperature", 298.15)
	return env
}

func TestButlerVolmerSign(t *testing.T) {
	p := testParams(t)
	bv := NewButlerVolmer(Negative, GraphiteOCP)

	half := map[string]float64{"c_surf": p.Get("cmax_n") / 2, "stoich": 0.5, "ce": p.Get("ce_init")}

	env := kineticsEnv(half, 1.5)
	bv.Update(env, p)
	if env.Get("eta_n") <= 0 {
		t.Errorf("positive current should need positive overpotential, got %e", env.Get("eta_n"))
	}

	env = kineticsEnv(half, -1.5)
	bv.Update(env, p)
	if env.Get("eta_n") >= 0 {
		t.Errorf("negative current should need negative overpotential, got %e", env.Get("eta_n"))
	}

	env = kineticsEnv(half, 0)
	bv.Update(env, p)
	if env.Get("eta_n") != 0 {
		t.Errorf("zero current should sit at equilibrium, got %e", env.Get("eta_n"))
	}
}

func TestLinearMatchesButlerVolmerNearEquilibrium(t *testing.T) {
	p := testParams(t)
	bv := NewButlerVolmer(Negative, GraphiteOCP)
	lin := NewLinearKinetics(Negative, GraphiteOCP)

	half := map[string]float64{"c_surf": p.Get("cmax_n") / 2, "stoich": 0.5, "ce": p.Get("ce_init")}
	j := 1e-4

	envBV := kineticsEnv(half, j)
	bv.Update(envBV, p)
	envLin := kineticsEnv(half, j)
	lin.Update(envLin, p)

	etaBV := envBV.Get("eta_n")
	etaLin := envLin.Get("eta_n")
	if etaBV == 0 || math.Abs(etaBV-etaLin)/math.Abs(etaBV) > 1e-3 {
		t.Errorf("linearization should match for small currents: bv %e, linear %e", etaBV, etaLin)
	}
}

func TestButlerVolmerStaysFiniteAtDepletion(t *testing.T) {
	p := testParams(t)
	bv := NewButlerVolmer(Negative, GraphiteOCP)

	// Depleted surface and electrolyte drive j0 onto its floor.
	env := kineticsEnv(map[string]float64{"c_surf": 0, "stoich": 0, "ce": 0}, 1.5)
	bv.Update(env, p)

	eta := env.Get("eta_n")
	if math.IsNaN(eta) || math.IsInf(eta, 0) {
		t.Errorf("overpotential must stay finite when exchange current collapses, got %v", eta)
	}
	if eta <= 0 {
		t.Errorf("depleted electrode should show a large positive overpotential, got %e", eta)
	}
}

func TestButlerVolmerPublishesOCP(t *testing.T) {
	p := testParams(t)
	bv := NewButlerVolmer(Positive, OxideOCP)

	env := cell.NewEnv(nil, nil, 0)
	env.Set("j_p", -1.7)
	env.Set("c_surf_p", p.Get("cmax_p")/2)
	env.Set("stoich_p", 0.5)
	env.Set("ce_p", p.Get("ce_init"))
	env.Set("temperature", 298.15)
	bv.Update(env, p)

	if env.Get("ocp_p") != OxideOCP(0.5) {
		t.Error("published OCP should evaluate the curve at the surface stoichiometry")
	}
}

func TestOCPBounds(t *testing.T) {
	for x := 0.02; x < 0.99; x += 0.01 {
		if v := GraphiteOCP(x); v < -0.1 || v > 1.6 {
			t.Fatalf("GraphiteOCP(%.2f) = %f out of range", x, v)
		}
		if v := OxideOCP(x); v < 2.0 || v > 5.0 {
			t.Fatalf("OxideOCP(%.2f) = %f out of range", x, v)
		}
		if v := PhosphateOCP(x); v < 2.8 || v > 3.8 {
			t.Fatalf("PhosphateOCP(%.2f) = %f out of range", x, v)
		}
	}
}

func TestOCPFor(t *testing.T) {
	if OCPFor("graphite-nmc", Negative)(0.5) != GraphiteOCP(0.5) {
		t.Error("negative electrode should use the graphite curve")
	}
	if OCPFor("lfp", Positive)(0.5) != PhosphateOCP(0.5) {
		t.Error("lfp positive electrode should use the phosphate curve")
	}
	if OCPFor("graphite-nmc", Positive)(0.5) != OxideOCP(0.5) {
		t.Error("nmc positive electrode should use the oxide curve")
	}
}
