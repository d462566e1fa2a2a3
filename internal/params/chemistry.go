package params

import (
	"fmt"
	"sort"
)

// Chemistry presets. Values are rough single-cell fits good enough for
// qualitative studies; override individual entries with a yaml file for
// anything quantitative.
var chemistries = map[string]Values{
	"graphite-nmc": {
		"cell_area": 0.1,
		"capacity":  5.0,
		"v_min":     2.5,
		"v_max":     4.2,
		"t_init":    298.15,
		"t_ambient": 298.15,

		"cmax_n":     33133,
		"c_init_n":   28163,
		"radius_n":   5.86e-6,
		"diff_n":     3.3e-14,
		"k_n":        6.0e-11,
		"a_n":        3.84e5,
		"thick_n":    8.52e-5,
		"porosity_n": 0.25,

		"cmax_p":     63104,
		"c_init_p":   26500,
		"radius_p":   5.22e-6,
		"diff_p":     4.0e-15,
		"k_p":        3.5e-11,
		"a_p":        3.82e5,
		"thick_p":    7.56e-5,
		"porosity_p": 0.335,

		"sv_n": 5.12e5,
		"sv_p": 5.75e5,

		"omega_n":        3.1e-6,
		"omega_p":        1.25e-5,
		"youngs_n":       1.5e10,
		"youngs_p":       3.75e11,
		"poisson_n":      0.3,
		"poisson_p":      0.2,
		"crack_init":     2.0e-8,
		"crack_rate":     3.9e-20,
		"crack_exponent": 2.2,
		"crack_density":  3.18e15,
		"crack_width":    1.5e-8,

		"thick_s":    1.2e-5,
		"porosity_s": 0.47,
		"ce_init":    1000,
		"de":         3.0e-10,
		"tplus":      0.26,
		"kappa_e":    1.0,

		"thermal_mass": 80,
		"cooling":      0.15,
		"k_thermal":    1.0,
		"cell_thick":   0.01,

		"cc_resistance": 0.002,

		"sei_init":              5e-9,
		"sei_rate":              1.0e-11,
		"sei_solvent_diff":      2.5e-22,
		"sei_solvent_conc":      2636,
		"sei_electron_cond":     8.95e-14,
		"sei_interstitial_diff": 1.0e-20,
		"sei_interstitial_conc": 15,
		"sei_ec_rate":           2.0e-12,
		"sei_ec_conc":           4541,
		"sei_ec_diff":           2.0e-18,
		"sei_molar_volume":      9.585e-5,
		"sei_resistivity":       2.0e5,
	},
	"lfp": {
		"cell_area": 0.12,
		"capacity":  6.0,
		"v_min":     2.0,
		"v_max":     3.65,
		"t_init":    298.15,
		"t_ambient": 298.15,

		"cmax_n":     31370,
		"c_init_n":   26000,
		"radius_n":   6.0e-6,
		"diff_n":     3.0e-14,
		"k_n":        6.0e-11,
		"a_n":        3.7e5,
		"thick_n":    9.0e-5,
		"porosity_n": 0.26,

		"cmax_p":     22806,
		"c_init_p":   2500,
		"radius_p":   1.0e-7,
		"diff_p":     1.0e-15,
		"k_p":        8.0e-11,
		"a_p":        1.5e6,
		"thick_p":    8.0e-5,
		"porosity_p": 0.36,

		"sv_n": 5.0e5,
		"sv_p": 3.0e7,

		"omega_n":        3.1e-6,
		"omega_p":        6.0e-6,
		"youngs_n":       1.5e10,
		"youngs_p":       1.25e11,
		"poisson_n":      0.3,
		"poisson_p":      0.25,
		"crack_init":     2.0e-8,
		"crack_rate":     3.9e-20,
		"crack_exponent": 2.2,
		"crack_density":  3.18e15,
		"crack_width":    1.5e-8,

		"thick_s":    1.5e-5,
		"porosity_s": 0.45,
		"ce_init":    1000,
		"de":         2.5e-10,
		"tplus":      0.36,
		"kappa_e":    0.95,

		"thermal_mass": 95,
		"cooling":      0.18,
		"k_thermal":    1.1,
		"cell_thick":   0.012,

		"cc_resistance": 0.0015,

		"sei_init":              5e-9,
		"sei_rate":              8.0e-12,
		"sei_solvent_diff":      2.5e-22,
		"sei_solvent_conc":      2636,
		"sei_electron_cond":     8.95e-14,
		"sei_interstitial_diff": 1.0e-20,
		"sei_interstitial_conc": 15,
		"sei_ec_rate":           2.0e-12,
		"sei_ec_conc":           4541,
		"sei_ec_diff":           2.0e-18,
		"sei_molar_volume":      9.585e-5,
		"sei_resistivity":       2.0e5,
	},
}

// Chemistry returns a copy of a named parameter preset.
func Chemistry(name string) (Values, error) {
	base, ok := chemistries[name]
	if !ok {
		return nil, fmt.Errorf("params: unknown chemistry %q (available: %v)", name, Chemistries())
	}
	return base.Clone(), nil
}

func Chemistries() []string {
	names := make([]string, 0, len(chemistries))
	for name := range chemistries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
