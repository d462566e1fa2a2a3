package sim

import (
	"math"

	"github.com/okuno/cellsim/internal/cell"
)

// summarize fills the solution summary: charge throughput, energy
// delivered, voltage statistics, peak temperature, and final SEI
// thickness when an SEI submodel carries one. Integrals are trapezoidal
// over the recorded samples.
func (s *Simulation) summarize(sol *cell.Solution) {
	voltage, okV := sol.Series("voltage")
	current, okI := sol.Series("current")
	if !okV || !okI || len(sol.Times) < 2 {
		return
	}

	capacityAs := 0.0
	energyWs := 0.0
	minV := math.Inf(1)
	sumV := 0.0
	for i := range sol.Times {
		if voltage[i] < minV {
			minV = voltage[i]
		}
		sumV += voltage[i]
		if i == 0 {
			continue
		}
		dt := sol.Times[i] - sol.Times[i-1]
		capacityAs += dt * (current[i] + current[i-1]) / 2
		energyWs += dt * (current[i]*voltage[i] + current[i-1]*voltage[i-1]) / 2
	}

	sol.Summary["capacity"] = capacityAs / 3600
	sol.Summary["energy"] = energyWs / 3600
	sol.Summary["min_voltage"] = minV
	sol.Summary["mean_voltage"] = sumV / float64(len(voltage))

	if temp, ok := sol.Series("temperature"); ok {
		peak := math.Inf(-1)
		for _, v := range temp {
			if v > peak {
				peak = v
			}
		}
		sol.Summary["peak_temperature"] = peak
	}
	if l, ok := sol.Final("l_sei"); ok {
		sol.Summary["final_sei_thickness"] = l
	}
}
