// Package submodel implements the pluggable physics areas of a cell
// model: particles, particle mechanics, electrolyte transport,
// interfacial kinetics, thermal balances, SEI growth, porosity, current
// collection, and the external circuit. Submodels only talk to each other through coupling variables
// published into a [cell.Env]; the model builder wires them together.
package submodel
