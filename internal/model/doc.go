// Package model assembles cell models from interchangeable physics
// submodels.
//
// A [Model] starts as a mutable map from physics area to submodel.
// [Model.Build] runs the coupling pass: it verifies the set is complete,
// packs every submodel's state variables into one vector, resolves the
// coupling variables submodels exchange, and populates the rhs map,
// initial state, output variables, and termination events. Until then
// the model cannot be solved and its rhs map is empty.
//
// The [SPM] and [SPMe] presets build the standard single-particle
// stacks; swap entries in Submodels before building to customize:
//
//	m, _ := model.SPMe(model.Options{}, p, false)
//	m.Submodels[model.AreaThermal] = submodel.NewLumpedThermal()
//	err := m.Build()
package model
