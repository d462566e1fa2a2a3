package cell

import "errors"

// Domain errors for model construction, building, and solving.
var (
	// ErrNotBuilt indicates an operation that needs a built model.
	ErrNotBuilt = errors.New("cell: model is not built")

	// ErrAlreadyBuilt indicates a mutation attempted after building.
	ErrAlreadyBuilt = errors.New("cell: model is already built")

	// ErrMissingSubmodel indicates a required physics area has no submodel.
	ErrMissingSubmodel = errors.New("cell: missing required submodel")

	// ErrUnknownOption indicates an option value outside the known set.
	ErrUnknownOption = errors.New("cell: unknown option")

	// ErrIncompatibleOptions indicates known options that cannot be combined.
	ErrIncompatibleOptions = errors.New("cell: incompatible options")

	// ErrMissingParameter indicates a parameter a submodel needs that the
	// set does not carry.
	ErrMissingParameter = errors.New("cell: missing parameter")

	// ErrCouplingUnresolved indicates a coupling variable with no provider.
	ErrCouplingUnresolved = errors.New("cell: unresolved coupling variable")

	// ErrCouplingCycle indicates a dependency cycle between submodels.
	ErrCouplingCycle = errors.New("cell: coupling cycle between submodels")

	// ErrDuplicateProvider indicates two submodels providing one coupling.
	ErrDuplicateProvider = errors.New("cell: duplicate coupling provider")

	// ErrDuplicateVariable indicates two submodels owning one state variable.
	ErrDuplicateVariable = errors.New("cell: duplicate state variable")

	// ErrInvalidState indicates a state vector with NaN or Inf entries.
	ErrInvalidState = errors.New("cell: invalid state (NaN or Inf detected)")

	// ErrStepTooSmall indicates the adaptive timestep fell below minimum.
	ErrStepTooSmall = errors.New("cell: adaptive timestep below minimum")

	// ErrUnknownVariable indicates a lookup of an unrecorded variable.
	ErrUnknownVariable = errors.New("cell: unknown variable")
)
