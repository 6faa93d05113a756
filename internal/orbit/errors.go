package orbit

import "errors"

// Domain errors for field construction.
var (
	// ErrEmptyField indicates a field with no orbiters was requested.
	ErrEmptyField = errors.New("orbit: field must hold at least one orbiter")

	// ErrIncrement indicates a negative or non-finite speed increment.
	ErrIncrement = errors.New("orbit: speed increment must be finite and non-negative")

	// ErrBounds indicates a reset range with a non-positive dimension.
	ErrBounds = errors.New("orbit: bounds must be positive on both axes")

	// ErrUnknownStepper indicates an unregistered stepper name.
	ErrUnknownStepper = errors.New("orbit: unknown stepper")

	// ErrUnknownMode indicates an unregistered coupling mode name.
	ErrUnknownMode = errors.New("orbit: unknown coupling mode")
)
