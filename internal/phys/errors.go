package phys

import "errors"

// Domain errors for the physics core.
var (
	// ErrStoreFull indicates the entity store reached its hard capacity.
	ErrStoreFull = errors.New("phys: entity store full")

	// ErrInvalidConfig indicates a configuration rejected at construction.
	ErrInvalidConfig = errors.New("phys: invalid configuration")

	// ErrUnknownEntity indicates an id outside the live entity range.
	ErrUnknownEntity = errors.New("phys: unknown entity id")

	// ErrDegenerateEntity indicates a body with NaN position or
	// non-positive half-extents, excluded from the collision pass.
	ErrDegenerateEntity = errors.New("phys: degenerate entity geometry")
)
