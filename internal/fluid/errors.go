package fluid

import (
	"errors"
	"fmt"
)

// Domain errors for the fluid core.
var (
	// ErrInvalidTimeStep indicates a NaN, infinite or negative dt.
	ErrInvalidTimeStep = errors.New("fluid: invalid time step (NaN, Inf or negative)")

	// ErrInvalidConfiguration indicates a parameter outside its valid range.
	ErrInvalidConfiguration = errors.New("fluid: invalid configuration")

	// ErrDegenerateGeometry indicates a wall with a non-positive half-extent.
	ErrDegenerateGeometry = errors.New("fluid: degenerate wall geometry")

	// ErrInvalidState indicates a particle with a NaN or Inf component.
	ErrInvalidState = errors.New("fluid: invalid particle state (NaN or Inf detected)")
)

// StepError reports the particle that failed validation during a step.
type StepError struct {
	Particle int
	State    Particle
	Wrapped  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("particle %d (pos=%v vel=%v): %v", e.Particle, e.State.Position, e.State.Velocity, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
