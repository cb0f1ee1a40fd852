package sim

import (
	"errors"
	"fmt"
)

// Domain errors for run configuration and execution.
var (
	// ErrInvalidTimestep indicates a non-positive dt.
	ErrInvalidTimestep = errors.New("sim: timestep must be positive")

	// ErrInvalidDuration indicates a non-positive run duration.
	ErrInvalidDuration = errors.New("sim: duration must be positive")

	// ErrInvalidTimeScale indicates a non-positive time scale factor.
	ErrInvalidTimeScale = errors.New("sim: time scale must be positive")

	// ErrDiverged indicates a NaN or Inf crept into body state.
	ErrDiverged = errors.New("sim: body state diverged (NaN or Inf)")
)

// StepError wraps an error with the step at which it occurred.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
